// Package intern deduplicates pubkey label strings so that the graph
// store and every query result share one allocation per distinct label.
//
// Intern is safe for concurrent use. The fast path (label already
// seen) takes no lock: it is a single sync.Map load. The slow path
// (first sighting of a label) takes a short mutex to avoid two
// goroutines racing to install two different string headers for the
// same content.
package intern

import "sync"

// Interner is a concurrent set of shared label strings.
//
// Contract: two calls to Intern with equal content return the exact
// same string value — the one stored on first sighting — so callers
// that compare interned labels by value are, in effect, comparing by
// identity. The zero value is not usable; construct with New.
type Interner struct {
	mu     sync.Mutex
	labels sync.Map // string -> string, lock-free reads
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{}
}

// Intern returns the canonical stored copy of s, inserting s as that
// copy if this is the first time s has been seen.
//
// Complexity: O(1) expected. Thread-safe.
func (in *Interner) Intern(s string) string {
	// Fast path: lock-free lookup against whatever's already interned.
	if v, ok := in.labels.Load(s); ok {
		return v.(string)
	}

	// Slow path: serialize first-sighting races so two goroutines
	// interning the same new label converge on one stored copy.
	in.mu.Lock()
	defer in.mu.Unlock()

	if v, ok := in.labels.Load(s); ok {
		return v.(string)
	}
	in.labels.Store(s, s)
	return s
}

// Len reports the number of distinct labels interned so far.
// Approximate under concurrent mutation; intended for diagnostics.
func (in *Interner) Len() int {
	n := 0
	in.labels.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
