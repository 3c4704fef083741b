package wotstore

import (
	"sync"

	"github.com/nostrwot/wotgraph/intern"
	"github.com/nostrwot/wotgraph/lockmetrics"
)

// Store is the directed follow graph. The zero value is not usable;
// construct with New.
type Store struct {
	interner *intern.Interner

	labelToVid sync.Map // string -> uint32, append-only, lock-free
	vidToLabel sync.Map // uint32 -> string, append-only, lock-free

	mu      sync.RWMutex // guards out, in, meta below
	out     [][]uint32   // out[vid] = sorted, deduped vids this vertex follows
	in      [][]uint32   // in[vid]  = sorted, deduped vids that follow this vertex
	meta    []nodeInfo
	metrics lockmetrics.Metrics
}

// New returns an empty Store.
func New() *Store {
	return &Store{interner: intern.New()}
}

// GetOrCreate returns the vid for label, assigning a new one on first
// sighting. Never returns a previously-used vid for a different label.
//
// Complexity: O(1) amortized. Thread-safe.
func (s *Store) GetOrCreate(label string) uint32 {
	if v, ok := s.labelToVid.Load(label); ok {
		return v.(uint32)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another goroutine may have created it while we waited.
	if v, ok := s.labelToVid.Load(label); ok {
		return v.(uint32)
	}

	canonical := s.interner.Intern(label)
	vid := uint32(len(s.out))
	s.out = append(s.out, nil)
	s.in = append(s.in, nil)
	s.meta = append(s.meta, nodeInfo{})

	s.vidToLabel.Store(vid, canonical)
	s.labelToVid.Store(canonical, vid)
	return vid
}

// IDOf resolves a label to its vid, if the label has been observed.
// Lock-free.
func (s *Store) IDOf(label string) (uint32, bool) {
	v, ok := s.labelToVid.Load(label)
	if !ok {
		return 0, false
	}
	return v.(uint32), true
}

// LabelOf resolves a vid back to its label, if the vid has been
// assigned. Lock-free.
func (s *Store) LabelOf(vid uint32) (string, bool) {
	v, ok := s.vidToLabel.Load(vid)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// UpdateFollows replaces the outgoing follow set of label with follows,
// subject to a last-write-wins check on createdAt: if the vertex already
// carries a createdAt and the incoming one is not strictly greater, the
// update is a silent no-op and UpdateFollows returns false.
//
// eventID/createdAt are recorded as metadata only when hasEventID /
// hasCreatedAt are true; a caller with no timestamp (e.g. a synthetic
// or replayed edge) may omit both and the update is always accepted.
func (s *Store) UpdateFollows(label string, follows []string, eventID string, createdAt int64, hasEventID, hasCreatedAt bool) bool {
	vid := s.GetOrCreate(label)

	if hasCreatedAt {
		s.mu.RLock()
		existing := s.meta[vid]
		s.mu.RUnlock()
		if existing.hasCreatedAt && createdAt <= existing.createdAt {
			return false
		}
	}

	newFollows := make([]uint32, 0, len(follows))
	for _, f := range follows {
		newFollows = append(newFollows, s.GetOrCreate(f))
	}
	newFollows = dedupSorted(newFollows)

	s.mu.RLock()
	oldFollows := append([]uint32(nil), s.out[vid]...)
	s.mu.RUnlock()

	toRemove, toAdd := diffSorted(oldFollows, newFollows)

	timer := lockmetrics.StartWrite(&s.metrics)
	s.mu.Lock()
	for _, u := range toRemove {
		s.in[u] = sortedRemove(s.in[u], vid)
	}
	s.out[vid] = newFollows
	for _, u := range toAdd {
		s.in[u] = sortedInsert(s.in[u], vid)
	}
	s.meta[vid] = nodeInfo{
		eventID:      eventID,
		createdAt:    createdAt,
		hasEventID:   hasEventID,
		hasCreatedAt: hasCreatedAt,
	}
	s.mu.Unlock()
	timer.Stop()

	return true
}

// GetFollows returns the labels label directly follows, or (nil, false)
// if label has never been observed.
func (s *Store) GetFollows(label string) ([]string, bool) {
	vid, ok := s.IDOf(label)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	ids := append([]uint32(nil), s.out[vid]...)
	s.mu.RUnlock()
	return s.resolveAll(ids), true
}

// GetFollowers returns the labels that directly follow label, or
// (nil, false) if label has never been observed.
func (s *Store) GetFollowers(label string) ([]string, bool) {
	vid, ok := s.IDOf(label)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	ids := append([]uint32(nil), s.in[vid]...)
	s.mu.RUnlock()
	return s.resolveAll(ids), true
}

func (s *Store) resolveAll(ids []uint32) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if label, ok := s.LabelOf(id); ok {
			out = append(out, label)
		}
	}
	return out
}

// BorrowAdjacency acquires a single read lock for the duration of fn
// and invokes fn with the full out/in adjacency. fn must not suspend
// (block on I/O, channels, or further locks) — it runs under the
// store's write-starving read hold, and a stalled callback blocks every
// pending writer for as long as it runs.
//
// This is the primitive BFS uses to get one consistent adjacency
// snapshot for an entire bidirectional traversal.
func (s *Store) BorrowAdjacency(fn func(out, in [][]uint32)) {
	timer := lockmetrics.StartRead(&s.metrics)
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.out, s.in)
}

// Stats reports graph size.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edgeCount := 0
	withFollows := 0
	for _, f := range s.out {
		edgeCount += len(f)
		if len(f) > 0 {
			withFollows++
		}
	}
	return Stats{
		NodeCount:        len(s.out),
		EdgeCount:        edgeCount,
		NodesWithFollows: withFollows,
	}
}

// LockMetrics reports the current advisory lock-contention snapshot.
func (s *Store) LockMetrics() LockMetrics {
	return s.metrics.Snapshot()
}

// ResetLockMetrics zeroes the lock-contention counters.
func (s *Store) ResetLockMetrics() {
	s.metrics.Reset()
}
