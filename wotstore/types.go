// Package wotstore holds the directed follow graph: a dense, interned
// vertex space with sorted out/in adjacency lists, mutated by a single
// writer per subject and read by many concurrent BFS traversals.
//
// Vertices are identified externally by a label (a 64-hex-character
// pubkey) and internally by a dense uint32 vid assigned on first
// sighting. The label<->vid mapping is permanent for the life of the
// Store: vertices are never deleted, only their outgoing edges change.
//
// Concurrency model: the label->vid and vid->label maps are append-only
// sync.Maps and are read without any lock. The three vid-indexed slices
// (out, in, metadata) live behind one sync.RWMutex. Writers hold that
// lock only for the minimal mutation; the diff between a vertex's old
// and new follow list is computed outside any lock. Readers — BFS and
// Stats — hold a read lock for as long as they need a consistent
// snapshot of the adjacency, per BorrowAdjacency.
package wotstore

import "github.com/nostrwot/wotgraph/lockmetrics"

// nodeInfo is the per-vertex metadata used solely to reject stale
// updates. The Has* flags stand in for Rust's Option<T>: Go has no
// sum type for "absent" distinct from the zero value.
type nodeInfo struct {
	eventID      string
	createdAt    int64
	hasEventID   bool
	hasCreatedAt bool
}

// Stats is a point-in-time snapshot of graph size.
type Stats struct {
	NodeCount        int
	EdgeCount        int
	NodesWithFollows int
}

// LockMetrics re-exports the store's advisory lock-contention snapshot type.
type LockMetrics = lockmetrics.Snapshot
