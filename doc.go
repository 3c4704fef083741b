// Package wotgraph is an in-memory Web-of-Trust oracle: a concurrently
// mutable directed follow graph with interned vertex identifiers, a
// bidirectional BFS for bounded-hop distance/path-count/bridge queries,
// and a TTL+capacity query cache sitting in front of it.
//
// The graph is built for one shape of workload: a slowly-changing
// follow graph updated by a single writer per subject, read by many
// concurrent shortest-path queries that must complete in well under a
// millisecond. Every data structure here is chosen for that shape —
// dense integer vertex ids, sorted adjacency slices, and a read lock
// held for the duration of one traversal rather than one edge lookup.
//
// Subpackages:
//
//	intern/      — pubkey string interning
//	wotstore/    — the graph itself: ids, adjacency, metadata, locking
//	lockmetrics/ — read/write lock contention counters
//	bfs/         — bidirectional shortest-path search over a wotstore.Store
//	querycache/  — bounded, TTL-expiring cache of BFS results
//	oraclecfg/   — bounds-checked configuration
//	oracle/      — the query facade gluing the above together
//	ingest/      — contracts for the out-of-scope ingestion/persistence collaborators
//
// This package intentionally contains no code of its own; it exists to
// document how the pieces fit together. See SPEC_FULL.md and DESIGN.md
// in the module root for the full design rationale.
package wotgraph
