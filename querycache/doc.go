// Package querycache caches bfs.Distance results keyed by query
// fingerprint, so repeated queries for the same (from, to, max_hops,
// include_bridges) tuple skip the CPU-bound BFS tier entirely.
//
// The cache stores a compact representation — bridge vids rather than
// resolved labels — and resolves labels back out on Get, against a
// wotstore.Store passed in at call time rather than captured at
// construction, since the store outlives any one cache instance and a
// cache reset should never require rebuilding the store.
//
// Backing implementation is a ristretto.Cache, a lock-free, TinyLFU
// admission cache: Get and Set never block each other, and eviction
// approximates least-frequently-used rather than strict LRU. Entries
// additionally expire on a fixed TTL independent of eviction pressure.
package querycache
