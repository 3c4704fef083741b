// Package oracle is the query facade: it validates inputs, serves
// cache hits directly, and dispatches cache misses to a bounded
// CPU-tier worker pool that runs bfs.Distance. Concurrent misses for
// the identical query are coalesced via singleflight so only one BFS
// per distinct in-flight fingerprint actually runs.
//
// Distance and BatchDistance are safe for concurrent use. Close stops
// the worker pool and must only be called once all in-flight calls
// have returned.
package oracle
