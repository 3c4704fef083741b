// Package bfs computes bounded-hop shortest-path distance, shortest-path
// count, mutual-follow, and bridge (meeting-vertex) information between
// two vertices of a wotstore.Store, using bidirectional breadth-first
// search.
//
// What
//
//   - Distance runs one bidirectional BFS under a single read hold on
//     the store's adjacency and returns hop count, the number of
//     distinct shortest directed paths, whether the two vertices
//     mutually follow each other, and (optionally) the bridge vertices:
//     the interior vertices at which the forward and backward searches
//     met on a shortest path.
//   - Path reconstructs one concrete shortest path (its interior
//     labels, excluding both endpoints) between two vertices.
//
// Why bidirectional
//
//   - A single-direction BFS out to depth d explores O(branching^d)
//     vertices; splitting the same budget across two directions that
//     meet in the middle explores roughly O(2 * branching^(d/2)) —
//     an exponential win for the follow-graph fan-outs this engine
//     targets.
//
// Algorithm sketch
//
//   - Seed fwd_visited[from] = (depth 0, 1 path) and bwd_visited[to]
//     likewise. Each step expands whichever frontier is currently
//     smaller (or the only nonempty one), incrementing that side's
//     depth and scanning every vertex in its current frontier.
//   - A neighbor already visited on the opposite side is a meeting
//     point: its total distance is this side's new depth plus the
//     opposite side's recorded depth. Meetings at a strictly better
//     total replace all previously recorded meetings; meetings tying
//     the best total accumulate.
//   - Each vertex's visited entry also carries a path count: the number
//     of distinct shortest paths (from the BFS root on that side)
//     reaching it. A meeting vertex m's contribution to the overall
//     path count is fwd_paths(m) * bwd_paths(m); summing over all
//     meetings at the optimal total gives Distance's path count.
//   - Expansion stops once the sum of both sides' completed depths
//     either reaches max_hops or reaches/exceeds the best distance
//     found so far — neither side can improve on it from here.
//
// Complexity: O(V + E) worst case bounded by max_hops, same asymptotic
// class as single-direction BFS, with a much smaller constant in
// practice for the small-world graphs this engine targets.
//
// Fast paths: an unknown label short-circuits to a not-found result
// (even when from == to); from == to on a known label short-circuits to
// a zero-hop, one-path result without touching the adjacency; a direct
// out-edge short-circuits to a one-hop, one-path result with an empty
// bridge set, since a one-hop path has no interior vertex.
package bfs
