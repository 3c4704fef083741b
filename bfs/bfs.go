package bfs

import (
	"math"
	"sort"
	"sync"

	"github.com/nostrwot/wotgraph/wotstore"
)

var statePool = sync.Pool{
	New: func() any { return newState() },
}

func acquireState() *State {
	st := statePool.Get().(*State)
	st.reset()
	return st
}

func releaseState(st *State) {
	statePool.Put(st)
}

const notFoundTotal = -1

// Distance runs a bounded-hop bidirectional BFS between From and To and
// reports hop count, shortest-path count, mutual-follow status, and
// (optionally) the bridge vertices where the two searches met on a
// shortest path.
//
// The unknown-label and same-vertex fast paths (see doc.go) are checked
// before any adjacency is touched.
func Distance(s *wotstore.Store, q DistanceQuery) DistanceResult {
	fromVid, okFrom := s.IDOf(q.From)
	toVid, okTo := s.IDOf(q.To)
	if !okFrom || !okTo {
		return notFoundResult(q.From, q.To)
	}
	if fromVid == toVid {
		return sameNodeResult(q.From, q.IncludeBridges)
	}

	var result DistanceResult
	s.BorrowAdjacency(func(out, in [][]uint32) {
		result = distanceLocked(s, out, in, q, fromVid, toVid)
	})
	return result
}

func distanceLocked(s *wotstore.Store, out, in [][]uint32, q DistanceQuery, fromVid, toVid uint32) DistanceResult {
	isDirect := sortedContains(out[fromVid], toVid)
	if isDirect {
		mutual := sortedContains(out[toVid], fromVid)
		hops := 1
		r := DistanceResult{From: q.From, To: q.To, Hops: &hops, PathCount: 1, MutualFollow: mutual}
		if q.IncludeBridges {
			r.Bridges = []string{}
			r.BridgesWanted = true
		}
		return r
	}
	// Mutual follow requires a direct edge in both directions; isDirect
	// above already ruled out from->to, so this branch is never mutual.
	const mutual = false

	if q.MaxHops < 1 {
		return notFoundResult(q.From, q.To)
	}

	st := acquireState()
	defer releaseState(st)

	bestTotal := runBidirectionalBFS(st, out, in, fromVid, toVid, q.MaxHops)
	if bestTotal == notFoundTotal {
		return notFoundResult(q.From, q.To)
	}

	var pathCount uint64
	for _, m := range st.meeting {
		pathCount = addSatU64(pathCount, mulSatU64(m.fwdPaths, m.bwdPaths))
	}

	hops := bestTotal
	r := DistanceResult{From: q.From, To: q.To, Hops: &hops, PathCount: pathCount, MutualFollow: mutual}
	if q.IncludeBridges {
		r.Bridges = bridgeLabels(s, st, fromVid, toVid)
		r.BridgesWanted = true
	}
	return r
}

// bridgeLabels resolves the deduplicated, endpoint-excluded set of
// meeting vertices recorded in st.meeting back to labels. IDOf/LabelOf
// are lock-free append-only maps, so calling them while still inside
// BorrowAdjacency's callback is safe.
func bridgeLabels(s *wotstore.Store, st *State, fromVid, toVid uint32) []string {
	ids := st.bridgeIDs[:0]
	for _, m := range st.meeting {
		if m.vid == fromVid || m.vid == toVid {
			continue
		}
		if _, seen := st.bridgeSet[m.vid]; seen {
			continue
		}
		st.bridgeSet[m.vid] = struct{}{}
		ids = append(ids, m.vid)
	}
	st.bridgeIDs = ids
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	labels := make([]string, 0, len(ids))
	for _, vid := range ids {
		if label, ok := s.LabelOf(vid); ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// runBidirectionalBFS expands the smaller frontier at each step until
// either both frontiers are exhausted, max_hops is reached, or no
// further expansion could improve on the best total distance found so
// far. It returns the best total distance, or notFoundTotal.
func runBidirectionalBFS(st *State, out, in [][]uint32, fromVid, toVid uint32, maxHops int) int {
	st.fwdVisited[fromVid] = visitEntry{depth: 0, paths: 1}
	st.fwdCurrent = append(st.fwdCurrent, fromVid)

	st.bwdVisited[toVid] = visitEntry{depth: 0, paths: 1}
	st.bwdCurrent = append(st.bwdCurrent, toVid)

	fwdDepth, bwdDepth := 0, 0
	bestTotal := notFoundTotal

	for len(st.fwdCurrent) > 0 || len(st.bwdCurrent) > 0 {
		if bestTotal != notFoundTotal && fwdDepth+bwdDepth >= bestTotal {
			break
		}
		if fwdDepth+bwdDepth >= maxHops {
			break
		}

		expandFwd := chooseSide(st)
		if expandFwd {
			expandRound(st, out, true, &bestTotal)
			fwdDepth++
		} else {
			expandRound(st, in, false, &bestTotal)
			bwdDepth++
		}
		st.lastExpandedForward = expandFwd
	}

	return bestTotal
}

// chooseSide picks which frontier to expand next, preferring the
// smaller one (the meet-in-the-middle optimization). On a size tie it
// alternates away from whichever side expanded last round, rather than
// always preferring forward: unconditionally favoring forward on ties
// means, for a simple even-length path like A->M->C, the forward side
// alone walks all the way to the destination before the backward side
// ever expands, so the meeting lands on the destination vertex itself
// instead of the interior bridge M. Alternating lets each side expand
// exactly one hop before the other, so meetings land on the true
// interior vertex.
func chooseSide(st *State) bool {
	switch {
	case len(st.fwdCurrent) == 0:
		return false
	case len(st.bwdCurrent) == 0:
		return true
	case len(st.fwdCurrent) < len(st.bwdCurrent):
		return true
	case len(st.bwdCurrent) < len(st.fwdCurrent):
		return false
	default:
		return !st.lastExpandedForward
	}
}

// expandRound expands one side's current frontier by one hop. adj is
// out[] when forward (following follow-edges) or in[] when backward
// (following predecessor edges). New meetings are recorded against
// bestTotal.
func expandRound(st *State, adj [][]uint32, forward bool, bestTotal *int) {
	own, opposite := st.fwdVisited, st.bwdVisited
	current := st.fwdCurrent
	nextBuf := st.fwdNext
	if !forward {
		own, opposite = st.bwdVisited, st.fwdVisited
		current = st.bwdCurrent
		nextBuf = st.bwdNext
	}

	next := st.nextPaths
	clear(next)
	for _, v := range current {
		ve := own[v]
		for _, w := range adj[v] {
			if oe, ok := opposite[w]; ok {
				total := int(ve.depth) + 1 + int(oe.depth)
				var fp, bp uint64
				if forward {
					fp, bp = ve.paths, oe.paths
				} else {
					fp, bp = oe.paths, ve.paths
				}
				recordMeeting(st, bestTotal, w, fp, bp, total)
				continue
			}
			if _, ok := own[w]; ok {
				continue
			}
			next[w] = addSatU64(next[w], ve.paths)
		}
	}

	newDepth := uint32(0)
	if forward {
		newDepth = uint32(visitedDepth(st.fwdVisited, st.fwdCurrent) + 1)
	} else {
		newDepth = uint32(visitedDepth(st.bwdVisited, st.bwdCurrent) + 1)
	}

	nextFrontier := nextBuf[:0]
	for w, p := range next {
		own[w] = visitEntry{depth: newDepth, paths: p}
		nextFrontier = append(nextFrontier, w)
	}

	// Double-buffer: the frontier just consumed becomes next round's
	// scratch buffer for this side, and vice versa.
	if forward {
		st.fwdNext = current[:0]
		st.fwdCurrent = nextFrontier
	} else {
		st.bwdNext = current[:0]
		st.bwdCurrent = nextFrontier
	}
}

// visitedDepth returns the depth shared by every vertex in frontier
// (all vertices in one BFS frontier are at the same depth).
func visitedDepth(visited map[uint32]visitEntry, frontier []uint32) int {
	if len(frontier) == 0 {
		return 0
	}
	return int(visited[frontier[0]].depth)
}

func recordMeeting(st *State, bestTotal *int, vid uint32, fwdPaths, bwdPaths uint64, total int) {
	switch {
	case *bestTotal == notFoundTotal || total < *bestTotal:
		*bestTotal = total
		st.meeting = st.meeting[:0]
		st.meeting = append(st.meeting, meetingNode{vid: vid, fwdPaths: fwdPaths, bwdPaths: bwdPaths})
	case total == *bestTotal:
		st.meeting = append(st.meeting, meetingNode{vid: vid, fwdPaths: fwdPaths, bwdPaths: bwdPaths})
	}
}

func addSatU64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}

func mulSatU64(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	product := a * b
	if product/a != b {
		return math.MaxUint64
	}
	return product
}

func sortedContains(list []uint32, target uint32) bool {
	i := sort.Search(len(list), func(i int) bool { return list[i] >= target })
	return i < len(list) && list[i] == target
}

// Path reconstructs one shortest path (interior labels only) between
// From and To, bounded by MaxHops. Unlike Distance it does not attempt
// to enumerate every shortest path or every meeting vertex — a single
// parent-pointer forward BFS is sufficient and simpler to reconstruct
// from.
func Path(s *wotstore.Store, q PathQuery) PathResult {
	fromVid, okFrom := s.IDOf(q.From)
	toVid, okTo := s.IDOf(q.To)
	if !okFrom || !okTo {
		return PathResult{From: q.From, To: q.To, Path: nil}
	}
	if fromVid == toVid {
		return PathResult{From: q.From, To: q.To, Path: []string{}}
	}

	var ids []uint32
	var found bool
	s.BorrowAdjacency(func(out, in [][]uint32) {
		ids, found = shortestPathLocked(out, fromVid, toVid, q.MaxHops)
	})
	if !found {
		return PathResult{From: q.From, To: q.To, Path: nil}
	}

	labels := make([]string, 0, len(ids))
	for _, vid := range ids {
		label, ok := s.LabelOf(vid)
		if !ok {
			return PathResult{From: q.From, To: q.To, Path: nil}
		}
		labels = append(labels, label)
	}
	return PathResult{From: q.From, To: q.To, Path: labels}
}

// shortestPathLocked runs a single-direction, parent-tracking BFS out
// to MaxHops and returns the interior vids of one shortest from->to
// path. found is false if no such path exists within bounds; ids is
// always non-nil (possibly empty) when found is true.
func shortestPathLocked(out [][]uint32, fromVid, toVid uint32, maxHops int) (ids []uint32, found bool) {
	if maxHops < 1 {
		return nil, false
	}

	parent := map[uint32]uint32{fromVid: fromVid}
	current := []uint32{fromVid}

	for depth := 0; depth < maxHops && len(current) > 0; depth++ {
		var next []uint32
		for _, v := range current {
			for _, w := range out[v] {
				if _, seen := parent[w]; seen {
					continue
				}
				parent[w] = v
				if w == toVid {
					return reconstruct(parent, fromVid, toVid), true
				}
				next = append(next, w)
			}
		}
		current = next
	}
	return nil, false
}

func reconstruct(parent map[uint32]uint32, fromVid, toVid uint32) []uint32 {
	interior := make([]uint32, 0)
	for v := parent[toVid]; v != fromVid; v = parent[v] {
		interior = append(interior, v)
	}
	for i, j := 0, len(interior)-1; i < j; i, j = i+1, j-1 {
		interior[i], interior[j] = interior[j], interior[i]
	}
	return interior
}
