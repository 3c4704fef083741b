package bfs

// DistanceQuery describes a shortest-path / reachability query.
type DistanceQuery struct {
	From           string
	To             string
	MaxHops        int
	IncludeBridges bool
}

// DistanceResult is the outcome of a Distance query.
//
// Hops is nil when no path exists within MaxHops (or either endpoint is
// unknown to the store). Bridges is nil when IncludeBridges was false;
// it is a non-nil, possibly empty, slice when IncludeBridges was true
// and a path was found.
type DistanceResult struct {
	From          string
	To            string
	Hops          *int
	PathCount     uint64
	MutualFollow  bool
	Bridges       []string
	BridgesWanted bool
}

// NotFound reports whether the query found no path within bounds.
func (r DistanceResult) NotFound() bool {
	return r.Hops == nil
}

func notFoundResult(from, to string) DistanceResult {
	return DistanceResult{From: from, To: to, Hops: nil, PathCount: 0, MutualFollow: false}
}

func sameNodeResult(label string, includeBridges bool) DistanceResult {
	hops := 0
	r := DistanceResult{From: label, To: label, Hops: &hops, PathCount: 1, MutualFollow: false}
	if includeBridges {
		r.Bridges = []string{}
		r.BridgesWanted = true
	}
	return r
}

// PathQuery describes a one-shortest-path query.
type PathQuery struct {
	From    string
	To      string
	MaxHops int
}

// PathResult is the outcome of a Path query. Path is nil when no path
// exists within MaxHops; it is a (possibly empty) slice of interior
// labels, excluding both endpoints, when one does.
type PathResult struct {
	From string
	To   string
	Path []string
}

// visitEntry is one side's record for a visited vertex: the BFS depth
// at which it was first reached from that side's root, and the number
// of distinct shortest paths (from the root) reaching it at that depth.
type visitEntry struct {
	depth uint32
	paths uint64
}

// meetingNode records a vertex where the forward and backward searches
// met, together with each side's path count at the meeting depth.
type meetingNode struct {
	vid       uint32
	fwdPaths  uint64
	bwdPaths  uint64
}

// State is reusable bidirectional-BFS scratch space. It must be reset
// (via reset) before each query and is safe to keep around between
// queries to amortize allocation — see the package-level sync.Pool in
// bfs.go.
type State struct {
	fwdVisited map[uint32]visitEntry
	fwdCurrent []uint32
	fwdNext    []uint32

	bwdVisited map[uint32]visitEntry
	bwdCurrent []uint32
	bwdNext    []uint32

	// nextPaths is shared scratch for accumulating a round's
	// newly-discovered path counts before they are committed into the
	// expanding side's visited map. Only one side expands per round, so
	// one map suffices for both directions.
	nextPaths map[uint32]uint64

	// lastExpandedForward records which side expandRound last grew, so
	// that chooseSide can alternate sides on a frontier-size tie instead
	// of always preferring forward. Without alternation, ties keep
	// expanding the same side and a meeting is only ever detected at the
	// destination vertex itself, under-reporting interior bridges.
	lastExpandedForward bool

	meeting []meetingNode

	bridgeSet map[uint32]struct{}
	bridgeIDs []uint32
}

const (
	initialVisitedCapacity  = 256
	initialFrontierCapacity = 64
	initialMeetingCapacity  = 16
)

func newState() *State {
	return &State{
		fwdVisited: make(map[uint32]visitEntry, initialVisitedCapacity),
		fwdCurrent: make([]uint32, 0, initialFrontierCapacity),
		fwdNext:    make([]uint32, 0, initialFrontierCapacity),
		bwdVisited: make(map[uint32]visitEntry, initialVisitedCapacity),
		bwdCurrent: make([]uint32, 0, initialFrontierCapacity),
		bwdNext:    make([]uint32, 0, initialFrontierCapacity),
		nextPaths:  make(map[uint32]uint64, initialFrontierCapacity),
		meeting:    make([]meetingNode, 0, initialMeetingCapacity),
		bridgeSet:  make(map[uint32]struct{}, initialMeetingCapacity),
		bridgeIDs:  make([]uint32, 0, initialMeetingCapacity),
	}
}

// reset clears every structure while retaining allocated capacity.
func (st *State) reset() {
	clear(st.fwdVisited)
	st.fwdCurrent = st.fwdCurrent[:0]
	st.fwdNext = st.fwdNext[:0]
	clear(st.bwdVisited)
	st.bwdCurrent = st.bwdCurrent[:0]
	st.bwdNext = st.bwdNext[:0]
	clear(st.nextPaths)
	st.lastExpandedForward = false
	st.meeting = st.meeting[:0]
	clear(st.bridgeSet)
	st.bridgeIDs = st.bridgeIDs[:0]
}
