package querycache

import (
	"encoding/binary"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/nostrwot/wotgraph/bfs"
	"github.com/nostrwot/wotgraph/wotstore"
)

// Key is a query fingerprint: two vids, a hop bound, and whether
// bridges were requested. Equal fingerprints are guaranteed to produce
// equal results for as long as the underlying graph is unchanged.
type Key struct {
	From           uint32
	To             uint32
	MaxHops        uint8
	IncludeBridges bool
}

// encode packs Key into a fixed 10-byte string to use as the
// underlying ristretto key; ristretto hashes string keys directly, so
// this avoids depending on struct-key generic support.
func (k Key) encode() string {
	var buf [10]byte
	binary.BigEndian.PutUint32(buf[0:4], k.From)
	binary.BigEndian.PutUint32(buf[4:8], k.To)
	buf[8] = k.MaxHops
	if k.IncludeBridges {
		buf[9] = 1
	}
	return string(buf[:])
}

// compactResult is the cached payload: bridge vids rather than
// resolved labels, so eviction and storage never depend on interner
// state and Get can resolve labels lazily against whatever store
// it's handed.
type compactResult struct {
	hops          int16 // -1 means "no path"
	pathCount     uint64
	mutualFollow  bool
	bridgeVIDs    []uint32
	bridgesWanted bool
}

const noPathHops = -1

// Stats reports the cache's bounds and cumulative hit/miss counters.
// Size is approximate: ristretto applies writes and evictions through
// an internal async buffer, so a concurrent Insert may not be reflected
// immediately.
type Stats struct {
	Size     int64
	Capacity int64
	TTL      time.Duration
	Hits     uint64
	Misses   uint64
}

// Cache is a bounded, TTL-expiring cache of bfs.Distance results.
type Cache struct {
	ristretto *ristretto.Cache[string, compactResult]
	capacity  int64
	ttl       time.Duration
	hits      atomic.Uint64
	misses    atomic.Uint64
}

// defaultCostPerEntry is the cost ristretto charges against its
// MaxCost budget for every cached entry; bridge lists are small and
// roughly uniform in size for this graph's branching factors, so a
// flat cost keeps admission accounting simple.
const defaultCostPerEntry = 1

// New returns a Cache bounded to approximately capacity entries, each
// expiring ttl after insertion.
func New(capacity int64, ttl time.Duration) (*Cache, error) {
	if capacity <= 0 {
		return nil, errors.New("querycache: capacity must be positive")
	}
	if ttl <= 0 {
		return nil, errors.New("querycache: ttl must be positive")
	}

	rc, err := ristretto.NewCache(&ristretto.Config[string, compactResult]{
		NumCounters: capacity * 10,
		MaxCost:     capacity,
		BufferItems: 64,
		Metrics:     true,
		// Charge only defaultCostPerEntry per entry, so MaxCost counts
		// entries rather than ristretto's internal per-item bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &Cache{ristretto: rc, capacity: capacity, ttl: ttl}, nil
}

// Get looks up a fingerprint and, on hit, resolves its compact payload
// back into a bfs.DistanceResult against s.
func (c *Cache) Get(k Key, s *wotstore.Store) (bfs.DistanceResult, bool) {
	cr, ok := c.ristretto.Get(k.encode())
	if !ok {
		c.misses.Add(1)
		return bfs.DistanceResult{}, false
	}
	c.hits.Add(1)
	return cr.expand(s, k), true
}

// Insert stores r under fingerprint k, recording only what's needed to
// reconstruct it later.
func (c *Cache) Insert(k Key, r bfs.DistanceResult, s *wotstore.Store) {
	cr := compactResult{pathCount: r.PathCount, mutualFollow: r.MutualFollow, bridgesWanted: r.BridgesWanted}
	if r.Hops == nil {
		cr.hops = noPathHops
	} else {
		cr.hops = int16(*r.Hops)
	}
	if r.BridgesWanted {
		cr.bridgeVIDs = make([]uint32, 0, len(r.Bridges))
		for _, label := range r.Bridges {
			if vid, ok := s.IDOf(label); ok {
				cr.bridgeVIDs = append(cr.bridgeVIDs, vid)
			}
		}
	}
	c.ristretto.SetWithTTL(k.encode(), cr, defaultCostPerEntry, c.ttl)
}

// InvalidateAll drops every cached entry. Callers reach for this after
// a burst of writes that would otherwise leave many stale entries
// sitting on their TTL; normal single UpdateFollows calls rely on TTL
// expiry instead; there is no per-key invalidation because a single
// UpdateFollows can affect an unbounded number of cached fingerprints.
func (c *Cache) InvalidateAll() {
	c.ristretto.Clear()
}

// Stats reports the cache's size, capacity, TTL, and cumulative
// hit/miss counts since construction.
func (c *Cache) Stats() Stats {
	var size int64
	if m := c.ristretto.Metrics; m != nil {
		size = int64(m.CostAdded()) - int64(m.CostEvicted())
		if size < 0 {
			size = 0
		}
	}
	return Stats{
		Size:     size,
		Capacity: c.capacity,
		TTL:      c.ttl,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
	}
}

// Wait blocks until all previously submitted Insert/InvalidateAll
// calls have been applied. ristretto applies writes asynchronously
// through an internal ring buffer; production callers never need this,
// but tests that assert on a Get immediately following an Insert do.
func (c *Cache) Wait() {
	c.ristretto.Wait()
}

func (cr compactResult) expand(s *wotstore.Store, k Key) bfs.DistanceResult {
	from, _ := s.LabelOf(k.From)
	to, _ := s.LabelOf(k.To)

	r := bfs.DistanceResult{
		From:          from,
		To:            to,
		PathCount:     cr.pathCount,
		MutualFollow:  cr.mutualFollow,
		BridgesWanted: cr.bridgesWanted,
	}
	if cr.hops != noPathHops {
		hops := int(cr.hops)
		r.Hops = &hops
	}
	if cr.bridgesWanted {
		labels := make([]string, 0, len(cr.bridgeVIDs))
		for _, vid := range cr.bridgeVIDs {
			if label, ok := s.LabelOf(vid); ok {
				labels = append(labels, label)
			}
		}
		r.Bridges = labels
	}
	return r
}
