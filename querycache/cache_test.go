package querycache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nostrwot/wotgraph/bfs"
	"github.com/nostrwot/wotgraph/querycache"
	"github.com/nostrwot/wotgraph/wotstore"
)

func TestNewRejectsInvalidBounds(t *testing.T) {
	_, err := querycache.New(0, time.Second)
	require.Error(t, err)

	_, err = querycache.New(100, 0)
	require.Error(t, err)
}

func TestGetMissOnEmptyCache(t *testing.T) {
	c, err := querycache.New(100, time.Minute)
	require.NoError(t, err)

	s := wotstore.New()
	a := s.GetOrCreate("alice")
	b := s.GetOrCreate("bob")

	_, ok := c.Get(querycache.Key{From: a, To: b, MaxHops: 3}, s)
	require.False(t, ok)
	require.Equal(t, uint64(1), c.Stats().Misses)
}

func TestInsertThenGetRoundTrips(t *testing.T) {
	c, err := querycache.New(100, time.Minute)
	require.NoError(t, err)

	s := wotstore.New()
	a := s.GetOrCreate("alice")
	b := s.GetOrCreate("bob")
	m := s.GetOrCreate("mallory")

	hops := 2
	stored := bfs.DistanceResult{
		From:          "alice",
		To:            "bob",
		Hops:          &hops,
		PathCount:     3,
		MutualFollow:  false,
		Bridges:       []string{"mallory"},
		BridgesWanted: true,
	}
	key := querycache.Key{From: a, To: b, MaxHops: 4, IncludeBridges: true}
	c.Insert(key, stored, s)
	c.Wait()

	got, ok := c.Get(key, s)
	require.True(t, ok)
	require.Equal(t, "alice", got.From)
	require.Equal(t, "bob", got.To)
	require.NotNil(t, got.Hops)
	require.Equal(t, 2, *got.Hops)
	require.Equal(t, uint64(3), got.PathCount)
	require.False(t, got.MutualFollow)
	require.Equal(t, []string{"mallory"}, got.Bridges)
	require.Equal(t, uint64(1), c.Stats().Hits)
	_ = m
}

func TestInsertNotFoundRoundTrips(t *testing.T) {
	c, err := querycache.New(100, time.Minute)
	require.NoError(t, err)

	s := wotstore.New()
	a := s.GetOrCreate("alice")
	b := s.GetOrCreate("bob")

	stored := bfs.DistanceResult{From: "alice", To: "bob", Hops: nil, PathCount: 0}
	key := querycache.Key{From: a, To: b, MaxHops: 2}
	c.Insert(key, stored, s)
	c.Wait()

	got, ok := c.Get(key, s)
	require.True(t, ok)
	require.Nil(t, got.Hops)
}

func TestDifferentMaxHopsIsDifferentKey(t *testing.T) {
	c, err := querycache.New(100, time.Minute)
	require.NoError(t, err)

	s := wotstore.New()
	a := s.GetOrCreate("alice")
	b := s.GetOrCreate("bob")

	hops := 1
	c.Insert(querycache.Key{From: a, To: b, MaxHops: 2}, bfs.DistanceResult{Hops: &hops, PathCount: 1}, s)
	c.Wait()

	_, ok := c.Get(querycache.Key{From: a, To: b, MaxHops: 3}, s)
	require.False(t, ok)
}

func TestInvalidateAllDropsEntries(t *testing.T) {
	c, err := querycache.New(100, time.Minute)
	require.NoError(t, err)

	s := wotstore.New()
	a := s.GetOrCreate("alice")
	b := s.GetOrCreate("bob")
	hops := 1
	key := querycache.Key{From: a, To: b, MaxHops: 2}
	c.Insert(key, bfs.DistanceResult{Hops: &hops, PathCount: 1}, s)
	c.Wait()

	_, ok := c.Get(key, s)
	require.True(t, ok)

	c.InvalidateAll()
	c.Wait()

	_, ok = c.Get(key, s)
	require.False(t, ok)
}

func TestStatsReportsCapacityTTLAndSize(t *testing.T) {
	c, err := querycache.New(100, 90*time.Second)
	require.NoError(t, err)

	stats := c.Stats()
	require.Equal(t, int64(100), stats.Capacity)
	require.Equal(t, 90*time.Second, stats.TTL)
	require.Equal(t, int64(0), stats.Size)

	s := wotstore.New()
	a := s.GetOrCreate("alice")
	b := s.GetOrCreate("bob")
	hops := 1
	c.Insert(querycache.Key{From: a, To: b, MaxHops: 2}, bfs.DistanceResult{Hops: &hops, PathCount: 1}, s)
	c.Wait()

	require.Equal(t, int64(1), c.Stats().Size)
}

func TestStatsSizeStaysWithinCapacityPlusSlack(t *testing.T) {
	const capacity = 8
	c, err := querycache.New(capacity, time.Minute)
	require.NoError(t, err)

	s := wotstore.New()
	hops := 1
	for i := 0; i < capacity*20; i++ {
		from := s.GetOrCreate(indexLabel(i))
		to := s.GetOrCreate(indexLabel(i + 1))
		c.Insert(querycache.Key{From: from, To: to, MaxHops: 2}, bfs.DistanceResult{Hops: &hops, PathCount: 1}, s)
	}
	c.Wait()

	require.LessOrEqual(t, c.Stats().Size, int64(capacity)*2)
}

// indexLabel produces a distinct 64-char hex-looking label per index.
func indexLabel(i int) string {
	const hex = "0123456789abcdef"
	buf := make([]byte, 64)
	for pos := range buf {
		buf[pos] = hex[0]
	}
	n := i
	for pos := len(buf) - 1; pos >= 0 && n > 0; pos-- {
		buf[pos] = hex[n%16]
		n /= 16
	}
	return string(buf)
}

func TestKeysWithAndWithoutBridgesAreDistinct(t *testing.T) {
	c, err := querycache.New(100, time.Minute)
	require.NoError(t, err)

	s := wotstore.New()
	a := s.GetOrCreate("alice")
	b := s.GetOrCreate("bob")
	hops := 1

	c.Insert(querycache.Key{From: a, To: b, MaxHops: 2, IncludeBridges: true},
		bfs.DistanceResult{Hops: &hops, PathCount: 1, BridgesWanted: true, Bridges: []string{}}, s)
	c.Wait()

	_, ok := c.Get(querycache.Key{From: a, To: b, MaxHops: 2, IncludeBridges: false}, s)
	require.False(t, ok)
}
