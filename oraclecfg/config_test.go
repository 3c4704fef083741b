package oraclecfg_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nostrwot/wotgraph/oraclecfg"
)

func TestFromEnvDefaultsWhenUnset(t *testing.T) {
	cfg := oraclecfg.FromEnv()
	require.Equal(t, oraclecfg.MaxHopsLimit, cfg.MaxHopsLimit)
	require.Equal(t, oraclecfg.MaxHopsDefault, cfg.MaxHopsDefault)
	require.EqualValues(t, oraclecfg.CacheCapacityDefault, cfg.CacheCapacity)
	require.Equal(t, oraclecfg.CacheTTLSecondsDefault*time.Second, cfg.CacheTTL)
	require.Greater(t, cfg.CPUWorkers, 0)
}

func TestFromEnvClampsOutOfRangeValues(t *testing.T) {
	t.Setenv("MAX_HOPS_LIMIT", "999")
	t.Setenv("MAX_HOPS_DEFAULT", "0")
	t.Setenv("CACHE_SIZE", "1")
	t.Setenv("CACHE_TTL_SECS", "999999")
	t.Setenv("CPU_WORKERS", "-5")

	cfg := oraclecfg.FromEnv()
	require.Equal(t, oraclecfg.MaxHopsHardCap, cfg.MaxHopsLimit, "clamped to the hard ceiling")
	require.Equal(t, 1, cfg.MaxHopsDefault, "clamped to the floor of the (now raised) limit")
	require.EqualValues(t, 100, cfg.CacheCapacity, "clamped to the floor")
	require.Equal(t, time.Duration(oraclecfg.CacheTTLSecondsMax)*time.Second, cfg.CacheTTL)
	require.Equal(t, 1, cfg.CPUWorkers)
}

func TestFromEnvAllowsLimitAboveTheDefaultUpToTheHardCap(t *testing.T) {
	t.Setenv("MAX_HOPS_LIMIT", "8")

	cfg := oraclecfg.FromEnv()
	require.Equal(t, 8, cfg.MaxHopsLimit, "8 is within 1..MaxHopsHardCap and must not be silently clamped to MaxHopsLimit")
}

func TestFromEnvIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("MAX_HOPS_DEFAULT", "not-a-number")

	cfg := oraclecfg.FromEnv()
	require.Equal(t, oraclecfg.MaxHopsDefault, cfg.MaxHopsDefault)
}
