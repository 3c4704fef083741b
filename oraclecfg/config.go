// Package oraclecfg loads and bounds-clamps the oracle's runtime
// configuration. Every value has a safe default and a hard clamp range,
// so a misconfigured or malicious environment variable can degrade
// service but never produce an out-of-range max_hops or an unbounded
// cache.
package oraclecfg

import (
	"os"
	"runtime"
	"strconv"
	"time"
)

// Bounds and defaults, mirrored from the oracle this package
// configures: max_hops, cache size, and cache TTL are the only
// resource-shaping knobs the distance engine exposes.
const (
	MaxHopsLimit   = 5
	MaxHopsHardCap = 10 // absolute ceiling MAX_HOPS_LIMIT may clamp up to
	MaxHopsDefault = 3

	CacheCapacityMax     = 100_000
	CacheCapacityDefault = 10_000

	CacheTTLSecondsMin     = 10
	CacheTTLSecondsMax     = 3600
	CacheTTLSecondsDefault = 300

	CPUWorkersDefault = 0 // 0 means "use runtime.GOMAXPROCS(0)"
)

// Config is the oracle's runtime configuration.
type Config struct {
	MaxHopsLimit   int
	MaxHopsDefault int
	CacheCapacity  int64
	CacheTTL       time.Duration
	CPUWorkers     int
}

// FromEnv loads Config from environment variables, clamping every
// value to its safe range and falling back to the package default when
// a variable is absent or fails to parse.
//
//   - MAX_HOPS_LIMIT:    1..MaxHopsHardCap, default MaxHopsLimit
//   - MAX_HOPS_DEFAULT:  1..(loaded MAX_HOPS_LIMIT), default MaxHopsDefault
//   - CACHE_SIZE:        100..CacheCapacityMax, default CacheCapacityDefault
//   - CACHE_TTL_SECS:    CacheTTLSecondsMin..CacheTTLSecondsMax, default CacheTTLSecondsDefault
//   - CPU_WORKERS:       1..256, default runtime.GOMAXPROCS(0)
func FromEnv() Config {
	maxHopsLimit := clampedIntEnv("MAX_HOPS_LIMIT", MaxHopsLimit, 1, MaxHopsHardCap)
	return Config{
		MaxHopsLimit:   maxHopsLimit,
		MaxHopsDefault: clampedIntEnv("MAX_HOPS_DEFAULT", MaxHopsDefault, 1, maxHopsLimit),
		CacheCapacity:  int64(clampedIntEnv("CACHE_SIZE", CacheCapacityDefault, 100, CacheCapacityMax)),
		CacheTTL:       time.Duration(clampedIntEnv("CACHE_TTL_SECS", CacheTTLSecondsDefault, CacheTTLSecondsMin, CacheTTLSecondsMax)) * time.Second,
		CPUWorkers:     clampedIntEnv("CPU_WORKERS", runtime.GOMAXPROCS(0), 1, 256),
	}
}

func clampedIntEnv(name string, def, min, max int) int {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return clamp(v, min, max)
}

func clamp(v, min, max int) int {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	default:
		return v
	}
}
