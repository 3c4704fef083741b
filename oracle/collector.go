package oracle

import "github.com/prometheus/client_golang/prometheus"

// Collector exports an Oracle's lock-contention and cache-hit metrics
// to Prometheus. It is entirely optional: an Oracle works fine with no
// Collector ever constructed, and scraping reads only atomic counters,
// taking none of the store's locks.
type Collector struct {
	oracle *Oracle

	lockHoldCount   *prometheus.Desc
	lockHoldAvgUs   *prometheus.Desc
	lockHoldMaxUs   *prometheus.Desc
	cacheHits       *prometheus.Desc
	cacheMisses     *prometheus.Desc
}

// NewCollector returns a Collector over o. Register it with a
// prometheus.Registerer to expose it.
func NewCollector(o *Oracle) *Collector {
	return &Collector{
		oracle: o,
		lockHoldCount: prometheus.NewDesc(
			"wotgraph_store_lock_hold_count",
			"Number of times each lock kind was held.",
			[]string{"kind"}, nil,
		),
		lockHoldAvgUs: prometheus.NewDesc(
			"wotgraph_store_lock_hold_avg_microseconds",
			"Average hold duration for each lock kind, in microseconds.",
			[]string{"kind"}, nil,
		),
		lockHoldMaxUs: prometheus.NewDesc(
			"wotgraph_store_lock_hold_max_microseconds",
			"Maximum observed hold duration for each lock kind, in microseconds.",
			[]string{"kind"}, nil,
		),
		cacheHits: prometheus.NewDesc(
			"wotgraph_query_cache_hits_total",
			"Cumulative query cache hits.",
			nil, nil,
		),
		cacheMisses: prometheus.NewDesc(
			"wotgraph_query_cache_misses_total",
			"Cumulative query cache misses.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lockHoldCount
	ch <- c.lockHoldAvgUs
	ch <- c.lockHoldMaxUs
	ch <- c.cacheHits
	ch <- c.cacheMisses
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	lm := c.oracle.store.LockMetrics()
	for kind, snap := range map[string]struct {
		Count int64
		AvgUs int64
		MaxUs int64
	}{
		"read":  {lm.Reads.Count, lm.Reads.AvgUs, lm.Reads.MaxUs},
		"write": {lm.Writes.Count, lm.Writes.AvgUs, lm.Writes.MaxUs},
	} {
		ch <- prometheus.MustNewConstMetric(c.lockHoldCount, prometheus.CounterValue, float64(snap.Count), kind)
		ch <- prometheus.MustNewConstMetric(c.lockHoldAvgUs, prometheus.GaugeValue, float64(snap.AvgUs), kind)
		ch <- prometheus.MustNewConstMetric(c.lockHoldMaxUs, prometheus.GaugeValue, float64(snap.MaxUs), kind)
	}

	cs := c.oracle.cache.Stats()
	ch <- prometheus.MustNewConstMetric(c.cacheHits, prometheus.CounterValue, float64(cs.Hits))
	ch <- prometheus.MustNewConstMetric(c.cacheMisses, prometheus.CounterValue, float64(cs.Misses))
}
