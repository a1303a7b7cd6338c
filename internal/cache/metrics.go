package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot cache metrics. The "cache" label carries ProviderConfig.Group.
var (
	HitsTotal      = newGroupCounter("cache_hits_total", "Total number of cache hits.")
	MissesTotal    = newGroupCounter("cache_misses_total", "Total number of cache misses.")
	EvictionsTotal = newGroupCounter("cache_evictions_total", "Total number of entries evicted from the cache.")
	ErrorsTotal    = newGroupCounter("cache_errors_total", "Total number of failed cache backend operations.")
)

func newGroupCounter(name, help string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, []string{"cache"})
}

func init() {
	prometheus.MustRegister(
		HitsTotal,
		MissesTotal,
		EvictionsTotal,
		ErrorsTotal,
	)
}

// entriesCollector reports the size of one cache group at scrape time.
type entriesCollector struct {
	desc *prometheus.Desc
	size func() int
}

func (c *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.size()))
}

var (
	entriesCollectorMu sync.Mutex
	entriesCollectors  = make(map[string]*entriesCollector)
	// entriesReg can be swapped for an isolated registry in tests.
	entriesReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// registerEntriesCollector installs the cache_entries gauge of group,
// replacing the collector of an earlier cache with the same group.
func registerEntriesCollector(group string, size func() int) *entriesCollector {
	c := &entriesCollector{
		desc: prometheus.NewDesc(
			"cache_entries",
			"Current number of entries in the cache.",
			nil,
			prometheus.Labels{"cache": group},
		),
		size: size,
	}

	entriesCollectorMu.Lock()
	defer entriesCollectorMu.Unlock()

	if old, ok := entriesCollectors[group]; ok {
		entriesReg.Unregister(old)
	}
	entriesCollectors[group] = c
	_ = entriesReg.Register(c)
	return c
}

func unregisterEntriesCollector(group string) {
	entriesCollectorMu.Lock()
	defer entriesCollectorMu.Unlock()

	if c, ok := entriesCollectors[group]; ok {
		entriesReg.Unregister(c)
		delete(entriesCollectors, group)
	}
}
