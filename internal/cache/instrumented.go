package cache

// instrumentedCache counts lookups of the wrapped Cache under its group.
type instrumentedCache struct {
	Cache
	group string
}

// instrumentConfig hooks the eviction callback and the logger of cfg so the
// backend reports evictions and errors to the group counters.
func instrumentConfig(cfg ProviderConfig) ProviderConfig {
	group, onEvict := cfg.Group, cfg.OnEvict
	cfg.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if onEvict != nil {
			onEvict(key, value)
		}
	}
	cfg.Logger = countingLogger{next: cfg.Logger, group: group}
	return cfg
}

func newInstrumentedCache(inner Cache, group string) Cache {
	registerEntriesCollector(group, inner.Len)
	return &instrumentedCache{Cache: inner, group: group}
}

func (c *instrumentedCache) Get(key string) ([]byte, bool) {
	val, ok := c.Cache.Get(key)
	counter := MissesTotal
	if ok {
		counter = HitsTotal
	}
	counter.WithLabelValues(c.group).Inc()
	return val, ok
}

// Close drops the cache_entries collector of the group, then the backend.
func (c *instrumentedCache) Close() error {
	unregisterEntriesCollector(c.group)
	return c.Cache.Close()
}
