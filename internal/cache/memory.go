package cache

import (
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache keeps snapshots in an expirable LRU owned by the process.
type memoryCache struct {
	lru    *expirable.LRU[string, []byte]
	prefix string
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	m := &memoryCache{prefix: cfg.KeyPrefix}

	var onEvict expirable.EvictCallback[string, []byte]
	if cfg.OnEvict != nil {
		onEvict = func(key string, value []byte) {
			cfg.OnEvict(strings.TrimPrefix(key, m.prefix), value)
		}
	}
	m.lru = expirable.NewLRU(cfg.Size, onEvict, cfg.TTL)
	return m, nil
}

func (m *memoryCache) Get(key string) ([]byte, bool) { return m.lru.Get(m.prefix + key) }

func (m *memoryCache) Set(key string, value []byte) { m.lru.Add(m.prefix+key, value) }

func (m *memoryCache) Contains(key string) bool { return m.lru.Contains(m.prefix + key) }

func (m *memoryCache) Len() int { return m.lru.Len() }

func (m *memoryCache) Close() error { return nil }
