package cache

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// ProviderConfig is handed to a Provider when a cache is created.
type ProviderConfig struct {
	// Size caps the number of snapshots kept. 0 means unbounded.
	Size int

	// TTL is how long a snapshot stays readable after it was stored.
	TTL time.Duration

	// KeyPrefix is prepended to every key, e.g. a per-process instance ID.
	KeyPrefix string

	// Group labels the Prometheus metrics of this cache. When set, New wraps
	// the cache with hit, miss, eviction and error counters.
	Group string

	// OnEvict is called with the unprefixed key of every evicted snapshot.
	OnEvict EvictCallback

	// Logger receives backend errors. May be nil.
	Logger Logger

	Redis RedisConfig
}

// RedisConfig holds the connection settings of the redis provider.
type RedisConfig struct {
	Address  string
	Password string
	DB       int

	// ConnectRetries is how many times the startup ping is retried.
	ConnectRetries int
}

// Provider builds a Cache from its config.
type Provider func(cfg ProviderConfig) (Cache, error)

var providers = struct {
	sync.RWMutex
	byName map[string]Provider
}{byName: make(map[string]Provider)}

// Register makes a provider available to New under name.
// Registering a nil provider or the same name twice panics.
func Register(name string, p Provider) {
	if p == nil {
		panic("cache: Register provider is nil")
	}

	providers.Lock()
	defer providers.Unlock()
	if _, dup := providers.byName[name]; dup {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers.byName[name] = p
}

// New creates a cache with the named provider.
func New(name string, cfg ProviderConfig) (Cache, error) {
	providers.RLock()
	p, ok := providers.byName[name]
	providers.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q, want one of %s", name, strings.Join(Providers(), ", "))
	}

	if cfg.Group != "" {
		cfg = instrumentConfig(cfg)
	}
	c, err := p(cfg)
	if err != nil {
		return nil, fmt.Errorf("cache: %s provider: %w", name, err)
	}
	if cfg.Group == "" {
		return c, nil
	}
	return newInstrumentedCache(c, cfg.Group), nil
}

// Providers returns the registered provider names in sorted order.
func Providers() []string {
	providers.RLock()
	defer providers.RUnlock()
	return slices.Sorted(maps.Keys(providers.byName))
}
