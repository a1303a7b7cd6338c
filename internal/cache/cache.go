// Package cache stores encoded show list snapshots behind a small provider
// registry, so the backend (in-process LRU or Redis/Valkey) can be chosen
// from configuration.
package cache

// EvictCallback is called when an entry is evicted from the cache.
// Redis reports evicted keys with a nil value.
type EvictCallback func(key string, value []byte)

// Logger receives errors from backends whose operations can fail at runtime.
type Logger interface {
	Error(msg string, err error)
}

// Cache is a key-value store with LRU eviction and per-entry TTL.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key, overwriting any previous value.
	Set(key string, value []byte)

	// Contains checks whether a key exists without affecting LRU ordering.
	Contains(key string) bool

	// Len returns the number of entries currently in the cache.
	Len() int

	// Close releases any resources held by the cache. It is a no-op for memory.
	Close() error
}
