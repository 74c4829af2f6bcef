// Package cachex defines a minimal expiring-cache interface used for
// short-lived markers (e.g. the session-log purge throttle) plus an
// in-process implementation backed by go-cache.
package cachex

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a get/set-with-expiry store keyed by strings. Races on a Cache
// are acceptable for marker-style usage: the worst case is doing throttled
// work slightly more often than intended.
type Cache interface {
	// Get returns the value for key and whether it is present and unexpired.
	Get(key string) (any, bool)

	// Set stores value under key for the given ttl.
	Set(key string, value any, ttl time.Duration)
}

// MemoryCache is a Cache backed by an in-process go-cache instance.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache constructs a MemoryCache. Expired entries are garbage
// collected every cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *MemoryCache) Get(key string) (any, bool) {
	return m.c.Get(key)
}

func (m *MemoryCache) Set(key string, value any, ttl time.Duration) {
	m.c.Set(key, value, ttl)
}
