package marketdata

import (
	"sync"
	"time"
)

// entry holds one cached payload with its fetch time and origin.
type entry[V any] struct {
	value     V
	source    string
	fetchedAt time.Time
}

// TTLCache is a string-keyed in-memory cache with a fixed TTL. The
// clock is injected so expiry can be tested deterministically. One
// instance is shared per data domain (quotes, IPOs, news, calendar).
type TTLCache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

// NewTTLCache creates a cache with the given TTL. A nil clock defaults
// to time.Now.
func NewTTLCache[V any](ttl time.Duration, now func() time.Time) *TTLCache[V] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value and its source if the entry is still
// fresh. An expired entry is never returned here.
func (c *TTLCache[V]) Get(key string) (V, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) > c.ttl {
		var zero V
		return zero, "", false
	}
	return e.value, e.source, true
}

// GetStale returns the cached value regardless of freshness, along
// with its age. Used for stale-serving when all live sources fail.
func (c *TTLCache[V]) GetStale(key string) (V, time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, 0, false
	}
	return e.value, c.now().Sub(e.fetchedAt), true
}

// Put stores a value under the key, stamped with the current time.
func (c *TTLCache[V]) Put(key string, value V, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, source: source, fetchedAt: c.now()}
}

// Invalidate removes the entry for the key.
func (c *TTLCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries, fresh or stale.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
