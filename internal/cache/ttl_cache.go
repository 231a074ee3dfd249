package cache

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache stores values in-memory with per-entry TTLs.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]cacheEntry[V]
	now     func() time.Time
	onEvict func(K, V)
}

// Option configures a TTLCache.
type Option[K comparable, V any] func(*TTLCache[K, V])

// WithEvictHook registers a callback run, outside the lock, for every entry
// dropped because it expired or was deleted.
func WithEvictHook[K comparable, V any](f func(K, V)) Option[K, V] {
	return func(c *TTLCache[K, V]) { c.onEvict = f }
}

// WithClock overrides time.Now, for tests.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *TTLCache[K, V]) { c.now = now }
}

// NewTTLCache constructs a new TTLCache instance.
func NewTTLCache[K comparable, V any](opts ...Option[K, V]) *TTLCache[K, V] {
	c := &TTLCache[K, V]{items: make(map[K]cacheEntry[V]), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a cached value if it exists and has not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.Delete(key)
		return zero, false
	}
	return entry.value, true
}

// Set stores a value with the provided TTL.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if c == nil {
		return
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = cacheEntry[V]{
		value:     value,
		expiresAt: expiresAt,
	}
	c.mu.Unlock()
}

// Delete removes a cached entry.
func (c *TTLCache[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	entry, ok := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()
	if ok && c.onEvict != nil {
		c.onEvict(key, entry.value)
	}
}

// Sweep drops every expired entry and returns how many were removed.
func (c *TTLCache[K, V]) Sweep() int {
	if c == nil {
		return 0
	}
	now := c.now()
	type evicted struct {
		key   K
		value V
	}
	var gone []evicted
	c.mu.Lock()
	for k, e := range c.items {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			gone = append(gone, evicted{k, e.value})
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
	if c.onEvict != nil {
		for _, g := range gone {
			c.onEvict(g.key, g.value)
		}
	}
	return len(gone)
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
