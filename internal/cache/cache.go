// file: internal/cache/cache.go
// version: 2.1.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

package cache

import (
	"sort"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time // zero means never
}

func (e entry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Cache is a generic TTL cache safe for concurrent use. A TTL <= 0 keeps
// entries until they are invalidated.
type Cache[T any] struct {
	mu         sync.RWMutex
	items      map[string]entry[T]
	defaultTTL time.Duration
	now        func() time.Time
}

// New creates a cache with the given default TTL.
func New[T any](defaultTTL time.Duration) *Cache[T] {
	return &Cache[T]{
		items:      make(map[string]entry[T]),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get retrieves a value if it exists and hasn't expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || e.expired(c.now()) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a specific TTL.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = entry[T]{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Invalidate removes a single key and reports whether a live entry was there.
func (c *Cache[T]) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	delete(c.items, key)
	return ok && !e.expired(c.now())
}

// InvalidateAll removes all entries and returns the keys that were still
// live, sorted.
func (c *Cache[T]) InvalidateAll() []string {
	now := c.now()
	c.mu.Lock()
	live := make([]string, 0, len(c.items))
	for k, e := range c.items {
		if !e.expired(now) {
			live = append(live, k)
		}
	}
	c.items = make(map[string]entry[T])
	c.mu.Unlock()
	sort.Strings(live)
	return live
}

// Keys returns the live keys in sorted order.
func (c *Cache[T]) Keys() []string {
	now := c.now()
	c.mu.RLock()
	keys := make([]string, 0, len(c.items))
	for k, e := range c.items {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len counts live entries.
func (c *Cache[T]) Len() int {
	return len(c.Keys())
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache[T]) Purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}
