// Package cache provides an injectable in-memory key-value store with
// per-entry TTLs. Expiry is checked lazily at read time; there is no
// background sweeper. Values are plain data computed by pure functions, so
// losing an entry only costs a recomputation.
package cache

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// TTLCache is a thread-safe map with lazy expiry.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

// New creates an empty TTLCache.
func New() *TTLCache {
	return &TTLCache{entries: make(map[string]entry)}
}

// Get returns the live value for key. Expired entries are treated as absent
// and removed on the way out.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && cur.expired(time.Now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given TTL.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Clear drops every entry.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// DeleteByPrefix drops every entry whose key starts with prefix.
func (c *TTLCache) DeleteByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Memoize returns the cached value for key, or computes and stores it.
// Concurrent misses for the same key collapse into a single call to fn.
// Errors are not cached: a failed computation leaves the key absent.
func (c *TTLCache) Memoize(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A flight that started just before our miss may have populated it.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})
	return v, err
}
