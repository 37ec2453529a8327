// Package cache provides a small in-memory store with per-entry TTLs.
// It exists to absorb repeated dashboard refreshes without hammering
// the upstream API; nothing in it survives process restart.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a bounded TTL cache. Expired entries are dropped lazily on
// read. Safe for concurrent use.
type Cache struct {
	lru *lru.Cache[string, entry]
	now func() time.Time
}

// New returns a cache holding at most maxEntries values. Sizes below
// one fall back to a single slot.
func New(maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	// lru.New only errors on non-positive size, which is guarded above.
	inner, _ := lru.New[string, entry](maxEntries)
	return &Cache{lru: inner, now: time.Now}
}

// Get returns the cached value for key, or false when the key is
// missing or its TTL has elapsed.
func (c *Cache) Get(key string) (any, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given TTL. A non-positive TTL
// stores nothing.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.lru.Add(key, entry{value: value, expiresAt: c.now().Add(ttl)})
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.lru.Remove(key)
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len reports the number of resident entries, expired or not.
func (c *Cache) Len() int {
	return c.lru.Len()
}
