// Package cache holds rendered API responses for a short TTL. The registry
// is immutable while the server runs, so entries never need invalidation.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a TTL cache keyed by request.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache. Expired entries are swept every cleanupInterval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of entries, including expired ones not yet
// swept.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
