// Package cache holds short-lived search responses keyed by the full
// normalized query.
package cache

import (
	"sync"
	"time"

	"bravesearch/internal/domain"
)

// sweepThreshold is the entry count past which a Put also drops every
// expired entry, keeping the map bounded without a background sweeper.
const sweepThreshold = 256

type entry struct {
	resp      *domain.SearchResponse
	expiresAt time.Time
}

// Cache is a TTL map of query key to response. Eviction is lazy: expired
// entries are dropped on access, never actively swept by a goroutine.
// Safe for concurrent use; concurrent writers for the same key are
// last-write-wins, which is fine since both hold valid answers to the
// same query.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time // for testing
}

// New creates a cache with the given TTL. A non-positive TTL disables
// caching entirely: Get always misses and Put is a no-op.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached response for key if present and not expired.
func (c *Cache) Get(key string) (*domain.SearchResponse, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.resp, true
}

// Put stores resp under key with the configured TTL.
func (c *Cache) Put(key string, resp *domain.SearchResponse) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{resp: resp, expiresAt: c.now().Add(c.ttl)}

	if len(c.entries) > sweepThreshold {
		now := c.now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
