// Package cache provides an in-process key/value cache with a fixed TTL and
// lazy, on-read eviction.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL bounds the staleness of cached reads.
const DefaultTTL = 5 * time.Minute

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTL is safe for concurrent use. It has no size bound; expired entries are
// only dropped when read or cleared.
type TTL[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[K]entry[V]
}

type Option[K comparable, V any] func(*TTL[K, V])

// WithClock overrides the time source.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *TTL[K, V]) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a cache. A non-positive ttl falls back to DefaultTTL.
func New[K comparable, V any](ttl time.Duration, opts ...Option[K, V]) *TTL[K, V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TTL[K, V]{ttl: ttl, now: time.Now, entries: map[K]entry[V]{}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Set stores value under key, replacing any previous entry.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Get returns the value if it was stored no longer than ttl ago. Stale
// entries are evicted.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Clear drops every entry.
func (c *TTL[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[K]entry[V]{}
}

// Len reports the number of stored entries, expired or not.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the configured time-to-live.
func (c *TTL[K, V]) TTL() time.Duration { return c.ttl }
