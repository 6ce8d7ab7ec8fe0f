// Package memo is the content-addressed memo layer for per-descriptor
// results. Keys are structural digests, so a cache hit is a proof that the
// descriptor (and therefore every pure derivation from it) is unchanged.
// A cache belongs to one build generation; dropping the generation drops
// the cache, which is the only invalidation this layer needs.
package memo

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Key is a 256-bit structural digest.
type Key = [32]byte

// Cache is a bounded, goroutine-safe memo cache for one generation.
type Cache[V any] struct {
	lru *lru.Cache[Key, V]
}

// New creates a cache bounded to size entries.
func New[V any](size int) (*Cache[V], error) {
	inner, err := lru.New[Key, V](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: inner}, nil
}

// Get returns the memoized value for key, if present.
func (c *Cache[V]) Get(key Key) (V, bool) {
	return c.lru.Get(key)
}

// Add memoizes value under key.
func (c *Cache[V]) Add(key Key, value V) {
	c.lru.Add(key, value)
}

// GetOrCompute returns the memoized value or computes, stores, and returns
// it. compute runs outside any lock; concurrent callers may both compute,
// which is safe because derivations are pure.
func (c *Cache[V]) GetOrCompute(key Key, compute func() V) V {
	if v, ok := c.lru.Get(key); ok {
		return v
	}
	v := compute()
	c.lru.Add(key, v)
	return v
}

// Len returns the number of memoized entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Purge drops every entry. Used when a generation is abandoned.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}
