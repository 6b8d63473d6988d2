// Package lru provides a fixed-capacity recency cache with an eviction
// callback. It is not safe for concurrent use; the UI stack manager is its
// sole caller and confines access to the host loop goroutine.
package lru

import (
	"fmt"

	simplelru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// Cache maps keys to retained values, evicting the least-recently-touched
// entry on overflow. The eviction callback fires for overflow evictions and,
// for consistency, for Remove and Clear as well.
type Cache[K comparable, V any] struct {
	inner *simplelru.LRU[K, V]
}

// New creates a cache holding at most capacity entries. onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict func(key K, value V)) (*Cache[K, V], error) {
	inner, err := simplelru.NewLRU(capacity, simplelru.EvictCallback[K, V](onEvict))
	if err != nil {
		return nil, fmt.Errorf("lru: %w", err)
	}
	return &Cache[K, V]{inner: inner}, nil
}

// Get returns the value for key and refreshes its recency.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.inner.Get(key)
}

// Put stores key and marks it most recent. Exceeding capacity evicts the
// least-recently-touched entry through the eviction callback.
func (c *Cache[K, V]) Put(key K, value V) {
	c.inner.Add(key, value)
}

// Contains reports presence without refreshing recency.
func (c *Cache[K, V]) Contains(key K) bool {
	return c.inner.Contains(key)
}

// Remove drops key, invoking the eviction callback if it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	return c.inner.Remove(key)
}

// Clear drops every entry, invoking the eviction callback for each.
func (c *Cache[K, V]) Clear() {
	c.inner.Purge()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	return c.inner.Len()
}
