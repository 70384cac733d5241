package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// PageCache is a bounded in-memory cache of fetched pages. A PageCache built
// with size zero stores nothing.
type PageCache[V any] struct {
	lru *lru.Cache[string, V]
}

// NewPageCache returns a cache holding at most size pages.
func NewPageCache[V any](size int) (*PageCache[V], error) {
	if size <= 0 {
		return &PageCache[V]{}, nil
	}
	c, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &PageCache[V]{lru: c}, nil
}

// Get returns the page stored under key.
func (c *PageCache[V]) Get(key string) (V, bool) {
	if c == nil || c.lru == nil {
		var zero V
		return zero, false
	}
	return c.lru.Get(key)
}

// Add stores a page, evicting the least recently used one when full.
func (c *PageCache[V]) Add(key string, v V) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(key, v)
}

// Purge drops every page.
func (c *PageCache[V]) Purge() {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Purge()
}

// Len returns the number of cached pages.
func (c *PageCache[V]) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
