// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package cache

import (
	"sync"
	"time"
)

type lruEntry[V any] struct {
	key        string
	value      V
	expiresAt  time.Time
	prev, next *lruEntry[V]
}

// LRU is a thread-safe least-recently-used cache whose entries also expire
// after a fixed TTL. Expiry is lazy: an expired entry is dropped when it is
// next touched or evicted.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*lruEntry[V]
	// head.next is the most recently used entry, tail.prev the least.
	head, tail *lruEntry[V]

	hits, misses int64
}

// NewLRU creates a cache holding at most capacity entries for ttl each.
// Non-positive arguments default to 10000 entries and 5 minutes.
func NewLRU[V any](capacity int, ttl time.Duration) *LRU[V] {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*lruEntry[V]),
		head:     &lruEntry[V]{},
		tail:     &lruEntry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the live value for key and marks it most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.live(key); ok {
		c.moveToFront(e)
		c.hits++
		return e.value, true
	}
	c.misses++
	var zero V
	return zero, false
}

// Add stores value under key with a fresh TTL, evicting the least recently
// used entry when full.
func (c *LRU[V]) Add(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value)
}

// IsDuplicate reports whether key holds a live entry equal to value. When
// it does not, value is stored with a fresh TTL. A changed value is never a
// duplicate, so callers see every transition exactly once per TTL.
func (c *LRU[V]) IsDuplicate(key string, value V, equal func(a, b V) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.live(key); ok && equal(e.value, value) {
		c.moveToFront(e)
		c.hits++
		return true
	}
	c.misses++
	c.put(key, value)
	return false
}

// Remove drops key, reporting whether it was present.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.unlink(e)
		return true
	}
	return false
}

// Len returns the number of stored entries, including expired ones not yet
// dropped.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counts and the current size.
func (c *LRU[V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// live returns key's entry if present and unexpired. Expired entries are
// unlinked. Lock must be held.
func (c *LRU[V]) live(key string) (*lruEntry[V], bool) {
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.unlink(e)
		return nil, false
	}
	return e, true
}

func (c *LRU[V]) put(key string, value V) {
	expiresAt := c.now().Add(c.ttl)
	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &lruEntry[V]{key: key, value: value, expiresAt: expiresAt}
	c.pushFront(e)
	c.items[key] = e
	for len(c.items) > c.capacity {
		c.unlink(c.tail.prev)
	}
}

func (c *LRU[V]) pushFront(e *lruEntry[V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *LRU[V]) moveToFront(e *lruEntry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.pushFront(e)
}

func (c *LRU[V]) unlink(e *lruEntry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}
