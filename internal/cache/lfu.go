// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package cache

import (
	"sync"
	"time"
)

// lfuNode is one cached prediction plus its position in a frequency bucket.
type lfuNode struct {
	key       string
	value     interface{}
	freq      int
	expiresAt time.Time
	prev      *lfuNode
	next      *lfuNode
}

// lfuBucket holds every node sharing one access frequency, ordered by
// recency so ties evict the least recently touched node.
type lfuBucket struct {
	head *lfuNode // sentinel, most recent after it
	tail *lfuNode // sentinel, least recent before it
	size int
}

func newLFUBucket() *lfuBucket {
	b := &lfuBucket{head: &lfuNode{}, tail: &lfuNode{}}
	b.head.next = b.tail
	b.tail.prev = b.head
	return b
}

func (b *lfuBucket) pushFront(n *lfuNode) {
	n.prev = b.head
	n.next = b.head.next
	b.head.next.prev = n
	b.head.next = n
	b.size++
}

func (b *lfuBucket) unlink(n *lfuNode) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	b.size--
}

func (b *lfuBucket) popBack() *lfuNode {
	if b.size == 0 {
		return nil
	}
	n := b.tail.prev
	b.unlink(n)
	return n
}

// LFUCache is a capacity-bounded cache that evicts the least frequently
// used entry. The prediction workload is skewed: the same draft gets
// re-scored repeatedly while its author iterates, so frequency is a
// better eviction signal there than recency. Expiry is lazy on read,
// with CleanupExpired available for a background sweep.
//
// All operations are O(1) and safe for concurrent use.
type LFUCache struct {
	mu sync.RWMutex

	capacity int
	ttl      time.Duration

	nodes   map[string]*lfuNode
	buckets map[int]*lfuBucket
	minFreq int

	hits   int64
	misses int64
}

// NewLFUCache creates an LFU cache. Non-positive arguments fall back to
// 10000 entries and a 5 minute TTL.
func NewLFUCache(capacity int, ttl time.Duration) *LFUCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LFUCache{
		capacity: capacity,
		ttl:      ttl,
		nodes:    make(map[string]*lfuNode, capacity),
		buckets:  make(map[int]*lfuBucket),
	}
}

// Get returns the cached value and bumps its frequency. Expired entries
// are removed and reported as misses.
func (c *LFUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.nodes[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(n.expiresAt) {
		c.removeLocked(n)
		c.misses++
		return nil, false
	}

	c.promoteLocked(n)
	c.hits++
	return n.value, true
}

// Set stores a value with the default TTL, evicting the least frequently
// used entry if the cache is full.
func (c *LFUCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with an explicit TTL.
func (c *LFUCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if n, ok := c.nodes[key]; ok {
		n.value = value
		n.expiresAt = expiresAt
		c.promoteLocked(n)
		return
	}

	if len(c.nodes) >= c.capacity {
		c.evictLocked()
	}

	n := &lfuNode{key: key, value: value, freq: 1, expiresAt: expiresAt}
	if c.buckets[1] == nil {
		c.buckets[1] = newLFUBucket()
	}
	c.buckets[1].pushFront(n)
	c.nodes[key] = n
	c.minFreq = 1
}

// Delete removes an entry. Returns true when the key was present.
func (c *LFUCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.nodes[key]; ok {
		c.removeLocked(n)
		return true
	}
	return false
}

// Contains reports whether a live entry exists without bumping its
// frequency.
func (c *LFUCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.nodes[key]
	return ok && !time.Now().After(n.expiresAt)
}

// Len returns the number of entries, expired ones included until they
// are read or swept.
func (c *LFUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Clear drops every entry. Hit counters survive so monitoring keeps its
// history across a post-retrain invalidation.
func (c *LFUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nodes = make(map[string]*lfuNode, c.capacity)
	c.buckets = make(map[int]*lfuBucket)
	c.minFreq = 0
}

// Stats returns hit and miss counters plus the current entry count.
func (c *LFUCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.nodes)
}

// HitRate returns the hit rate as a percentage.
func (c *LFUCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(total) * 100.0
}

// CleanupExpired sweeps every expired entry and returns how many were
// removed. Called by the background sweep the cache factory starts.
func (c *LFUCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, n := range c.nodes {
		if now.After(n.expiresAt) {
			c.removeLocked(n)
			removed++
		}
	}
	return removed
}

// promoteLocked moves a node to the next frequency bucket.
func (c *LFUCache) promoteLocked(n *lfuNode) {
	if b := c.buckets[n.freq]; b != nil {
		b.unlink(n)
		if b.size == 0 && c.minFreq == n.freq {
			c.minFreq++
		}
	}

	n.freq++
	if c.buckets[n.freq] == nil {
		c.buckets[n.freq] = newLFUBucket()
	}
	c.buckets[n.freq].pushFront(n)
}

// evictLocked drops the least recently used node in the lowest
// frequency bucket.
func (c *LFUCache) evictLocked() {
	b := c.buckets[c.minFreq]
	if b == nil || b.size == 0 {
		return
	}
	if n := b.popBack(); n != nil {
		delete(c.nodes, n.key)
	}
}

// removeLocked detaches a node from its bucket and the key map.
func (c *LFUCache) removeLocked(n *lfuNode) {
	if b := c.buckets[n.freq]; b != nil {
		b.unlink(n)
	}
	delete(c.nodes, n.key)
}
