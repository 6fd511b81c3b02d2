// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLFUCacheEvictsLeastFrequent(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(3, time.Minute)
	c.Set("hot", 1)
	c.Set("warm", 2)
	c.Set("cold", 3)

	// hot read twice, warm once, cold never.
	c.Get("hot")
	c.Get("hot")
	c.Get("warm")

	c.Set("new", 4)

	if c.Contains("cold") {
		t.Error("cold should have been evicted as least frequently used")
	}
	for _, key := range []string{"hot", "warm", "new"} {
		if !c.Contains(key) {
			t.Errorf("%q should have survived eviction", key)
		}
	}
}

func TestLFUCacheEvictionBreaksTiesByRecency(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(2, time.Minute)
	c.Set("first", 1)
	c.Set("second", 2)

	// Both at frequency 1; "first" is the least recently touched.
	c.Set("third", 3)

	if c.Contains("first") {
		t.Error("first should have been evicted on frequency tie")
	}
	if !c.Contains("second") || !c.Contains("third") {
		t.Error("second and third should remain")
	}
}

func TestLFUCacheUpdateDoesNotEvict(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Overwriting an existing key must not trigger eviction.
	c.Set("a", 10)

	if got := c.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if v, ok := c.Get("a"); !ok || v.(int) != 10 {
		t.Errorf("Get(a) = %v, %v, want 10, true", v, ok)
	}
}

func TestLFUCacheGetBumpsFrequency(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(2, time.Minute)
	c.Set("kept", 1)
	c.Set("dropped", 2)

	// A single read is enough to outrank an untouched entry.
	c.Get("kept")
	c.Set("replacement", 3)

	if c.Contains("dropped") {
		t.Error("unread entry should lose eviction to the read one")
	}
	if !c.Contains("kept") {
		t.Error("read entry should survive")
	}
}

func TestLFUCacheExpiry(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(10, 30*time.Millisecond)
	c.Set("soon", 1)
	c.SetWithTTL("later", 2, time.Minute)

	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("soon"); ok {
		t.Error("expired entry should miss")
	}
	if _, ok := c.Get("later"); !ok {
		t.Error("entry with a longer TTL should still hit")
	}
}

func TestLFUCacheCleanupExpired(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(10, 20*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	c.SetWithTTL("c", 3, time.Minute)

	time.Sleep(50 * time.Millisecond)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() after sweep = %d, want 1", got)
	}
}

func TestLFUCacheDelete(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(10, time.Minute)
	c.Set("a", 1)

	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true for present key")
	}
	if c.Delete("a") {
		t.Error("Delete(a) second call = true, want false")
	}
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key should miss")
	}
}

func TestLFUCacheClearKeepsCounters(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(10, time.Minute)
	c.Set("a", 1)
	c.Get("a")
	c.Get("missing")

	c.Clear()

	if got := c.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
	hits, misses, _ := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() after Clear = %d hits %d misses, want history kept", hits, misses)
	}
}

func TestLFUCacheHitRate(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(10, time.Minute)
	if got := c.HitRate(); got != 0 {
		t.Errorf("HitRate() on empty cache = %v, want 0", got)
	}

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	c.Get("missing")

	if got := c.HitRate(); got != 50.0 {
		t.Errorf("HitRate() = %v, want 50.0", got)
	}
}

func TestLFUCacheDefaults(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(0, 0)
	if c.capacity != 10000 {
		t.Errorf("default capacity = %d, want 10000", c.capacity)
	}
	if c.ttl != 5*time.Minute {
		t.Errorf("default ttl = %v, want 5m", c.ttl)
	}
}

func TestLFUCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewLFUCache(100, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("key-%d", i%50)
				c.Set(key, g)
				c.Get(key)
				if i%10 == 0 {
					c.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if got := c.Len(); got > 100 {
		t.Errorf("Len() = %d, want at most the capacity of 100", got)
	}
}
