package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory(time.Minute)

	if _, ok := c.Get("absent"); ok {
		t.Error("Expected miss for absent key")
	}

	c.Set("vec", []float32{0.1, 0.2}, 0)
	value, ok := c.Get("vec")
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if vec, ok := value.([]float32); !ok || len(vec) != 2 {
		t.Errorf("Unexpected cached value %v", value)
	}
}

func TestMemoryExpiry(t *testing.T) {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryWithClock(time.Minute, func() time.Time { return current })

	c.Set("key", "value", 0)
	if _, ok := c.Get("key"); !ok {
		t.Fatal("Expected hit before expiry")
	}

	current = current.Add(61 * time.Second)
	if _, ok := c.Get("key"); ok {
		t.Error("Expected miss after TTL elapsed")
	}

	// Expired entry is evicted, not retained
	if stats := c.Stats(); stats.Entries != 0 {
		t.Errorf("Expected expired entry evicted, got %d entries", stats.Entries)
	}
}

func TestMemoryExplicitTTLOverridesDefault(t *testing.T) {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryWithClock(time.Minute, func() time.Time { return current })

	c.Set("long", "value", time.Hour)
	current = current.Add(30 * time.Minute)
	if _, ok := c.Get("long"); !ok {
		t.Error("Entry with explicit TTL should outlive the default")
	}
}

func TestMemoryDeleteAndClear(t *testing.T) {
	c := NewMemory(time.Minute)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Expected miss after Delete")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("Delete must not affect other keys")
	}

	c.Clear()
	stats := c.Stats()
	if stats.Entries != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("Clear must reset entries and counters, got %+v", stats)
	}
}

func TestMemoryStats(t *testing.T) {
	c := NewMemory(time.Minute)
	c.Set("key", "value", 0)

	c.Get("key")    // hit
	c.Get("absent") // miss
	c.Get("key")    // hit

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("Expected 2 hits and 1 miss, got %+v", stats)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("Expected hit rate ~0.667, got %.3f", stats.HitRate)
	}
	if stats.Entries != 1 {
		t.Errorf("Expected 1 entry, got %d", stats.Entries)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	c := NewMemory(time.Minute)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%4)
			for range 100 {
				c.Set(key, i, 0)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if stats := c.Stats(); stats.Entries != 4 {
		t.Errorf("Expected 4 entries, got %d", stats.Entries)
	}
}
