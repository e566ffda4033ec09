// Package cache provides a small TTL cache used for embedding vectors and
// other recomputable values. It is always an injected dependency; nothing in
// this repository holds a package-level cache instance, so tests can hand
// each case a fresh one.
package cache

import (
	"sync"
	"time"
)

// Cache is the get/set/evict contract components depend on.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
	Stats() Stats
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries int     `json:"entries"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process TTL cache safe for concurrent use.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
	hits       uint64
	misses     uint64
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a cache whose entries default to the given TTL when Set
// is called with ttl <= 0.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// NewMemoryWithClock is NewMemory with an injected clock for expiry tests.
func NewMemoryWithClock(defaultTTL time.Duration, now func() time.Time) *Memory {
	m := NewMemory(defaultTTL)
	m.now = now
	return m
}

func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		m.misses++
		return nil, false
	}
	m.hits++
	return e.value, true
}

func (m *Memory) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	m.hits = 0
	m.misses = 0
}

func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.hits + m.misses
	rate := 0.0
	if total > 0 {
		rate = float64(m.hits) / float64(total)
	}
	return Stats{
		Entries: len(m.entries),
		Hits:    m.hits,
		Misses:  m.misses,
		HitRate: rate,
	}
}
