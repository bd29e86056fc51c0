package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	payload  []byte
	storedAt time.Time
}

// Memory is an in-process TTL cache. The key space is bounded in practice
// (one entry per distinct query signature), so TTL staleness is the only
// eviction discipline.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory builds an in-process cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewMemoryWithClock is NewMemory with an injected clock, for tests.
func NewMemoryWithClock(ttl time.Duration, now func() time.Time) *Memory {
	m := NewMemory(ttl)
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.storedAt) >= m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.payload, true
}

func (m *Memory) Set(_ context.Context, key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{payload: payload, storedAt: m.now()}
}
