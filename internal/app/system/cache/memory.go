package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     any
	createdAt time.Time
	expiresAt time.Time
}

// Memory is a mutex-protected in-process cache. The zero value is not
// usable; construct with NewMemory.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   Clock
}

// NewMemory returns an empty cache. A nil clock uses SystemClock.
func NewMemory(clock Clock) *Memory {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Memory{
		entries: make(map[string]entry),
		clock:   clock,
	}
}

func (m *Memory) Get(_ context.Context, key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.clock.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) {
	now := m.clock.Now()

	m.mu.Lock()
	m.entries[key] = entry{value: value, createdAt: now, expiresAt: now.Add(ttl)}
	m.mu.Unlock()
}

func (m *Memory) Clear(_ context.Context, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(keys) == 0 {
		m.entries = make(map[string]entry)
		return
	}
	for _, k := range keys {
		delete(m.entries, k)
	}
}

// Len counts stored entries, including expired ones not yet read.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
