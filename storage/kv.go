package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by Get when no value exists for the key.
var ErrKeyNotFound = errors.New("key not found")

// KV is the flat key-value surface the group snapshot persists into.
// Watch registers a callback fired after every Set, which is what the
// snapshot store's ping-key fallback relies on to reach contexts without
// a working broadcast channel.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Watch(fn func(key string)) (cancel func())
}

// Memory is an in-process KV used by tests and the standalone demo mode.
type Memory struct {
	mu       sync.RWMutex
	data     map[string][]byte
	watchers map[int]func(string)
	nextID   int
}

func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string][]byte),
		watchers: make(map[int]func(string)),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	fns := make([]func(string), 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	// Watchers run outside the lock so they can Get/Set freely.
	for _, fn := range fns {
		fn(key)
	}
	return nil
}

func (m *Memory) Watch(fn func(key string)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}
}
