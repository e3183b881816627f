package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps values in a map for the lifetime of the process.
type MemoryStore struct {
	name   string
	mu     sync.RWMutex
	values map[Key][]byte
}

// NewMemoryStore creates an empty store reporting the given backend name.
func NewMemoryStore(name string) *MemoryStore {
	if name == "" {
		name = "memory"
	}
	return &MemoryStore{name: name, values: map[Key][]byte{}}
}

func (m *MemoryStore) Name() string { return m.name }

func (m *MemoryStore) Get(_ context.Context, key Key) ([]byte, error) {
	m.mu.RLock()
	v, ok := m.values[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, value []byte) error {
	m.mu.Lock()
	m.values[key] = slices.Clone(value)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.values = map[Key][]byte{}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
