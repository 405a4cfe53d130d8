package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps values in process memory. It is used by tests and by
// one-shot CLI runs with --ephemeral.
type MemoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	history map[string][]string

	// FailPuts makes every Put fail, simulating a full disk.
	FailPuts bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:  make(map[string]string),
		history: make(map[string][]string),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("getting %s: %w", key, ErrNotFound)
	}
	return v, nil
}

func (m *MemoryStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPuts {
		return fmt.Errorf("putting %s: storage full", key)
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Snapshot(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.values[key]; ok {
		m.history[key] = append(m.history[key], v)
	}
	return nil
}

func (m *MemoryStore) Restore(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.history[key]
	if len(h) == 0 {
		return fmt.Errorf("restoring %s: no snapshot: %w", key, ErrNotFound)
	}
	m.values[key] = h[len(h)-1]
	m.history[key] = h[:len(h)-1]
	return nil
}

func (m *MemoryStore) Close() error { return nil }
