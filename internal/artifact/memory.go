package artifact

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// DefaultMemoryLimit is the number of artifacts a MemoryStore retains.
const DefaultMemoryLimit = 8

// MemoryStore keeps the most recent artifacts in memory. The oldest artifact
// is evicted once the limit is reached.
type MemoryStore struct {
	mu    sync.RWMutex
	limit int
	order []string
	data  map[string][]byte
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store retaining up to limit artifacts.
// A limit below 1 selects DefaultMemoryLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit < 1 {
		limit = DefaultMemoryLimit
	}
	return &MemoryStore{limit: limit, data: make(map[string][]byte)}
}

// Put stores a copy of data under key, replacing any previous value.
func (m *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	if err := validatePut(key, data); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; exists {
		m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == key })
	}
	for len(m.order) >= m.limit {
		delete(m.data, m.order[0])
		m.order = m.order[1:]
	}
	m.data[key] = slices.Clone(data)
	m.order = append(m.order, key)
	return nil
}

// Get returns a copy of the artifact stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return slices.Clone(data), nil
}

// Len returns the number of retained artifacts.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
