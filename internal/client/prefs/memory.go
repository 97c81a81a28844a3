package prefs

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences for the life of the process.
type MemoryStore struct {
	mu           sync.Mutex
	field, order string
}

// NewMemoryStore returns a store with nothing saved.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) LoadSort(_ context.Context, def Sort) (Sort, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return apply(def, m.field, m.order), nil
}

func (m *MemoryStore) SaveSort(_ context.Context, s Sort) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.field, m.order = string(s.Field), string(s.Order)
	return nil
}
