package secrets

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. Tokens are lost on exit.
type MemoryStore struct {
	mu   sync.Mutex
	data map[Key]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[Key]string)}
}

// Save stores token under key.
func (s *MemoryStore) Save(_ context.Context, key Key, token string) error {
	if !key.Valid() {
		return ErrUnknownKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = token
	return nil
}

// Get returns the token for key or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key Key) (string, error) {
	if !key.Valid() {
		return "", ErrUnknownKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(_ context.Context, key Key) error {
	if !key.Valid() {
		return ErrUnknownKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// ClearAll removes both tokens.
func (s *MemoryStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.data)
	return nil
}

// SavePair stores both tokens under one lock.
func (s *MemoryStore) SavePair(_ context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[AccessToken] = access
	s.data[RefreshToken] = refresh
	return nil
}
