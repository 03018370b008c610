package store

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store. It is not durable and exists for tests
// and local development without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get returns the cached image URL for a keyword, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, keyword string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	imageURL, ok := s.entries[keyword]
	if !ok {
		return "", ErrNotFound
	}
	return imageURL, nil
}

// Put upserts the image URL for a keyword.
func (s *MemoryStore) Put(_ context.Context, keyword, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[keyword] = imageURL
	return nil
}

// Count returns the number of cached entries.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
