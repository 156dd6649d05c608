// Package memory implements an in-memory key-value store for tests and for
// throwaway sessions.
package memory

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

var _ types.KeyValue = (*Store)(nil)

// Store implements types.KeyValue backed by process memory.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

// New returns an empty in-memory store.
func New() *Store { return &Store{values: make(map[string][]byte)} }

// Get returns a copy of the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, types.ErrKeyEmpty
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, types.ErrStoreClosed
	}
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return types.ErrKeyEmpty
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Close marks the store closed. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
