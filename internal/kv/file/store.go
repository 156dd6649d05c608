// Package file implements the default key-value backend: one JSON file per
// key inside the data directory, replaced atomically on every write.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mesh-intelligence/shelf/internal/jsonl"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

var _ types.KeyValue = (*Store)(nil)

// fileExt is appended to each key to form its file name.
const fileExt = ".json"

// ErrInvalidKey is returned for keys that are not a single path element.
var ErrInvalidKey = errors.New("invalid key")

// Store implements types.KeyValue on the local filesystem.
type Store struct {
	mu     sync.Mutex
	root   string
	closed bool
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{root: dir}, nil
}

// Path returns the file that holds key.
func (s *Store) Path(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", types.ErrKeyEmpty
	}
	if key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, key+fileExt), nil
}

// Get reads the file for key. A missing file means the key was never set.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, types.ErrStoreClosed
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}

// Set replaces the file for key atomically.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}
	return jsonl.WriteFileAtomic(path, value)
}

// Close marks the store closed. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
