package types

import (
	"context"
	"errors"
)

// DefaultStorageKey is the fixed key the catalog is stored under.
const DefaultStorageKey = "devResourceTrackerResources"

// KeyValue is the durable key-value service the catalog persists to.
// Backends treat values as opaque bytes.
type KeyValue interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written; that is not an error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Key-value errors.
var (
	ErrKeyEmpty    = errors.New("key must not be empty")
	ErrStoreClosed = errors.New("key-value store is closed")
)
