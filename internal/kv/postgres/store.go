// Package postgres implements a key-value backend on a Postgres table using
// the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/mesh-intelligence/shelf/pkg/types"
)

var _ types.KeyValue = (*Store)(nil)

const driverName = "pgx"

const createKV = `CREATE TABLE IF NOT EXISTS shelf_kv (
    key TEXT PRIMARY KEY,
    value BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// sqlOpen is swapped in tests.
var sqlOpen = sql.Open

// Store implements types.KeyValue using Postgres.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open connects to dsn, pings the server, and ensures the table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, types.ErrDSNEmpty
	}
	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createKV); err != nil {
		db.Close()
		return nil, fmt.Errorf("create shelf_kv: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, types.ErrKeyEmpty
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, false, types.ErrStoreClosed
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM shelf_kv WHERE key = $1", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return types.ErrKeyEmpty
	}
	if value == nil {
		value = []byte{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return types.ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shelf_kv (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Close closes the connection pool. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
