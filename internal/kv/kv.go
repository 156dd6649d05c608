// Package kv opens the key-value backend named by a types.Config.
package kv

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/shelf/internal/kv/file"
	"github.com/mesh-intelligence/shelf/internal/kv/memory"
	"github.com/mesh-intelligence/shelf/internal/kv/postgres"
	"github.com/mesh-intelligence/shelf/internal/kv/s3"
	"github.com/mesh-intelligence/shelf/internal/kv/sqlite"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Open validates cfg and returns the selected backend. The caller must
// Close it.
func Open(ctx context.Context, cfg types.Config) (types.KeyValue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendFile:
		return file.New(cfg.DataDir)
	case types.BackendSQLite:
		return sqlite.Open(ctx, cfg.DataDir)
	case types.BackendS3:
		return s3.New(ctx, cfg.S3)
	case types.BackendPostgres:
		return postgres.Open(ctx, cfg.Postgres.DSN)
	case types.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}
}
