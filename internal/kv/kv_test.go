package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/internal/kv/file"
	"github.com/mesh-intelligence/shelf/internal/kv/memory"
	"github.com/mesh-intelligence/shelf/internal/kv/sqlite"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		backend string
		check   func(t *testing.T, store types.KeyValue)
	}{
		{"file", types.BackendFile, func(t *testing.T, store types.KeyValue) {
			assert.IsType(t, &file.Store{}, store)
		}},
		{"sqlite", types.BackendSQLite, func(t *testing.T, store types.KeyValue) {
			assert.IsType(t, &sqlite.Store{}, store)
		}},
		{"memory", types.BackendMemory, func(t *testing.T, store types.KeyValue) {
			assert.IsType(t, &memory.Store{}, store)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, types.Config{Backend: tt.backend, DataDir: t.TempDir()})
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			tt.check(t, store)

			require.NoError(t, store.Set(ctx, "k", []byte("[]")))
			got, found, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "[]", string(got))
		})
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)

	_, err = Open(ctx, types.Config{Backend: "redis"})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	_, err = Open(ctx, types.Config{Backend: types.BackendS3})
	assert.ErrorIs(t, err, types.ErrBucketEmpty)
}
