// This file implements the persistence adapter: the whole collection is
// stored as one JSON array under a single fixed key, and the id counter as
// a decimal integer under a sibling key.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// CounterSuffix is appended to the storage key to form the counter key.
const CounterSuffix = ".nextId"

// SaveResult reports the outcome of one persistence write. A failed write is
// reported here and logged, never returned as an error from a mutation.
type SaveResult struct {
	Key     string // Storage key written.
	Records int    // Number of records in the written array.
	Bytes   int    // Size of the encoded array.
	Err     error  // Non-nil when encoding or the backend write failed.
}

// OK reports whether the write succeeded.
func (r SaveResult) OK() bool { return r.Err == nil }

// Adapter translates the collection to and from a types.KeyValue.
type Adapter struct {
	kv     types.KeyValue
	key    string
	logger *slog.Logger
}

// NewAdapter returns an Adapter that stores the collection under key. An
// empty key selects types.DefaultStorageKey; a nil logger selects
// slog.Default().
func NewAdapter(kv types.KeyValue, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = types.DefaultStorageKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{kv: kv, key: key, logger: logger.With("key", key)}
}

// Key returns the storage key.
func (a *Adapter) Key() string { return a.key }

// CounterKey returns the key the id counter is stored under.
func (a *Adapter) CounterKey() string { return a.key + CounterSuffix }

// Save writes records as a JSON array, then nextID under CounterKey. It does
// not retry or roll back.
func (a *Adapter) Save(ctx context.Context, records []types.Resource, nextID int64) SaveResult {
	res := SaveResult{Key: a.key, Records: len(records)}
	if records == nil {
		records = []types.Resource{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		res.Err = fmt.Errorf("encoding catalog: %w", err)
		a.logger.ErrorContext(ctx, "failed to save catalog", "error", res.Err)
		return res
	}
	res.Bytes = len(data)

	if err := a.kv.Set(ctx, a.key, data); err != nil {
		res.Err = fmt.Errorf("writing catalog: %w", err)
		a.logger.ErrorContext(ctx, "failed to save catalog", "error", res.Err, "records", res.Records)
		return res
	}
	if err := a.kv.Set(ctx, a.CounterKey(), []byte(strconv.FormatInt(nextID, 10))); err != nil {
		res.Err = fmt.Errorf("writing id counter: %w", err)
		a.logger.ErrorContext(ctx, "failed to save catalog", "error", res.Err, "next_id", nextID)
		return res
	}
	a.logger.DebugContext(ctx, "catalog saved", "records", res.Records, "bytes", res.Bytes)
	return res
}

// Load reads the stored array and counter. A missing key, a read error,
// malformed JSON, or a value that is not an array all yield an empty
// collection; the stored value is left as it is. Array elements that are
// not objects are skipped. A missing or unreadable counter yields 0.
func (a *Adapter) Load(ctx context.Context) ([]types.Resource, int64) {
	return a.loadRecords(ctx), a.loadCounter(ctx)
}

func (a *Adapter) loadRecords(ctx context.Context) []types.Resource {
	data, found, err := a.kv.Get(ctx, a.key)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to read catalog, starting empty", "error", err)
		return []types.Resource{}
	}
	if !found {
		a.logger.DebugContext(ctx, "no stored catalog, starting empty")
		return []types.Resource{}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil || elems == nil {
		a.logger.WarnContext(ctx, "stored catalog is not a JSON array, starting empty", "error", err)
		return []types.Resource{}
	}

	records := make([]types.Resource, 0, len(elems))
	for i, elem := range elems {
		var r types.Resource
		if err := json.Unmarshal(elem, &r); err != nil {
			a.logger.WarnContext(ctx, "skipping stored element that is not a record", "index", i, "error", err)
			continue
		}
		records = append(records, r)
	}
	a.logger.DebugContext(ctx, "catalog loaded", "records", len(records))
	return records
}

func (a *Adapter) loadCounter(ctx context.Context) int64 {
	data, found, err := a.kv.Get(ctx, a.CounterKey())
	if err != nil {
		a.logger.WarnContext(ctx, "failed to read id counter", "error", err)
		return 0
	}
	if !found {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || n < 1 {
		a.logger.WarnContext(ctx, "ignoring invalid id counter", "value", string(data))
		return 0
	}
	return n
}
