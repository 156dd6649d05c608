// Package catalog owns the canonical resource collection. Store assigns
// identifiers and persists the full collection through a Persister after
// every mutation; Adapter is the Persister backed by a types.KeyValue.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// ErrIDsExhausted is returned by Create once the counter reaches the
// largest int64.
var ErrIDsExhausted = errors.New("resource ids exhausted")

// Persister is the durable side of the Store. nextID is the counter
// high-water mark, persisted so that ids of deleted records stay retired
// across reloads. Load returns 0 when no counter was stored.
type Persister interface {
	Save(ctx context.Context, records []types.Resource, nextID int64) SaveResult
	Load(ctx context.Context) (records []types.Resource, nextID int64)
}

// Store is the sole authority over the collection and the id counter.
// The counter is always greater than every id the store has held, so ids of
// deleted records are never reissued.
type Store struct {
	mu        sync.Mutex
	resources []types.Resource // insertion order
	nextID    int64
	persister Persister
	clock     func() time.Time
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for CreatedAt.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open creates a Store seeded from p.Load.
func Open(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		nextID:    1,
		persister: p,
		clock:     time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Restore(p.Load(ctx))
	s.logger.DebugContext(ctx, "catalog opened", "records", len(s.resources), "next_id", s.nextID)
	return s
}

// Restore replaces the collection with records and sets the counter to the
// largest of its current value, counter, and one more than the largest id
// present. The counter never moves backwards.
func (s *Store) Restore(records []types.Resource, counter int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resources = make([]types.Resource, 0, len(records))
	var maxID int64
	for _, r := range records {
		s.resources = append(s.resources, r.Clone())
		maxID = max(maxID, r.ID)
	}
	next := maxID + 1
	if maxID == math.MaxInt64 {
		next = math.MaxInt64
	}
	s.nextID = max(s.nextID, next, counter)
}

// Create validates fields, appends a new record, and saves the collection.
// A validation failure returns an error wrapping types.ErrValidation and
// writes nothing. A failed save is reported in the SaveResult only; the
// record stays in memory. Once the counter reaches math.MaxInt64, Create
// returns ErrIDsExhausted.
func (s *Store) Create(ctx context.Context, fields types.NewResource) (types.Resource, SaveResult, error) {
	n := fields.Normalize()
	if err := n.Validate(); err != nil {
		return types.Resource{}, SaveResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextID == math.MaxInt64 {
		return types.Resource{}, SaveResult{}, ErrIDsExhausted
	}
	r := types.Resource{
		ID:        s.nextID,
		Title:     n.Title,
		Type:      n.Type,
		Link:      n.Link,
		Status:    n.Status,
		Priority:  n.Priority,
		Notes:     n.Notes,
		CreatedAt: s.clock().UTC().Truncate(time.Millisecond),
	}
	s.nextID++
	s.resources = append(s.resources, r)
	s.logger.InfoContext(ctx, "resource added", "id", r.ID, "title", r.Title)

	res := s.persister.Save(ctx, s.snapshotLocked(), s.nextID)
	return r, res, nil
}

// Delete removes the record with the given id. An unknown id is logged and
// ignored: it returns false and performs no write.
func (s *Store) Delete(ctx context.Context, id int64) (bool, SaveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.resources, func(r types.Resource) bool { return r.ID == id })
	if i < 0 {
		s.logger.WarnContext(ctx, "resource not found", "id", id)
		return false, SaveResult{}
	}
	s.resources = slices.Delete(s.resources, i, i+1)
	s.logger.InfoContext(ctx, "resource deleted", "id", id, "remaining", len(s.resources))

	return true, s.persister.Save(ctx, s.snapshotLocked(), s.nextID)
}

// List returns a copy of every record in insertion order.
func (s *Store) List() []types.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns the record with the given id.
func (s *Store) Get(id int64) (types.Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.resources {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return types.Resource{}, false
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resources)
}

// NextID returns the id the next Create will assign.
func (s *Store) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

// snapshotLocked copies the collection. The caller must hold s.mu.
func (s *Store) snapshotLocked() []types.Resource {
	out := make([]types.Resource, len(s.resources))
	for i, r := range s.resources {
		out[i] = r.Clone()
	}
	return out
}
