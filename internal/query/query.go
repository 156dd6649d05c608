// Package query derives display views from a catalog snapshot. Apply is a
// pure function: it never mutates the snapshot it is given and never retains
// it after returning.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// ErrInvalidQuery is returned by Validate for an unknown status or sort key.
var ErrInvalidQuery = errors.New("invalid query")

// Validate checks the status filter and sort key of q. Empty values are
// accepted and mean "all" and "no reordering".
func Validate(q types.Query) error {
	if q.Status != "" && q.Status != types.StatusAll && !types.IsValidStatus(q.Status) {
		return fmt.Errorf("%w: status %q (valid: %s, %s)", ErrInvalidQuery, q.Status,
			types.StatusAll, strings.Join(types.Statuses, ", "))
	}
	if q.Sort != "" && !slices.Contains(types.SortKeys, q.Sort) {
		return fmt.Errorf("%w: sort %q (valid: %s)", ErrInvalidQuery, q.Sort, strings.Join(types.SortKeys, ", "))
	}
	return nil
}

// Apply runs search, then status filter, then sort over snapshot and returns
// the resulting view. The items are fresh copies.
func Apply(snapshot []types.Resource, q types.Query) types.View {
	if len(snapshot) == 0 {
		return types.View{Items: []types.Resource{}, Empty: types.EmptyCatalog}
	}

	items := make([]types.Resource, 0, len(snapshot))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, r := range snapshot {
		if !Matches(r, needle) {
			continue
		}
		if !statusMatches(r, q.Status) {
			continue
		}
		items = append(items, r.Clone())
	}

	Sort(items, q.Sort)

	if len(items) == 0 {
		return types.View{Items: items, Empty: types.EmptyNoMatch}
	}
	return types.View{Items: items}
}

// Matches reports whether r contains needle in its title, type, or notes.
// needle must already be trimmed and lower-cased; an empty needle matches
// every record.
func Matches(r types.Resource, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Type), needle) {
		return true
	}
	return r.Notes != "" && strings.Contains(strings.ToLower(r.Notes), needle)
}

func statusMatches(r types.Resource, status string) bool {
	if status == "" || status == types.StatusAll {
		return true
	}
	return r.Status == status
}

// Sort orders items in place by the given key using a stable sort, so ties
// keep their incoming order. Unknown keys leave items untouched.
func Sort(items []types.Resource, key string) {
	switch key {
	case types.SortNewest:
		slices.SortStableFunc(items, func(a, b types.Resource) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case types.SortOldest:
		slices.SortStableFunc(items, func(a, b types.Resource) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case types.SortPriority:
		slices.SortStableFunc(items, func(a, b types.Resource) int {
			return types.PriorityRank(b.Priority) - types.PriorityRank(a.Priority)
		})
	}
}
