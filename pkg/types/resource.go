package types

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Resource statuses. A resource moves from planned to completed as the user
// works through it; the catalog does not enforce any transition order.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Resource priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Defaults applied by Create when the caller leaves status or priority unset.
const (
	DefaultStatus   = StatusPlanned
	DefaultPriority = PriorityMedium
)

// Statuses lists the recognized status values in display order.
var Statuses = []string{StatusPlanned, StatusInProgress, StatusCompleted}

// Priorities lists the recognized priority values from lowest to highest.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// priorityRanks orders priorities for the priority sort. Unknown values rank 0.
var priorityRanks = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

var validStatuses = map[string]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// Entity errors.
var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidPriority = errors.New("invalid priority value")
	ErrNotFound        = errors.New("resource not found")
)

// Resource is a single tracked catalog entry.
type Resource struct {
	ID        int64     // Assigned by the store on creation, never reused.
	Title     string    // Required, non-empty after trimming.
	Type      string    // Required, non-empty after trimming (book, video, ...).
	Link      string    // Optional URL.
	Status    string    // One of the Status constants.
	Priority  string    // One of the Priority constants.
	Notes     string    // Optional free text.
	CreatedAt time.Time // Set once on creation.

	// extra holds JSON fields this version does not know about, and known
	// fields whose stored bytes it cannot reproduce, so that a load/save
	// cycle writes them back unchanged.
	extra map[string][]byte

	// absent names known fields missing from the stored object. They stay
	// missing on write. Nil for records built in memory.
	absent map[string]bool
}

// NewResource carries the user-entered fields for Store.Create.
type NewResource struct {
	Title    string
	Type     string
	Link     string
	Status   string
	Priority string
	Notes    string
}

// Normalize trims every field and fills in the default status and priority.
// It returns a copy; the receiver is not modified.
func (n NewResource) Normalize() NewResource {
	out := NewResource{
		Title:    strings.TrimSpace(n.Title),
		Type:     strings.TrimSpace(n.Type),
		Link:     strings.TrimSpace(n.Link),
		Status:   strings.TrimSpace(n.Status),
		Priority: strings.TrimSpace(n.Priority),
		Notes:    strings.TrimSpace(n.Notes),
	}
	if out.Status == "" {
		out.Status = DefaultStatus
	}
	if out.Priority == "" {
		out.Priority = DefaultPriority
	}
	return out
}

// Validate checks a normalized NewResource. Missing title or type wraps
// ErrValidation with the field name; unknown enum values wrap ErrValidation
// together with ErrInvalidStatus or ErrInvalidPriority.
func (n NewResource) Validate() error {
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if n.Type == "" {
		return fmt.Errorf("%w: type is required", ErrValidation)
	}
	if !validStatuses[n.Status] {
		return fmt.Errorf("%w: %w %q", ErrValidation, ErrInvalidStatus, n.Status)
	}
	if _, ok := priorityRanks[n.Priority]; !ok {
		return fmt.Errorf("%w: %w %q", ErrValidation, ErrInvalidPriority, n.Priority)
	}
	return nil
}

// IsValidStatus reports whether s is one of the recognized statuses.
func IsValidStatus(s string) bool {
	return validStatuses[s]
}

// PriorityRank returns 3 for high, 2 for medium, 1 for low and 0 otherwise.
func PriorityRank(priority string) int {
	return priorityRanks[priority]
}

// FormatStatus returns the human label for a status value. Unknown values
// are returned as-is.
func FormatStatus(status string) string {
	switch status {
	case StatusPlanned:
		return "Planned"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return status
	}
}

// Clone returns a deep copy of r, including any pass-through fields.
func (r Resource) Clone() Resource {
	if r.extra != nil {
		extra := make(map[string][]byte, len(r.extra))
		for k, v := range r.extra {
			extra[k] = append([]byte(nil), v...)
		}
		r.extra = extra
	}
	r.absent = maps.Clone(r.absent)
	return r
}

// ExtraFields returns the names of stored fields this version does not model.
func (r Resource) ExtraFields() []string {
	var out []string
	for _, k := range slices.Sorted(maps.Keys(r.extra)) {
		if !slices.Contains(knownKeys, k) {
			out = append(out, k)
		}
	}
	return out
}
