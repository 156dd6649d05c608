package types

// StatusAll disables the status filter.
const StatusAll = "all"

// Sort keys accepted by the query pipeline.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPriority = "priority"
)

// SortKeys lists the recognized sort keys.
var SortKeys = []string{SortNewest, SortOldest, SortPriority}

// Query holds the caller-supplied view parameters.
type Query struct {
	Search string // Free text; matched case-insensitively against title, type, notes.
	Status string // One of the Status constants, or StatusAll / empty for no filter.
	Sort   string // One of the Sort constants.
}

// EmptyKind distinguishes the two reasons a view can have no items.
type EmptyKind int

const (
	// EmptyNone means the view has at least one item.
	EmptyNone EmptyKind = iota
	// EmptyCatalog means the catalog holds no records at all.
	EmptyCatalog
	// EmptyNoMatch means records exist but none satisfy the query.
	EmptyNoMatch
)

// Messages shown for an empty view.
const (
	MessageEmptyCatalog = "No resources yet. Add your first one with `shelf add`."
	MessageEmptyNoMatch = "No resources match your current search/filter."
)

// String returns the message for the empty kind, or "" for EmptyNone.
func (k EmptyKind) String() string {
	switch k {
	case EmptyCatalog:
		return MessageEmptyCatalog
	case EmptyNoMatch:
		return MessageEmptyNoMatch
	default:
		return ""
	}
}

// View is the ordered result of a query.
type View struct {
	Items []Resource
	Empty EmptyKind
}
