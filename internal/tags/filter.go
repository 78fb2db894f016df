package tags

import (
	"strings"

	"github.com/lampstandapp/lampstand-server/internal/store"
)

// FilterMode selects which catalog rows are visible.
type FilterMode string

const (
	// FilterAll shows every row.
	FilterAll FilterMode = "all"
	// FilterAssigned shows rows with at least one assignment in the
	// current book.
	FilterAssigned FilterMode = "assigned"
	// FilterUnassigned shows rows with no assignment in the current book.
	FilterUnassigned FilterMode = "unassigned"
	// FilterRecent shows rows inside the recently-used window.
	FilterRecent FilterMode = "recent"
)

// ParseFilterMode validates a client-supplied mode string.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case FilterAll, FilterAssigned, FilterUnassigned, FilterRecent:
		return FilterMode(s), nil
	case "":
		return FilterAll, nil
	default:
		return "", store.ErrInvalidInput.WithMessage("unknown filter mode: " + s)
	}
}

// Filter is the pure visibility predicate over tag rows. A non-empty
// Query overrides Mode: search runs against the full catalog, not just
// the rows a client happens to have materialized.
type Filter struct {
	Mode  FilterMode
	Query string
}

// RecentFunc reports whether a row falls inside the recently-used window.
// The window lives in the Cache so the predicate is injected.
type RecentFunc func(*Row) bool

// Matches applies the mode predicate to a single row.
func (f Filter) Matches(r *Row, recent RecentFunc) bool {
	if f.Query != "" {
		return SearchMatches(f.Query, r.Title)
	}

	switch f.Mode {
	case FilterAssigned:
		return r.BookCount != 0
	case FilterUnassigned:
		return r.BookCount == 0
	case FilterRecent:
		return recent != nil && recent(r)
	default:
		return true
	}
}

// SearchMatches is a case-insensitive substring match on the tag title.
func SearchMatches(query, title string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}
