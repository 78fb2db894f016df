package tags

import (
	"fmt"
	"time"
)

// AssignmentState classifies a tag against the current verse selection.
type AssignmentState int

const (
	// AssignmentNone means no selected verse carries the tag.
	AssignmentNone AssignmentState = iota
	// AssignmentPartial means some but not all selected verses carry it.
	AssignmentPartial
	// AssignmentFull means every selected verse carries it.
	AssignmentFull
)

// String renders the state for API payloads.
func (a AssignmentState) String() string {
	switch a {
	case AssignmentPartial:
		return "partial"
	case AssignmentFull:
		return "full"
	default:
		return "none"
	}
}

// Stripe values for visible-order row striping.
const (
	StripeNone = 0
	StripeOdd  = 1
	StripeEven = 2
)

// Row is the view-model for one tag list entry. Rendering is a pure
// projection of this struct; clients never derive state from what they
// have drawn.
type Row struct {
	TagID       string          `json:"tagId"`
	Title       string          `json:"title"`
	BookCount   int             `json:"bookCount"`
	GlobalCount int             `json:"globalCount"`
	LastUsedAt  *time.Time      `json:"lastUsedAt,omitempty"`
	GroupIDs    []string        `json:"groupIds,omitempty"`
	Assignment  AssignmentState `json:"assignment"`

	// Loaded marks rows materialized by the lazy list. Unloaded rows
	// exist only as catalog entries behind the virtual placeholder.
	Loaded  bool `json:"loaded"`
	Visible bool `json:"visible"`
	// Stripe is the odd/even class in visible order, StripeNone when hidden.
	Stripe int `json:"stripe"`
}

// CountLabel renders the assignment count badge. With a book context the
// badge pairs the book and global counts, otherwise it shows the global
// count alone.
func (r *Row) CountLabel(hasBookContext bool) string {
	if hasBookContext {
		return fmt.Sprintf("%d | %d", r.BookCount, r.GlobalCount)
	}
	return fmt.Sprintf("%d", r.GlobalCount)
}
