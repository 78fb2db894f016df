// Package domain defines the core entities of the Lampstand server.
package domain

import (
	"slices"
	"time"
)

// Tag is a user-defined label attachable to one or more verses.
// Titles are unique across the catalog; comparison is exact, so "Faith"
// and "faith" are distinct tags.
type Tag struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	NoteID     string     `json:"note_id,omitempty"`
	GroupIDs   []string   `json:"group_ids,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// MarkUsed records an assignment. Removal never updates LastUsedAt.
func (t *Tag) MarkUsed(now time.Time) {
	t.LastUsedAt = &now
	t.UpdatedAt = now
}

// Clone returns a deep copy. Mutating the copy never reaches the
// original, so cached tags can be handed out safely.
func (t *Tag) Clone() *Tag {
	cp := *t
	cp.GroupIDs = slices.Clone(t.GroupIDs)
	if t.LastUsedAt != nil {
		at := *t.LastUsedAt
		cp.LastUsedAt = &at
	}
	return &cp
}

// InGroup reports whether the tag belongs to the given group.
func (t *Tag) InGroup(groupID string) bool {
	for _, g := range t.GroupIDs {
		if g == groupID {
			return true
		}
	}
	return false
}

// TagStatistics holds per-tag assignment counts for one book context.
// BookCount is the number of assignments in that book; GlobalCount is
// the total across all books. BookCount never exceeds GlobalCount.
type TagStatistics struct {
	TagID       string `json:"tag_id"`
	BookCount   int    `json:"book_count"`
	GlobalCount int    `json:"global_count"`
}

// TagAssignment links a tag to a single verse.
type TagAssignment struct {
	TagID     string    `json:"tag_id"`
	Verse     VerseRef  `json:"verse"`
	CreatedAt time.Time `json:"created_at"`
}
