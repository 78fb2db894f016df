package domain

import "time"

// TagGroup is a named subset of tags used to scope the visible tag list.
// A tag may belong to any number of groups; "no group selected" means the
// full catalog is shown.
type TagGroup struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (g *TagGroup) Touch() {
	g.UpdatedAt = time.Now()
}
