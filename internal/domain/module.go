package domain

import "time"

// Module describes an installed translation module as reported by the
// text engine's configuration files.
type Module struct {
	ID          string    `json:"id"` // module code, e.g. "KJV"
	Description string    `json:"description"`
	Language    string    `json:"language"`
	RightToLeft bool      `json:"right_to_left"`
	HasStrongs  bool      `json:"has_strongs"`
	InstalledAt time.Time `json:"installed_at"`
}
