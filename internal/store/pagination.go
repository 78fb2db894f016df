package store

import (
	"encoding/base64"
	"fmt"
)

// PaginationParams describes a page request.
type PaginationParams struct {
	Limit  int    // items per page; defaults to 100, capped at 1000
	Cursor string // opaque cursor from the previous page, empty for the first
}

// PaginatedResult holds one page of items.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
	Total      int    `json:"total,omitempty"`
}

// Normalize clamps the page size into its allowed range.
func (p *PaginationParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Limit > 1000 {
		p.Limit = 1000
	}
}

// EncodeCursor wraps the last item's sort key as an opaque cursor.
func EncodeCursor(key string) string {
	if key == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(key))
}

// DecodeCursor recovers the sort key from a cursor.
func DecodeCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", fmt.Errorf("invalid cursor: %w", err)
	}
	return string(raw), nil
}
