package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

// newTestStore opens a store backed by a temp-dir database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// makeTestTag builds a tag with sensible defaults.
func makeTestTag(id, title string) *domain.Tag {
	now := time.Now()
	return &domain.Tag{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustCreateTag(t *testing.T, s *Store, id, title string) *domain.Tag {
	t.Helper()

	tag := makeTestTag(id, title)
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag(%s): %v", title, err)
	}
	return tag
}

func ref(book string, chapter, verse int) domain.VerseRef {
	return domain.VerseRef{Book: book, Chapter: chapter, Verse: verse}
}
