package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := mustCreateTag(t, s, "tag-1", "Faith")

	got, err := s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.ID != tag.ID {
		t.Errorf("ID: got %q, want %q", got.ID, tag.ID)
	}
	if got.Title != "Faith" {
		t.Errorf("Title: got %q, want Faith", got.Title)
	}
	if got.LastUsedAt != nil {
		t.Errorf("LastUsedAt should be nil for a fresh tag, got %v", got.LastUsedAt)
	}
	if got.CreatedAt.Unix() != tag.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, tag.CreatedAt)
	}
}

func TestCreateTag_DuplicateTitle(t *testing.T) {
	s := newTestStore(t)

	mustCreateTag(t, s, "tag-1", "Faith")

	err := s.CreateTag(context.Background(), makeTestTag("tag-2", "Faith"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreateTag_TitleCaseSensitive(t *testing.T) {
	s := newTestStore(t)

	mustCreateTag(t, s, "tag-1", "Faith")

	// "faith" is a distinct title under exact comparison.
	if err := s.CreateTag(context.Background(), makeTestTag("tag-2", "faith")); err != nil {
		t.Fatalf("case-variant title rejected: %v", err)
	}
}

func TestGetTagByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Hope")

	got, err := s.GetTagByTitle(ctx, "Hope")
	if err != nil {
		t.Fatalf("GetTagByTitle: %v", err)
	}
	if got.ID != "tag-1" {
		t.Errorf("ID: got %q, want tag-1", got.ID)
	}

	if _, err := s.GetTagByTitle(ctx, "hope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("lookup should be case-sensitive, err = %v", err)
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTag(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListTags_OrderedByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-3", "love")
	mustCreateTag(t, s, "tag-1", "Faith")
	mustCreateTag(t, s, "tag-2", "Hope")

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("got %d tags, want 3", len(tags))
	}
	want := []string{"Faith", "Hope", "love"}
	for i, tag := range tags {
		if tag.Title != want[i] {
			t.Errorf("position %d: got %q, want %q", i, tag.Title, want[i])
		}
	}
}

func TestRenameTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	mustCreateTag(t, s, "tag-2", "Hope")

	if err := s.RenameTag(ctx, "tag-1", "Faithfulness"); err != nil {
		t.Fatalf("RenameTag: %v", err)
	}
	got, err := s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Title != "Faithfulness" {
		t.Errorf("Title: got %q, want Faithfulness", got.Title)
	}

	if err := s.RenameTag(ctx, "tag-1", "Hope"); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("rename to taken title: err = %v, want ErrAlreadyExists", err)
	}
	if err := s.RenameTag(ctx, "missing", "X"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("rename missing tag: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTag_CascadesAssignments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	if _, err := s.AssignTagToVerses(ctx, "tag-1", []domain.VerseRef{ref("John", 3, 16)}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := s.DeleteTag(ctx, "tag-1"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	if _, err := s.GetTag(ctx, "tag-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("tag still present after delete: %v", err)
	}

	counts, err := s.GlobalTagCounts(ctx)
	if err != nil {
		t.Fatalf("GlobalTagCounts: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("assignments survived tag delete: %v", counts)
	}
}

func TestTouchTagUsed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	used := time.Now().Add(-time.Hour)

	if err := s.TouchTagUsed(ctx, "tag-1", used); err != nil {
		t.Fatalf("TouchTagUsed: %v", err)
	}
	got, err := s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.LastUsedAt == nil || got.LastUsedAt.Unix() != used.Unix() {
		t.Errorf("LastUsedAt: got %v, want %v", got.LastUsedAt, used)
	}
}
