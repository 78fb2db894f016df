package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

func TestAssignTagToVerses_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	refs := []domain.VerseRef{ref("John", 3, 16), ref("John", 3, 17)}

	inserted, err := s.AssignTagToVerses(ctx, "tag-1", refs)
	if err != nil {
		t.Fatalf("AssignTagToVerses: %v", err)
	}
	if len(inserted) != 2 {
		t.Fatalf("inserted %d, want 2", len(inserted))
	}

	// Second assign including one new verse: only the new one lands.
	inserted, err = s.AssignTagToVerses(ctx, "tag-1", append(refs, ref("John", 3, 18)))
	if err != nil {
		t.Fatalf("AssignTagToVerses: %v", err)
	}
	if len(inserted) != 1 || inserted[0] != ref("John", 3, 18) {
		t.Errorf("inserted = %v, want only John 3:18", inserted)
	}

	counts, err := s.GlobalTagCounts(ctx)
	if err != nil {
		t.Fatalf("GlobalTagCounts: %v", err)
	}
	if counts["tag-1"] != 3 {
		t.Errorf("global count = %d, want 3", counts["tag-1"])
	}
}

func TestAssignTagToVerses_UpdatesLastUsed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")

	if _, err := s.AssignTagToVerses(ctx, "tag-1", []domain.VerseRef{ref("Gen", 1, 1)}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got, err := s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.LastUsedAt == nil {
		t.Fatal("LastUsedAt not set by assignment")
	}

	// Removal must not touch LastUsedAt.
	before := *got.LastUsedAt
	if _, err := s.RemoveTagFromVerses(ctx, "tag-1", []domain.VerseRef{ref("Gen", 1, 1)}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err = s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(before) {
		t.Errorf("LastUsedAt changed by removal: %v -> %v", before, got.LastUsedAt)
	}
}

func TestAssignTagToVerses_UnknownTag(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AssignTagToVerses(context.Background(), "ghost", []domain.VerseRef{ref("Gen", 1, 1)})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveTagFromVerses_NoopOnUnassigned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	if _, err := s.AssignTagToVerses(ctx, "tag-1", []domain.VerseRef{ref("John", 3, 16)}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	removed, err := s.RemoveTagFromVerses(ctx, "tag-1", []domain.VerseRef{
		ref("John", 3, 16), ref("John", 3, 17),
	})
	if err != nil {
		t.Fatalf("RemoveTagFromVerses: %v", err)
	}
	if len(removed) != 1 || removed[0] != ref("John", 3, 16) {
		t.Errorf("removed = %v, want only John 3:16", removed)
	}

	// Removing again removes nothing; counts never go negative.
	removed, err = s.RemoveTagFromVerses(ctx, "tag-1", []domain.VerseRef{ref("John", 3, 16)})
	if err != nil {
		t.Fatalf("RemoveTagFromVerses: %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("second removal removed %v", removed)
	}
	counts, err := s.GlobalTagCounts(ctx)
	if err != nil {
		t.Fatalf("GlobalTagCounts: %v", err)
	}
	if counts["tag-1"] != 0 {
		t.Errorf("global count = %d, want 0", counts["tag-1"])
	}
}

func TestAssignRemoveAssign_EqualsSingleAssign(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	v := []domain.VerseRef{ref("Rom", 8, 28)}

	for _, step := range []string{"assign", "remove", "assign"} {
		var err error
		if step == "assign" {
			_, err = s.AssignTagToVerses(ctx, "tag-1", v)
		} else {
			_, err = s.RemoveTagFromVerses(ctx, "tag-1", v)
		}
		if err != nil {
			t.Fatalf("%s: %v", step, err)
		}
	}

	counts, err := s.GlobalTagCounts(ctx)
	if err != nil {
		t.Fatalf("GlobalTagCounts: %v", err)
	}
	if counts["tag-1"] != 1 {
		t.Errorf("count after assign-remove-assign = %d, want 1", counts["tag-1"])
	}
}

func TestGetVerseTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	mustCreateTag(t, s, "tag-2", "Love")

	if _, err := s.AssignTagToVerses(ctx, "tag-1", []domain.VerseRef{ref("John", 3, 16)}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := s.AssignTagToVerses(ctx, "tag-2", []domain.VerseRef{ref("John", 3, 16), ref("John", 3, 17)}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	got, err := s.GetVerseTags(ctx, []domain.VerseRef{
		ref("John", 3, 16), ref("John", 3, 17), ref("John", 3, 18),
	})
	if err != nil {
		t.Fatalf("GetVerseTags: %v", err)
	}
	if len(got["John.3.16"]) != 2 {
		t.Errorf("John 3:16 has %d tags, want 2", len(got["John.3.16"]))
	}
	if len(got["John.3.17"]) != 1 || got["John.3.17"][0].Title != "Love" {
		t.Errorf("John 3:17 tags = %v", got["John.3.17"])
	}
	if _, ok := got["John.3.18"]; ok {
		t.Error("untagged verse should be absent from result")
	}
}

func TestBookTagStatistics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	mustCreateTag(t, s, "tag-2", "Love")

	if _, err := s.AssignTagToVerses(ctx, "tag-1", []domain.VerseRef{
		ref("John", 3, 16), ref("John", 3, 17), ref("Rom", 8, 28),
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := s.AssignTagToVerses(ctx, "tag-2", []domain.VerseRef{ref("Rom", 5, 8)}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	stats, err := s.BookTagStatistics(ctx, "John")
	if err != nil {
		t.Fatalf("BookTagStatistics: %v", err)
	}

	faith := stats["tag-1"]
	if faith == nil || faith.BookCount != 2 || faith.GlobalCount != 3 {
		t.Errorf("faith stats = %+v, want book 2 global 3", faith)
	}
	love := stats["tag-2"]
	if love == nil || love.BookCount != 0 || love.GlobalCount != 1 {
		t.Errorf("love stats = %+v, want book 0 global 1", love)
	}
	// Invariant: book count never exceeds global count.
	for id, st := range stats {
		if st.BookCount > st.GlobalCount {
			t.Errorf("tag %s: book %d > global %d", id, st.BookCount, st.GlobalCount)
		}
	}
}

func TestListTagAssignments_CanonOrderAndPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	// Insert out of canon order.
	if _, err := s.AssignTagToVerses(ctx, "tag-1", []domain.VerseRef{
		ref("Rev", 1, 1), ref("Gen", 1, 1), ref("John", 3, 16), ref("Gen", 1, 2), ref("Ps", 23, 1),
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	page1, err := s.ListTagAssignments(ctx, "tag-1", store.PaginationParams{Limit: 2})
	if err != nil {
		t.Fatalf("ListTagAssignments: %v", err)
	}
	if len(page1.Items) != 2 || !page1.HasMore {
		t.Fatalf("page1: %d items, hasMore=%v", len(page1.Items), page1.HasMore)
	}
	if page1.Items[0].Verse.Key() != "Gen.1.1" || page1.Items[1].Verse.Key() != "Gen.1.2" {
		t.Errorf("page1 order: %v, %v", page1.Items[0].Verse, page1.Items[1].Verse)
	}

	page2, err := s.ListTagAssignments(ctx, "tag-1", store.PaginationParams{Limit: 2, Cursor: page1.NextCursor})
	if err != nil {
		t.Fatalf("page2: %v", err)
	}
	if page2.Items[0].Verse.Key() != "Ps.23.1" || page2.Items[1].Verse.Key() != "John.3.16" {
		t.Errorf("page2 order: %v, %v", page2.Items[0].Verse, page2.Items[1].Verse)
	}

	page3, err := s.ListTagAssignments(ctx, "tag-1", store.PaginationParams{Limit: 2, Cursor: page2.NextCursor})
	if err != nil {
		t.Fatalf("page3: %v", err)
	}
	if len(page3.Items) != 1 || page3.HasMore {
		t.Errorf("page3: %d items, hasMore=%v", len(page3.Items), page3.HasMore)
	}
	if page3.Items[0].Verse.Key() != "Rev.1.1" {
		t.Errorf("page3 item: %v", page3.Items[0].Verse)
	}
}

func TestBooksWithTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	if _, err := s.AssignTagToVerses(ctx, "tag-1", []domain.VerseRef{
		ref("Rom", 8, 28), ref("Gen", 1, 1), ref("Rom", 5, 8),
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	books, err := s.BooksWithTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("BooksWithTag: %v", err)
	}
	if len(books) != 2 || books[0] != "Gen" || books[1] != "Rom" {
		t.Errorf("books = %v, want [Gen Rom]", books)
	}
}

func TestDeleteTagAssignments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateTag(t, s, "tag-1", "Faith")
	if _, err := s.AssignTagToVerses(ctx, "tag-1", []domain.VerseRef{
		ref("Gen", 1, 1), ref("Gen", 1, 2),
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	n, err := s.DeleteTagAssignments(ctx, "tag-1")
	if err != nil {
		t.Fatalf("DeleteTagAssignments: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
}
