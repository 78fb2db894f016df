package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

func makeTestGroup(id, title string) *domain.TagGroup {
	now := time.Now()
	return &domain.TagGroup{ID: id, Title: title, CreatedAt: now, UpdatedAt: now}
}

func TestCreateAndListTagGroups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTagGroup(ctx, makeTestGroup("grp-1", "Paul's letters")); err != nil {
		t.Fatalf("CreateTagGroup: %v", err)
	}
	if err := s.CreateTagGroup(ctx, makeTestGroup("grp-2", "Gospels")); err != nil {
		t.Fatalf("CreateTagGroup: %v", err)
	}

	groups, err := s.ListTagGroups(ctx)
	if err != nil {
		t.Fatalf("ListTagGroups: %v", err)
	}
	if len(groups) != 2 || groups[0].Title != "Gospels" {
		t.Errorf("groups = %v", groups)
	}

	err = s.CreateTagGroup(ctx, makeTestGroup("grp-3", "Gospels"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate group title: err = %v", err)
	}
}

func TestSetTagGroups_Membership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTagGroup(ctx, makeTestGroup("grp-1", "Study")); err != nil {
		t.Fatalf("CreateTagGroup: %v", err)
	}
	mustCreateTag(t, s, "tag-1", "Faith")

	if err := s.SetTagGroups(ctx, "tag-1", []string{"grp-1"}, nil); err != nil {
		t.Fatalf("SetTagGroups add: %v", err)
	}
	got, err := s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if !got.InGroup("grp-1") {
		t.Errorf("tag not in group: %v", got.GroupIDs)
	}

	inGroup, err := s.ListTagsInGroup(ctx, "grp-1")
	if err != nil {
		t.Fatalf("ListTagsInGroup: %v", err)
	}
	if len(inGroup) != 1 || inGroup[0].ID != "tag-1" {
		t.Errorf("group members = %v", inGroup)
	}

	// Detach.
	if err := s.SetTagGroups(ctx, "tag-1", nil, []string{"grp-1"}); err != nil {
		t.Fatalf("SetTagGroups remove: %v", err)
	}
	inGroup, err = s.ListTagsInGroup(ctx, "grp-1")
	if err != nil {
		t.Fatalf("ListTagsInGroup: %v", err)
	}
	if len(inGroup) != 0 {
		t.Errorf("group should be empty after detach, got %v", inGroup)
	}
}

func TestDeleteTagGroup_TagsSurvive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTagGroup(ctx, makeTestGroup("grp-1", "Study")); err != nil {
		t.Fatalf("CreateTagGroup: %v", err)
	}
	mustCreateTag(t, s, "tag-1", "Faith")
	if err := s.SetTagGroups(ctx, "tag-1", []string{"grp-1"}, nil); err != nil {
		t.Fatalf("SetTagGroups: %v", err)
	}

	if err := s.DeleteTagGroup(ctx, "grp-1"); err != nil {
		t.Fatalf("DeleteTagGroup: %v", err)
	}

	got, err := s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("tag should survive group deletion: %v", err)
	}
	if len(got.GroupIDs) != 0 {
		t.Errorf("stale membership after group delete: %v", got.GroupIDs)
	}
}

func TestRenameTagGroup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTagGroup(ctx, makeTestGroup("grp-1", "Study")); err != nil {
		t.Fatalf("CreateTagGroup: %v", err)
	}
	if err := s.RenameTagGroup(ctx, "grp-1", "Deep study"); err != nil {
		t.Fatalf("RenameTagGroup: %v", err)
	}
	got, err := s.GetTagGroup(ctx, "grp-1")
	if err != nil {
		t.Fatalf("GetTagGroup: %v", err)
	}
	if got.Title != "Deep study" {
		t.Errorf("Title = %q", got.Title)
	}

	if err := s.RenameTagGroup(ctx, "missing", "X"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("rename missing group: err = %v", err)
	}
}
