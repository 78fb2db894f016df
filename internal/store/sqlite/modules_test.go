package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

func TestUpsertModule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mod := &domain.Module{
		ID:          "KJV",
		Description: "King James Version (1769)",
		Language:    "en",
		InstalledAt: time.Now(),
	}
	if err := s.UpsertModule(ctx, mod); err != nil {
		t.Fatalf("UpsertModule: %v", err)
	}

	// Re-installing the same module updates it in place.
	mod.Description = "King James Version"
	mod.HasStrongs = true
	if err := s.UpsertModule(ctx, mod); err != nil {
		t.Fatalf("UpsertModule (update): %v", err)
	}

	mods, err := s.ListModules(ctx)
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	if len(mods) != 1 {
		t.Fatalf("len(mods) = %d, want 1", len(mods))
	}
	if mods[0].Description != "King James Version" || !mods[0].HasStrongs {
		t.Errorf("module not updated: %+v", mods[0])
	}
}

func TestListModules_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"WEB", "KJV", "ASV"} {
		mod := &domain.Module{ID: id, Language: "en", InstalledAt: time.Now()}
		if err := s.UpsertModule(ctx, mod); err != nil {
			t.Fatalf("UpsertModule(%s): %v", id, err)
		}
	}

	mods, err := s.ListModules(ctx)
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	got := make([]string, len(mods))
	for i, m := range mods {
		got[i] = m.ID
	}
	want := []string{"ASV", "KJV", "WEB"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDeleteModule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mod := &domain.Module{ID: "KJV", Language: "en", InstalledAt: time.Now()}
	if err := s.UpsertModule(ctx, mod); err != nil {
		t.Fatalf("UpsertModule: %v", err)
	}
	if err := s.DeleteModule(ctx, "KJV"); err != nil {
		t.Fatalf("DeleteModule: %v", err)
	}
	mods, err := s.ListModules(ctx)
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	if len(mods) != 0 {
		t.Errorf("modules remain after delete: %v", mods)
	}
}
