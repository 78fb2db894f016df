// Package store defines the persistence interface for the Lampstand server.
package store

import (
	"context"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

// Store defines all persistence operations. The SQLite implementation
// lives in store/sqlite; tests may substitute fakes.
type Store interface {
	// Lifecycle
	Close() error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByTitle(ctx context.Context, title string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	RenameTag(ctx context.Context, id, title string) error
	SetTagGroups(ctx context.Context, id string, addGroupIDs, removeGroupIDs []string) error
	DeleteTag(ctx context.Context, id string) error
	TouchTagUsed(ctx context.Context, id string, usedAt time.Time) error

	// Tag groups
	CreateTagGroup(ctx context.Context, group *domain.TagGroup) error
	GetTagGroup(ctx context.Context, id string) (*domain.TagGroup, error)
	ListTagGroups(ctx context.Context) ([]*domain.TagGroup, error)
	RenameTagGroup(ctx context.Context, id, title string) error
	DeleteTagGroup(ctx context.Context, id string) error
	ListTagsInGroup(ctx context.Context, groupID string) ([]*domain.Tag, error)

	// Assignments
	// AssignTagToVerses inserts assignments for the given verses,
	// skipping verses that already carry the tag. It returns the
	// references actually inserted.
	AssignTagToVerses(ctx context.Context, tagID string, refs []domain.VerseRef) ([]domain.VerseRef, error)
	// RemoveTagFromVerses deletes assignments, ignoring verses that do
	// not carry the tag. It returns the references actually removed.
	RemoveTagFromVerses(ctx context.Context, tagID string, refs []domain.VerseRef) ([]domain.VerseRef, error)
	GetVerseTags(ctx context.Context, refs []domain.VerseRef) (map[string][]*domain.Tag, error)
	ListTagAssignments(ctx context.Context, tagID string, params PaginationParams) (*PaginatedResult[domain.TagAssignment], error)
	DeleteTagAssignments(ctx context.Context, tagID string) (int, error)

	// Statistics
	// BookTagStatistics returns per-tag counts for one book context
	// alongside global counts.
	BookTagStatistics(ctx context.Context, book string) (map[string]*domain.TagStatistics, error)
	GlobalTagCounts(ctx context.Context) (map[string]int, error)
	BooksWithTag(ctx context.Context, tagID string) ([]string, error)

	// Modules
	UpsertModule(ctx context.Context, mod *domain.Module) error
	ListModules(ctx context.Context) ([]*domain.Module, error)
	DeleteModule(ctx context.Context, id string) error
}
