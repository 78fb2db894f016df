// Package service orchestrates tag, group, and panel operations between
// the persistence layer, the in-memory caches, and connected clients.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/id"
	"github.com/lampstandapp/lampstand-server/internal/sse"
	"github.com/lampstandapp/lampstand-server/internal/store"
	"github.com/lampstandapp/lampstand-server/internal/tags"
	"github.com/lampstandapp/lampstand-server/internal/validation"
)

// EventEmitter is the interface for emitting SSE events.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// TagService is the single authority for tag lifecycle and assignment
// operations. Cache and client state change only after the store call
// succeeds, so a rejected write never leaves a phantom assignment behind.
type TagService struct {
	store     store.Store
	cache     *tags.Cache
	emitter   EventEmitter
	guard     *tags.ToggleGuard
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st store.Store, cache *tags.Cache, emitter EventEmitter, toggleWindow time.Duration, logger *slog.Logger) *TagService {
	return &TagService{
		store:     st,
		cache:     cache,
		emitter:   emitter,
		guard:     tags.NewToggleGuard(toggleWindow),
		validator: validation.New(),
		logger:    logger,
	}
}

// ListTags returns the tag catalog from the cache.
func (s *TagService) ListTags(ctx context.Context, forceRefresh bool) ([]*domain.Tag, error) {
	return s.cache.TagList(ctx, forceRefresh)
}

// LatestTagID returns the id of the most recently used tag, empty when
// nothing has been assigned yet.
func (s *TagService) LatestTagID() string {
	return s.cache.LatestTagID()
}

// GetTag returns a single tag by id.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	if t := s.cache.Tag(tagID); t != nil {
		return t, nil
	}
	return s.store.GetTag(ctx, tagID)
}

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=120"`
	GroupIDs []string `json:"groupIds" required:"false"`
	// CreateNote attaches an empty study note to the new tag.
	CreateNote bool `json:"createNote" required:"false"`
}

// CreateTag creates a new tag. Titles are unique with case-sensitive
// comparison, so "Faith" and "faith" may coexist.
func (s *TagService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Warm the cache so the duplicate check sees the full catalog.
	if _, err := s.cache.TagList(ctx, false); err != nil {
		return nil, err
	}
	if s.cache.TagExists(req.Title) {
		return nil, store.ErrAlreadyExists.WithMessage("a tag named " + req.Title + " already exists")
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &domain.Tag{
		ID:        tagID,
		Title:     req.Title,
		GroupIDs:  req.GroupIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.CreateNote {
		noteID, err := id.Generate("note")
		if err != nil {
			return nil, err
		}
		t.NoteID = noteID
	}

	if err := s.store.CreateTag(ctx, t); err != nil {
		return nil, err
	}

	s.cache.Insert(t)
	s.emitter.Emit(sse.NewTagCreatedEvent(t))

	s.logger.Info("tag created", "id", tagID, "title", req.Title, "groups", len(req.GroupIDs))
	return t, nil
}

// RenameTagRequest contains fields for renaming a tag.
type RenameTagRequest struct {
	Title string `json:"title" validate:"required,min=1,max=120"`
}

// RenameTag renames a tag, enforcing title uniqueness.
func (s *TagService) RenameTag(ctx context.Context, tagID string, req RenameTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.cache.TagList(ctx, false); err != nil {
		return nil, err
	}
	if existing := s.cache.Tag(tagID); existing != nil && existing.Title == req.Title {
		return existing, nil
	}
	if s.cache.TagExists(req.Title) {
		return nil, store.ErrAlreadyExists.WithMessage("a tag named " + req.Title + " already exists")
	}

	if err := s.store.RenameTag(ctx, tagID, req.Title); err != nil {
		return nil, err
	}

	s.cache.Rename(tagID, req.Title)
	t := s.cache.Tag(tagID)
	if t == nil {
		t, _ = s.store.GetTag(ctx, tagID)
	}
	s.emitter.Emit(sse.NewTagRenamedEvent(t))

	s.logger.Info("tag renamed", "id", tagID, "title", req.Title)
	return t, nil
}

// DeleteTagOptions control delete semantics inside a tag group context.
type DeleteTagOptions struct {
	// ActiveGroupID is the group the panel is currently scoped to, if any.
	ActiveGroupID string
	// Permanent forces full deletion even inside a group context. Outside
	// a group context deletion is always permanent.
	Permanent bool
}

// DeleteTag deletes a tag, or only detaches it from the active group when
// the panel is group-scoped and the user did not opt into permanent
// deletion.
func (s *TagService) DeleteTag(ctx context.Context, tagID string, opts DeleteTagOptions) error {
	if opts.ActiveGroupID != "" && !opts.Permanent {
		return s.detachFromGroup(ctx, tagID, opts.ActiveGroupID)
	}

	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return err
	}

	// Remove also recomputes the latest tag in case the deleted tag held
	// that slot.
	s.cache.Remove(tagID)
	s.cache.InvalidateStatistics()
	s.emitter.Emit(sse.NewTagDeletedEvent(tagID, true))

	s.logger.Info("tag deleted", "id", tagID)
	return nil
}

func (s *TagService) detachFromGroup(ctx context.Context, tagID, groupID string) error {
	if err := s.store.SetTagGroups(ctx, tagID, nil, []string{groupID}); err != nil {
		return err
	}

	t, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return err
	}
	s.cache.SetGroups(tagID, t.GroupIDs)
	s.emitter.Emit(sse.NewMembershipChangedEvent(tagID, t.GroupIDs))

	s.logger.Info("tag detached from group", "id", tagID, "group", groupID)
	return nil
}

// SetTagGroupsRequest contains membership changes for a tag.
type SetTagGroupsRequest struct {
	AddGroupIDs    []string `json:"addGroupIds" required:"false"`
	RemoveGroupIDs []string `json:"removeGroupIds" required:"false"`
}

// SetTagGroups adds and removes group memberships for a tag.
func (s *TagService) SetTagGroups(ctx context.Context, tagID string, req SetTagGroupsRequest) (*domain.Tag, error) {
	if err := s.store.SetTagGroups(ctx, tagID, req.AddGroupIDs, req.RemoveGroupIDs); err != nil {
		return nil, err
	}

	t, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	s.cache.SetGroups(tagID, t.GroupIDs)
	s.emitter.Emit(sse.NewMembershipChangedEvent(tagID, t.GroupIDs))
	return t, nil
}

// AssignTagToVerses assigns a tag to the selected verses in one batch.
// Verses already carrying the tag are skipped, so repeating an assignment
// is a no-op per verse. Returns the refs that actually changed.
func (s *TagService) AssignTagToVerses(ctx context.Context, tagID string, refs []domain.VerseRef) ([]domain.VerseRef, error) {
	if err := validateSelection(refs); err != nil {
		return nil, err
	}
	if !s.guard.TryBegin() {
		return nil, store.ErrBusy
	}
	defer s.guard.End()

	inserted, err := s.store.AssignTagToVerses(ctx, tagID, refs)
	if err != nil {
		return nil, err
	}
	if len(inserted) == 0 {
		return inserted, nil
	}

	for book, count := range countByBook(inserted) {
		s.cache.ApplyCountDelta(tagID, []string{book}, count)
	}
	// Assignment is the only operation that refreshes lastUsed; the cache
	// recomputes the latest tag and announces it when it changed.
	s.cache.MarkUsed(tagID, time.Now())
	s.emitter.Emit(sse.NewTagAssignedEvent(tagID, inserted))

	s.logger.Info("tag assigned", "id", tagID, "verses", len(inserted))
	return inserted, nil
}

// RemoveTagFromVerses removes a tag from the selected verses. Removing
// from several verses at once requires the confirmed flag; without it the
// call fails so a client can show a confirmation dialog first. Removal
// never touches lastUsed.
func (s *TagService) RemoveTagFromVerses(ctx context.Context, tagID string, refs []domain.VerseRef, confirmed bool) ([]domain.VerseRef, error) {
	if err := validateSelection(refs); err != nil {
		return nil, err
	}
	if len(refs) > 1 && !confirmed {
		t := s.cache.Tag(tagID)
		title := tagID
		if t != nil {
			title = t.Title
		}
		return nil, store.ErrConfirmationRequired.WithMessage(
			"removing " + title + " from multiple verses requires confirmation")
	}
	if !s.guard.TryBegin() {
		return nil, store.ErrBusy
	}
	defer s.guard.End()

	removed, err := s.store.RemoveTagFromVerses(ctx, tagID, refs)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return removed, nil
	}

	for book, count := range countByBook(removed) {
		s.cache.ApplyCountDelta(tagID, []string{book}, -count)
	}
	s.emitter.Emit(sse.NewTagUnassignedEvent(tagID, removed))

	s.logger.Info("tag removed from verses", "id", tagID, "verses", len(removed))
	return removed, nil
}

// VerseTags returns the tags on each of the given verses, keyed by
// verse key.
func (s *TagService) VerseTags(ctx context.Context, refs []domain.VerseRef) (map[string][]*domain.Tag, error) {
	return s.store.GetVerseTags(ctx, refs)
}

// SelectionState classifies each cataloged tag against a verse selection
// as fully, partially, or not assigned.
func (s *TagService) SelectionState(ctx context.Context, refs []domain.VerseRef) (map[string]tags.AssignmentState, error) {
	byVerse, err := s.store.GetVerseTags(ctx, refs)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, verseTags := range byVerse {
		for _, t := range verseTags {
			counts[t.ID]++
		}
	}

	out := make(map[string]tags.AssignmentState, len(counts))
	for tagID, n := range counts {
		if n >= len(refs) {
			out[tagID] = tags.AssignmentFull
		} else {
			out[tagID] = tags.AssignmentPartial
		}
	}
	return out, nil
}

// TaggedVerses returns the paginated verse list for one tag in canonical
// order, for the tagged-verse (cross-reference) panel.
func (s *TagService) TaggedVerses(ctx context.Context, tagID string, params store.PaginationParams) (*store.PaginatedResult[domain.TagAssignment], error) {
	return s.store.ListTagAssignments(ctx, tagID, params)
}

// countByBook groups changed refs by book.
func countByBook(refs []domain.VerseRef) map[string]int {
	out := make(map[string]int)
	for _, r := range refs {
		out[r.Book]++
	}
	return out
}

// validateSelection rejects empty selections and unset references before
// they reach the store.
func validateSelection(refs []domain.VerseRef) error {
	if len(refs) == 0 {
		return store.ErrInvalidInput.WithMessage("no verses selected")
	}
	for _, r := range refs {
		if r.Zero() {
			return store.ErrInvalidInput.WithMessage("selection contains an empty verse reference")
		}
	}
	return nil
}
