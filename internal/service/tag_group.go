package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/id"
	"github.com/lampstandapp/lampstand-server/internal/sse"
	"github.com/lampstandapp/lampstand-server/internal/store"
	"github.com/lampstandapp/lampstand-server/internal/validation"
)

// TagGroupService orchestrates tag group operations. An active group
// scopes the visible tag list; "no group" means every tag is in scope.
type TagGroupService struct {
	store     store.Store
	emitter   EventEmitter
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagGroupService creates a new tag group service.
func NewTagGroupService(st store.Store, emitter EventEmitter, logger *slog.Logger) *TagGroupService {
	return &TagGroupService{
		store:     st,
		emitter:   emitter,
		validator: validation.New(),
		logger:    logger,
	}
}

// ListGroups returns all tag groups.
func (s *TagGroupService) ListGroups(ctx context.Context) ([]*domain.TagGroup, error) {
	return s.store.ListTagGroups(ctx)
}

// GroupTags returns the tags belonging to one group.
func (s *TagGroupService) GroupTags(ctx context.Context, groupID string) ([]*domain.Tag, error) {
	return s.store.ListTagsInGroup(ctx, groupID)
}

// CreateGroupRequest contains fields for creating a tag group.
type CreateGroupRequest struct {
	Title string `json:"title" validate:"required,min=1,max=120"`
}

// CreateGroup creates a new tag group.
func (s *TagGroupService) CreateGroup(ctx context.Context, req CreateGroupRequest) (*domain.TagGroup, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	groupID, err := id.Generate("grp")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	g := &domain.TagGroup{ID: groupID, Title: req.Title, CreatedAt: now, UpdatedAt: now}
	if err := s.store.CreateTagGroup(ctx, g); err != nil {
		return nil, err
	}

	s.emitter.Emit(sse.NewTagGroupCreatedEvent(g))
	s.logger.Info("tag group created", "id", groupID, "title", req.Title)
	return g, nil
}

// RenameGroup renames a tag group.
func (s *TagGroupService) RenameGroup(ctx context.Context, groupID string, req CreateGroupRequest) (*domain.TagGroup, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.store.RenameTagGroup(ctx, groupID, req.Title); err != nil {
		return nil, err
	}

	g, err := s.store.GetTagGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(sse.NewTagGroupRenamedEvent(g))
	s.logger.Info("tag group renamed", "id", groupID, "title", req.Title)
	return g, nil
}

// DeleteGroup deletes a tag group. Member tags survive; only the
// membership records go.
func (s *TagGroupService) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.store.DeleteTagGroup(ctx, groupID); err != nil {
		return err
	}

	s.emitter.Emit(sse.NewTagGroupDeletedEvent(groupID))
	s.logger.Info("tag group deleted", "id", groupID)
	return nil
}
