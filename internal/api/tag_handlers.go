package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/service"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns the full tag catalog in title order",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Description: "Creates a new tag, optionally inside groups",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Rename tag",
		Description: "Renames a tag, titles stay unique",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag, or detaches it from the active group",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "setTagGroups",
		Method:      http.MethodPut,
		Path:        "/api/v1/tags/{id}/groups",
		Summary:     "Set tag groups",
		Description: "Adds and removes group memberships for a tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetTagGroups)

	huma.Register(s.api, huma.Operation{
		OperationID: "assignTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags/{id}/verses",
		Summary:     "Assign tag to verses",
		Description: "Assigns a tag to the selected verses",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAssignTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "unassignTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}/verses",
		Summary:     "Remove tag from verses",
		Description: "Removes a tag from the selected verses; multi-verse removal needs confirmation",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnassignTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTaggedVerses",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}/verses",
		Summary:     "List tagged verses",
		Description: "Returns one page of a tag's verse assignments",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTaggedVerses)

	huma.Register(s.api, huma.Operation{
		OperationID: "verseTags",
		Method:      http.MethodPost,
		Path:        "/api/v1/verses/tags",
		Summary:     "Tags on verses",
		Description: "Returns the tags carried by each verse of a selection, with per-tag selection state",
		Tags:        []string{"Assignments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleVerseTags)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID         string     `json:"id" doc:"Tag ID"`
	Title      string     `json:"title" doc:"Tag title, case sensitive"`
	NoteID     string     `json:"note_id,omitempty" doc:"Attached note ID"`
	GroupIDs   []string   `json:"group_ids,omitempty" doc:"Groups this tag belongs to"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" doc:"Most recent assignment time"`
	CreatedAt  time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time  `json:"updated_at" doc:"Last update time"`
}

func tagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:         t.ID,
		Title:      t.Title,
		NoteID:     t.NoteID,
		GroupIDs:   t.GroupIDs,
		LastUsedAt: t.LastUsedAt,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct {
	ForceRefresh bool `query:"refresh" doc:"Bypass the tag cache"`
}

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body struct {
		Tags     []TagResponse `json:"tags" doc:"Tags in title order"`
		LatestID string        `json:"latest_id,omitempty" doc:"ID of the most recently used tag"`
	}
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body service.CreateTagRequest
}

// TagOutput wraps a single tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// GetTagInput contains parameters for getting a tag.
type GetTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// RenameTagInput wraps the rename request for Huma.
type RenameTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body service.RenameTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID string `path:"id" doc:"Tag ID"`
	// ActiveGroupID marks the panel's group scope; deletion inside a
	// group detaches instead unless permanent is set.
	ActiveGroupID string `query:"active_group" doc:"Group the panel is scoped to"`
	Permanent     bool   `query:"permanent" doc:"Force full deletion inside a group context"`
}

// SetTagGroupsInput wraps the membership change for Huma.
type SetTagGroupsInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body service.SetTagGroupsRequest
}

// VerseSelection is a set of verse references sent by the client.
type VerseSelection struct {
	Verses []domain.VerseRef `json:"verses" doc:"Selected verse references"`
}

// AssignTagInput wraps an assignment request for Huma.
type AssignTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body VerseSelection
}

// UnassignTagInput wraps a removal request for Huma.
type UnassignTagInput struct {
	ID        string `path:"id" doc:"Tag ID"`
	Confirmed bool   `query:"confirmed" doc:"Acknowledge removal from multiple verses"`
	Body      VerseSelection
}

// AssignmentOutput reports the verses an operation actually changed.
type AssignmentOutput struct {
	Body struct {
		TagID  string            `json:"tag_id" doc:"Tag ID"`
		Verses []domain.VerseRef `json:"verses" doc:"References actually changed"`
	}
}

// ListTaggedVersesInput pages through a tag's assignments.
type ListTaggedVersesInput struct {
	ID     string `path:"id" doc:"Tag ID"`
	Limit  int    `query:"limit" doc:"Page size"`
	Cursor string `query:"cursor" doc:"Cursor from the previous page"`
}

// TaggedVersesOutput wraps one page of assignments for Huma.
type TaggedVersesOutput struct {
	Body store.PaginatedResult[domain.TagAssignment]
}

// VerseTagsInput wraps a selection lookup for Huma.
type VerseTagsInput struct {
	Body VerseSelection
}

// VerseTagsOutput reports tags per verse and rolled-up selection state.
type VerseTagsOutput struct {
	Body struct {
		// Verses maps verse key to the tags it carries.
		Verses map[string][]TagResponse `json:"verses" doc:"Tags per verse key"`
		// Selection maps tag ID to none, partial, or full coverage of
		// the selection.
		Selection map[string]string `json:"selection" doc:"Assignment state per tag"`
	}
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	tagList, err := s.services.Tags.ListTags(ctx, input.ForceRefresh)
	if err != nil {
		return nil, err
	}

	out := &ListTagsOutput{}
	out.Body.Tags = make([]TagResponse, len(tagList))
	for i, t := range tagList {
		out.Body.Tags[i] = tagResponse(t)
	}
	out.Body.LatestID = s.services.Tags.LatestTagID()
	return out, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	t, err := s.services.Tags.CreateTag(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tagResponse(t)}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagOutput, error) {
	t, err := s.services.Tags.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tagResponse(t)}, nil
}

func (s *Server) handleRenameTag(ctx context.Context, input *RenameTagInput) (*TagOutput, error) {
	t, err := s.services.Tags.RenameTag(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tagResponse(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*MessageOutput, error) {
	err := s.services.Tags.DeleteTag(ctx, input.ID, service.DeleteTagOptions{
		ActiveGroupID: input.ActiveGroupID,
		Permanent:     input.Permanent,
	})
	if err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Tag deleted"}}, nil
}

func (s *Server) handleSetTagGroups(ctx context.Context, input *SetTagGroupsInput) (*TagOutput, error) {
	t, err := s.services.Tags.SetTagGroups(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tagResponse(t)}, nil
}

func (s *Server) handleAssignTag(ctx context.Context, input *AssignTagInput) (*AssignmentOutput, error) {
	changed, err := s.services.Tags.AssignTagToVerses(ctx, input.ID, input.Body.Verses)
	if err != nil {
		return nil, err
	}

	out := &AssignmentOutput{}
	out.Body.TagID = input.ID
	out.Body.Verses = changed
	return out, nil
}

func (s *Server) handleUnassignTag(ctx context.Context, input *UnassignTagInput) (*AssignmentOutput, error) {
	changed, err := s.services.Tags.RemoveTagFromVerses(ctx, input.ID, input.Body.Verses, input.Confirmed)
	if err != nil {
		return nil, err
	}

	out := &AssignmentOutput{}
	out.Body.TagID = input.ID
	out.Body.Verses = changed
	return out, nil
}

func (s *Server) handleListTaggedVerses(ctx context.Context, input *ListTaggedVersesInput) (*TaggedVersesOutput, error) {
	page, err := s.services.Tags.TaggedVerses(ctx, input.ID, store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, err
	}
	return &TaggedVersesOutput{Body: *page}, nil
}

func (s *Server) handleVerseTags(ctx context.Context, input *VerseTagsInput) (*VerseTagsOutput, error) {
	byVerse, err := s.services.Tags.VerseTags(ctx, input.Body.Verses)
	if err != nil {
		return nil, err
	}
	selection, err := s.services.Tags.SelectionState(ctx, input.Body.Verses)
	if err != nil {
		return nil, err
	}

	out := &VerseTagsOutput{}
	out.Body.Verses = make(map[string][]TagResponse, len(byVerse))
	for key, verseTags := range byVerse {
		resp := make([]TagResponse, len(verseTags))
		for i, t := range verseTags {
			resp[i] = tagResponse(t)
		}
		out.Body.Verses[key] = resp
	}
	out.Body.Selection = make(map[string]string, len(selection))
	for tagID, state := range selection {
		out.Body.Selection[tagID] = state.String()
	}
	return out, nil
}
