package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/service"
)

func (s *Server) registerGroupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTagGroups",
		Method:      http.MethodGet,
		Path:        "/api/v1/tag-groups",
		Summary:     "List tag groups",
		Description: "Returns all tag groups in title order",
		Tags:        []string{"Tag groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGroups)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTagGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/tag-groups",
		Summary:     "Create tag group",
		Description: "Creates a new tag group",
		Tags:        []string{"Tag groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameTagGroup",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tag-groups/{id}",
		Summary:     "Rename tag group",
		Description: "Renames a tag group",
		Tags:        []string{"Tag groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTagGroup",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tag-groups/{id}",
		Summary:     "Delete tag group",
		Description: "Deletes a tag group; member tags survive",
		Tags:        []string{"Tag groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGroupTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tag-groups/{id}/tags",
		Summary:     "List group tags",
		Description: "Returns the tags belonging to a group",
		Tags:        []string{"Tag groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGroupTags)
}

// TagGroupResponse contains group data in API responses.
type TagGroupResponse struct {
	ID        string    `json:"id" doc:"Group ID"`
	Title     string    `json:"title" doc:"Group title"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func groupResponse(g *domain.TagGroup) TagGroupResponse {
	return TagGroupResponse{
		ID:        g.ID,
		Title:     g.Title,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// ListGroupsOutput wraps the group list for Huma.
type ListGroupsOutput struct {
	Body struct {
		Groups []TagGroupResponse `json:"groups" doc:"Groups in title order"`
	}
}

// CreateGroupInput wraps the create group request for Huma.
type CreateGroupInput struct {
	Body service.CreateGroupRequest
}

// GroupOutput wraps a single group response for Huma.
type GroupOutput struct {
	Body TagGroupResponse
}

// GroupIDInput identifies a group by path.
type GroupIDInput struct {
	ID string `path:"id" doc:"Group ID"`
}

// RenameGroupInput wraps the rename request for Huma.
type RenameGroupInput struct {
	ID   string `path:"id" doc:"Group ID"`
	Body service.CreateGroupRequest
}

// GroupTagsOutput wraps a group's member tags for Huma.
type GroupTagsOutput struct {
	Body struct {
		Tags []TagResponse `json:"tags" doc:"Member tags in title order"`
	}
}

func (s *Server) handleListGroups(ctx context.Context, _ *struct{}) (*ListGroupsOutput, error) {
	groups, err := s.services.Groups.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListGroupsOutput{}
	out.Body.Groups = make([]TagGroupResponse, len(groups))
	for i, g := range groups {
		out.Body.Groups[i] = groupResponse(g)
	}
	return out, nil
}

func (s *Server) handleCreateGroup(ctx context.Context, input *CreateGroupInput) (*GroupOutput, error) {
	g, err := s.services.Groups.CreateGroup(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &GroupOutput{Body: groupResponse(g)}, nil
}

func (s *Server) handleRenameGroup(ctx context.Context, input *RenameGroupInput) (*GroupOutput, error) {
	g, err := s.services.Groups.RenameGroup(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &GroupOutput{Body: groupResponse(g)}, nil
}

func (s *Server) handleDeleteGroup(ctx context.Context, input *GroupIDInput) (*MessageOutput, error) {
	if err := s.services.Groups.DeleteGroup(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Tag group deleted"}}, nil
}

func (s *Server) handleListGroupTags(ctx context.Context, input *GroupIDInput) (*GroupTagsOutput, error) {
	memberTags, err := s.services.Groups.GroupTags(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := &GroupTagsOutput{}
	out.Body.Tags = make([]TagResponse, len(memberTags))
	for i, t := range memberTags {
		out.Body.Tags[i] = tagResponse(t)
	}
	return out, nil
}
