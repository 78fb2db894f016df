package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchVerses",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search verses",
		Description: "Full-text search over installed translation modules",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchVerses)
}

// SearchInput carries search parameters.
type SearchInput struct {
	Query     string `query:"q" required:"true" doc:"Search query"`
	Module    string `query:"module" doc:"Scope to one module"`
	Book      string `query:"book" doc:"Scope to one OSIS book"`
	Limit     int    `query:"limit" doc:"Maximum hits, default 25"`
	Offset    int    `query:"offset" doc:"Hits to skip"`
	Highlight bool   `query:"highlight" doc:"Include match fragments"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body search.Result
}

func (s *Server) handleSearchVerses(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	result, err := s.services.Index.Search(ctx, search.Params{
		Query:     input.Query,
		ModuleID:  input.Module,
		Book:      input.Book,
		Limit:     input.Limit,
		Offset:    input.Offset,
		Highlight: input.Highlight,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: *result}, nil
}
