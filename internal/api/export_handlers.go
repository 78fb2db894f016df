package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/export"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{id}/export",
		Summary:     "Export tag as Markdown",
		Description: "Renders every verse assigned to a tag as a Markdown document",
		Tags:        []string{"Export"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExportTag)
}

// ExportTagInput selects the tag and the module supplying verse text.
type ExportTagInput struct {
	ID     string `path:"id" doc:"Tag ID"`
	Module string `query:"module" required:"true" doc:"Module ID supplying verse text"`
}

// ExportOutput wraps the rendered document for Huma.
type ExportOutput struct {
	Body export.Document
}

func (s *Server) handleExportTag(ctx context.Context, input *ExportTagInput) (*ExportOutput, error) {
	doc, err := s.services.Exporter.TagDocument(ctx, input.ID, input.Module)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{Body: *doc}, nil
}
