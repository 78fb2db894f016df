package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/modules"
)

func (s *Server) registerModuleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listModules",
		Method:      http.MethodGet,
		Path:        "/api/v1/modules",
		Summary:     "List modules",
		Description: "Returns the installed translation modules",
		Tags:        []string{"Modules"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListModules)

	huma.Register(s.api, huma.Operation{
		OperationID: "rescanModules",
		Method:      http.MethodPost,
		Path:        "/api/v1/modules/rescan",
		Summary:     "Rescan modules",
		Description: "Reconciles the module directory with the store and search index",
		Tags:        []string{"Modules"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRescanModules)
}

// ListModulesOutput wraps the module list for Huma.
type ListModulesOutput struct {
	Body struct {
		Modules []*domain.Module `json:"modules" doc:"Installed modules"`
	}
}

// RescanOutput wraps a scan summary for Huma.
type RescanOutput struct {
	Body modules.ScanResult
}

func (s *Server) handleListModules(ctx context.Context, _ *struct{}) (*ListModulesOutput, error) {
	installed, err := s.store.ListModules(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListModulesOutput{}
	out.Body.Modules = installed
	return out, nil
}

func (s *Server) handleRescanModules(ctx context.Context, _ *struct{}) (*RescanOutput, error) {
	res, err := s.services.Library.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &RescanOutput{Body: *res}, nil
}
