package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/service"
	"github.com/lampstandapp/lampstand-server/internal/tags"
)

func (s *Server) registerPanelRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "openPanel",
		Method:      http.MethodPost,
		Path:        "/api/v1/panels",
		Summary:     "Open tag panel",
		Description: "Opens a panel session and returns the first row batch",
		Tags:        []string{"Panels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleOpenPanel)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPanel",
		Method:      http.MethodGet,
		Path:        "/api/v1/panels/{id}",
		Summary:     "Get panel state",
		Description: "Returns the current rows and filter of a panel session",
		Tags:        []string{"Panels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPanel)

	huma.Register(s.api, huma.Operation{
		OperationID: "scrollPanel",
		Method:      http.MethodPost,
		Path:        "/api/v1/panels/{id}/scroll",
		Summary:     "Report panel scroll",
		Description: "Maps a scroll position onto the catalog and loads rows as needed",
		Tags:        []string{"Panels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleScrollPanel)

	huma.Register(s.api, huma.Operation{
		OperationID: "filterPanel",
		Method:      http.MethodPut,
		Path:        "/api/v1/panels/{id}/filter",
		Summary:     "Set panel filter",
		Description: "Applies a filter mode or search query to the panel",
		Tags:        []string{"Panels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFilterPanel)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshPanel",
		Method:      http.MethodPost,
		Path:        "/api/v1/panels/{id}/refresh",
		Summary:     "Refresh panel",
		Description: "Rebuilds the panel's catalog from the current tag state",
		Tags:        []string{"Panels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRefreshPanel)

	huma.Register(s.api, huma.Operation{
		OperationID: "closePanel",
		Method:      http.MethodDelete,
		Path:        "/api/v1/panels/{id}",
		Summary:     "Close panel",
		Description: "Discards a panel session",
		Tags:        []string{"Panels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClosePanel)
}

// PanelResponse is the full view state of a panel session. Clients
// render exactly this; rows and striping are computed server side.
type PanelResponse struct {
	SessionID  string      `json:"session_id" doc:"Panel session ID"`
	Book       string      `json:"book,omitempty" doc:"Book context for the statistics column"`
	GroupID    string      `json:"group_id,omitempty" doc:"Group scope of the catalog"`
	FilterMode string      `json:"filter_mode" doc:"Active filter mode"`
	Query      string      `json:"query,omitempty" doc:"Active search query"`
	Rows       []*tags.Row `json:"rows" doc:"Visible rows in order"`
	Loaded     int         `json:"loaded" doc:"Materialized row count"`
	Total      int         `json:"total" doc:"Catalog size"`
	// TotalHeight and VirtualHeight size the scrollable area; virtual
	// is the placeholder below the last loaded row.
	TotalHeight   int `json:"total_height"`
	VirtualHeight int `json:"virtual_height"`
}

func panelResponse(session *service.PanelSession) PanelResponse {
	return PanelResponse{
		SessionID:     session.ID,
		Book:          session.Book,
		GroupID:       session.GroupID,
		FilterMode:    string(session.Filter.Mode),
		Query:         session.Filter.Query,
		Rows:          session.List.VisibleRows(),
		Loaded:        session.List.LoadedCount(),
		Total:         session.List.TotalCount(),
		TotalHeight:   session.List.TotalHeight(),
		VirtualHeight: session.List.VirtualHeight(),
	}
}

// OpenPanelInput wraps the open request for Huma.
type OpenPanelInput struct {
	Body service.OpenPanelRequest
}

// PanelOutput wraps a panel view for Huma.
type PanelOutput struct {
	Body PanelResponse
}

// PanelIDInput identifies a panel session by path.
type PanelIDInput struct {
	ID string `path:"id" doc:"Panel session ID"`
}

// ScrollPanelInput reports a scroll position in pixels.
type ScrollPanelInput struct {
	ID   string `path:"id" doc:"Panel session ID"`
	Body struct {
		ScrollTop int `json:"scrollTop" doc:"Scroll offset in pixels"`
	}
}

// ScrollPanelOutput wraps the scroll outcome plus refreshed view state.
type ScrollPanelOutput struct {
	Body struct {
		Throttled          bool          `json:"throttled" doc:"Event dropped inside the throttle window"`
		TargetIndex        int           `json:"target_index" doc:"Catalog index the position maps to"`
		LoadedRows         int           `json:"loaded_rows" doc:"Rows materialized by this event"`
		CorrectedScrollTop int           `json:"corrected_scroll_top" doc:"Adjusted position after height change"`
		Panel              PanelResponse `json:"panel"`
	}
}

// FilterPanelInput wraps a filter change for Huma.
type FilterPanelInput struct {
	ID   string `path:"id" doc:"Panel session ID"`
	Body struct {
		FilterMode string `json:"filterMode" required:"false" doc:"all, assigned, unassigned, or recent"`
		Query      string `json:"query" required:"false" doc:"Search query; overrides the mode while set"`
	}
}

func (s *Server) handleOpenPanel(ctx context.Context, input *OpenPanelInput) (*PanelOutput, error) {
	session, err := s.services.Panels.Open(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &PanelOutput{Body: panelResponse(session)}, nil
}

func (s *Server) handleGetPanel(_ context.Context, input *PanelIDInput) (*PanelOutput, error) {
	session, err := s.services.Panels.Get(input.ID)
	if err != nil {
		return nil, err
	}
	return &PanelOutput{Body: panelResponse(session)}, nil
}

func (s *Server) handleScrollPanel(_ context.Context, input *ScrollPanelInput) (*ScrollPanelOutput, error) {
	result, err := s.services.Panels.Scroll(input.ID, input.Body.ScrollTop)
	if err != nil {
		return nil, err
	}
	session, err := s.services.Panels.Get(input.ID)
	if err != nil {
		return nil, err
	}

	out := &ScrollPanelOutput{}
	out.Body.Throttled = result.Throttled
	out.Body.TargetIndex = result.TargetIndex
	out.Body.LoadedRows = result.LoadedRows
	out.Body.CorrectedScrollTop = result.CorrectedScrollTop
	out.Body.Panel = panelResponse(session)
	return out, nil
}

func (s *Server) handleFilterPanel(ctx context.Context, input *FilterPanelInput) (*PanelOutput, error) {
	session, err := s.services.Panels.SetFilter(ctx, input.ID, input.Body.FilterMode, input.Body.Query)
	if err != nil {
		return nil, err
	}
	return &PanelOutput{Body: panelResponse(session)}, nil
}

func (s *Server) handleRefreshPanel(ctx context.Context, input *PanelIDInput) (*PanelOutput, error) {
	session, err := s.services.Panels.Refresh(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PanelOutput{Body: panelResponse(session)}, nil
}

func (s *Server) handleClosePanel(_ context.Context, input *PanelIDInput) (*MessageOutput, error) {
	s.services.Panels.Close(input.ID)
	return &MessageOutput{Body: MessageResponse{Message: "Panel closed"}}, nil
}
