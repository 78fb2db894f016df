package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPanelPreferences",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/panel",
		Summary:     "Get panel preferences",
		Description: "Returns persisted panel preferences, defaults when unset",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPanelPreferences)

	huma.Register(s.api, huma.Operation{
		OperationID: "savePanelPreferences",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings/panel",
		Summary:     "Save panel preferences",
		Description: "Persists panel preferences across restarts",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSavePanelPreferences)
}

// PreferencesOutput wraps panel preferences for Huma.
type PreferencesOutput struct {
	Body domain.PanelPreferences
}

// SavePreferencesInput wraps a preferences update for Huma.
type SavePreferencesInput struct {
	Body domain.PanelPreferences
}

func (s *Server) handleGetPanelPreferences(ctx context.Context, _ *struct{}) (*PreferencesOutput, error) {
	prefs, err := s.services.Settings.GetPanelPreferences(ctx)
	if err != nil {
		return nil, err
	}
	return &PreferencesOutput{Body: *prefs}, nil
}

func (s *Server) handleSavePanelPreferences(ctx context.Context, input *SavePreferencesInput) (*MessageOutput, error) {
	prefs := input.Body
	if err := s.services.Settings.SavePanelPreferences(ctx, &prefs); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Preferences saved"}}, nil
}
