package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lampstandapp/lampstand-server/internal/store"
)

func (s *Server) registerPairingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "startPairing",
		Method:      http.MethodPost,
		Path:        "/api/v1/pairing/start",
		Summary:     "Start pairing",
		Description: "Issues a fresh pairing PIN for the desktop shell to display",
		Tags:        []string{"Pairing"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStartPairing)

	huma.Register(s.api, huma.Operation{
		OperationID: "completePairing",
		Method:      http.MethodPost,
		Path:        "/api/v1/pairing/complete",
		Summary:     "Complete pairing",
		Description: "Exchanges the displayed PIN for a session token",
		Tags:        []string{"Pairing"},
	}, s.handleCompletePairing)
}

// StartPairingOutput returns the PIN to display.
type StartPairingOutput struct {
	Body struct {
		PIN string `json:"pin" doc:"PIN to show on the desktop"`
	}
}

// CompletePairingInput carries a device's pairing attempt.
type CompletePairingInput struct {
	RemoteAddr string `header:"X-Forwarded-For" hidden:"true"`
	Body       struct {
		PIN        string `json:"pin" required:"true" doc:"PIN shown on the desktop"`
		DeviceName string `json:"deviceName" required:"true" doc:"Name to identify this device"`
	}
}

// CompletePairingOutput returns the minted session token.
type CompletePairingOutput struct {
	Body struct {
		Token string `json:"token" doc:"Bearer token for subsequent requests"`
	}
}

func (s *Server) handleStartPairing(ctx context.Context, _ *struct{}) (*StartPairingOutput, error) {
	pin, err := s.services.Pairer.StartPairing(ctx)
	if err != nil {
		return nil, err
	}

	out := &StartPairingOutput{}
	out.Body.PIN = pin
	return out, nil
}

func (s *Server) handleCompletePairing(ctx context.Context, input *CompletePairingInput) (*CompletePairingOutput, error) {
	// One guess per second per client; PINs are short.
	if !s.pairLimiter.Allow(clientKey(ctx, input.RemoteAddr)) {
		return nil, store.ErrBusy.WithMessage("too many pairing attempts, slow down")
	}

	token, err := s.services.Pairer.CompletePairing(ctx, input.Body.PIN, input.Body.DeviceName)
	if err != nil {
		return nil, err
	}

	out := &CompletePairingOutput{}
	out.Body.Token = token
	return out, nil
}
