// Package api provides the HTTP API server for the Lampstand
// application. Panels of the desktop shell and paired LAN companions
// talk to the same surface.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lampstandapp/lampstand-server/internal/auth"
	"github.com/lampstandapp/lampstand-server/internal/export"
	"github.com/lampstandapp/lampstand-server/internal/modules"
	"github.com/lampstandapp/lampstand-server/internal/ratelimit"
	"github.com/lampstandapp/lampstand-server/internal/search"
	"github.com/lampstandapp/lampstand-server/internal/service"
	"github.com/lampstandapp/lampstand-server/internal/settings"
	"github.com/lampstandapp/lampstand-server/internal/sse"
	"github.com/lampstandapp/lampstand-server/internal/store"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

// Services bundles everything the handlers call into.
type Services struct {
	Tags     *service.TagService
	Groups   *service.TagGroupService
	Panels   *service.PanelService
	Exporter *export.Exporter
	Library  *modules.Library
	Provider text.Provider
	Index    *search.VerseIndex
	Settings *settings.Store
	Pairer   *auth.Pairer
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	services    Services
	sseHandler  *sse.Handler
	router      *chi.Mux
	api         huma.API
	pairLimiter *ratelimit.KeyedLimiter
	logger      *slog.Logger
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(st store.Store, services Services, sseHandler *sse.Handler, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:       st,
		services:    services,
		sseHandler:  sseHandler,
		router:      router,
		pairLimiter: ratelimit.New(1, 5),
		logger:      logger,
	}

	s.setupMiddleware()
	if services.Pairer != nil {
		router.Use(authMiddleware(services.Pairer))
	}

	humaConfig := huma.DefaultConfig("Lampstand API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerTagRoutes()
	s.registerGroupRoutes()
	s.registerPanelRoutes()
	s.registerTextRoutes()
	s.registerSearchRoutes()
	s.registerExportRoutes()
	s.registerModuleRoutes()
	s.registerSettingsRoutes()
	if services.Pairer != nil {
		s.registerPairingRoutes()
	}

	// The event stream is a plain handler; authMiddleware already
	// guards it like every other /api/v1 path.
	if sseHandler != nil {
		router.Get("/api/v1/events", sseHandler.ServeHTTP)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(remoteAddrMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		// Companion web views on the LAN run from app-served origins.
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// Stop releases server resources not tied to a request.
func (s *Server) Stop() {
	s.pairLimiter.Stop()
}
