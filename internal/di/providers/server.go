package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/lampstandapp/lampstand-server/internal/api"
	"github.com/lampstandapp/lampstand-server/internal/config"
	"github.com/lampstandapp/lampstand-server/internal/export"
	"github.com/lampstandapp/lampstand-server/internal/logger"
	"github.com/lampstandapp/lampstand-server/internal/mdns"
	"github.com/lampstandapp/lampstand-server/internal/modules"
	"github.com/lampstandapp/lampstand-server/internal/service"
	"github.com/lampstandapp/lampstand-server/internal/sse"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Stop()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	settingsHandle := do.MustInvoke[*SettingsHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	pairerHandle := do.MustInvoke[*PairerHandle](i)

	services := api.Services{
		Tags:     do.MustInvoke[*service.TagService](i),
		Groups:   do.MustInvoke[*service.TagGroupService](i),
		Panels:   do.MustInvoke[*service.PanelService](i),
		Exporter: do.MustInvoke[*export.Exporter](i),
		Library:  do.MustInvoke[*modules.Library](i),
		Provider: do.MustInvoke[*text.DirProvider](i),
		Index:    searchHandle.VerseIndex,
		Settings: settingsHandle.Store,
		Pairer:   pairerHandle.Pairer,
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)
	handler := api.NewServer(storeHandle.Store, services, sseHandler, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}

// MDNSServiceHandle wraps mdns.Service with Shutdownable.
type MDNSServiceHandle struct {
	*mdns.Service
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *MDNSServiceHandle) Shutdown() error {
	if h.started && h.Service != nil {
		h.Stop()
	}
	return nil
}

// ProvideMDNSService provides the mDNS advertisement service.
func ProvideMDNSService(i do.Injector) (*MDNSServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Server.AdvertiseMDNS {
		log.Info("mDNS advertisement disabled by configuration")
		return &MDNSServiceHandle{}, nil
	}

	settingsHandle := do.MustInvoke[*SettingsHandle](i)
	instanceID, err := settingsHandle.InstanceID(context.Background())
	if err != nil {
		return nil, err
	}

	svc := mdns.NewService(log.Logger)

	port := 7390
	if _, err := fmt.Sscanf(cfg.Server.Port, "%d", &port); err != nil {
		log.Warn("Failed to parse server port for mDNS, using default", "port", cfg.Server.Port)
	}

	ad := mdns.Advertisement{
		InstanceID: instanceID,
		Name:       cfg.Server.Name,
		Pairing:    false,
	}
	if err := svc.Start(ad, port); err != nil {
		// Non-fatal: multicast may be unavailable on this host.
		log.Warn("mDNS advertisement unavailable", "error", err)
		return &MDNSServiceHandle{Service: svc}, nil
	}

	log.Info("mDNS advertisement started", "instance_id", instanceID, "name", cfg.Server.Name)

	return &MDNSServiceHandle{Service: svc, started: true}, nil
}
