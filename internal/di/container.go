// Package di provides dependency injection configuration for the Lampstand server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/lampstandapp/lampstand-server/internal/auth"
	"github.com/lampstandapp/lampstand-server/internal/config"
	"github.com/lampstandapp/lampstand-server/internal/di/providers"
	"github.com/lampstandapp/lampstand-server/internal/export"
	"github.com/lampstandapp/lampstand-server/internal/logger"
	"github.com/lampstandapp/lampstand-server/internal/modules"
	"github.com/lampstandapp/lampstand-server/internal/service"
	"github.com/lampstandapp/lampstand-server/internal/tags"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSettings)

	// Module text layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideTextProvider)
	do.Provide(injector, providers.ProvideLibrary)
	do.Provide(injector, providers.ProvideModuleWatcher)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePairer)

	// Tag services
	do.Provide(injector, providers.ProvideTagCache)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideTagGroupService)
	do.Provide(injector, providers.ProvidePanelService)
	do.Provide(injector, providers.ProvideExporter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SettingsHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*text.DirProvider](injector)
	_ = do.MustInvoke[*modules.Library](injector)
	_ = do.MustInvoke[*providers.ModuleWatcherHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.PairerHandle](injector)
	_ = do.MustInvoke[*tags.Cache](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.TagGroupService](injector)
	_ = do.MustInvoke[*service.PanelService](injector)
	_ = do.MustInvoke[*export.Exporter](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	return nil
}
