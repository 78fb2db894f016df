package providers

import (
	"github.com/samber/do/v2"

	"github.com/lampstandapp/lampstand-server/internal/config"
	"github.com/lampstandapp/lampstand-server/internal/export"
	"github.com/lampstandapp/lampstand-server/internal/logger"
	"github.com/lampstandapp/lampstand-server/internal/service"
	"github.com/lampstandapp/lampstand-server/internal/tags"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

// ProvideTagCache provides the in-memory tag cache shared by the tag
// and panel services.
func ProvideTagCache(i do.Injector) (*tags.Cache, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return tags.NewCache(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideTagService provides tag CRUD and verse assignment operations.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cache := do.MustInvoke[*tags.Cache](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, cache, sseHandle.Manager, cfg.TagPanel.ToggleWindow, log.Logger), nil
}

// ProvideTagGroupService provides tag group operations.
func ProvideTagGroupService(i do.Injector) (*service.TagGroupService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagGroupService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvidePanelService provides the tag panel view-model sessions.
func ProvidePanelService(i do.Injector) (*service.PanelService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	cache := do.MustInvoke[*tags.Cache](i)
	settingsHandle := do.MustInvoke[*SettingsHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	panelCfg := service.PanelConfig{
		BatchSize:      cfg.TagPanel.BatchSize,
		RowHeight:      cfg.TagPanel.RowHeight,
		ScrollThrottle: cfg.TagPanel.ScrollThrottle,
	}

	return service.NewPanelService(cache, settingsHandle.Store, panelCfg, log.Logger), nil
}

// ProvideExporter provides the tagged verse Markdown exporter.
func ProvideExporter(i do.Injector) (*export.Exporter, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	provider := do.MustInvoke[*text.DirProvider](i)
	log := do.MustInvoke[*logger.Logger](i)

	return export.NewExporter(storeHandle.Store, provider, log.Logger), nil
}
