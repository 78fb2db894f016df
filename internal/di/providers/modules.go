package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/lampstandapp/lampstand-server/internal/config"
	"github.com/lampstandapp/lampstand-server/internal/logger"
	"github.com/lampstandapp/lampstand-server/internal/modules"
	"github.com/lampstandapp/lampstand-server/internal/search"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

// SearchIndexHandle wraps the verse search index with shutdown capability.
type SearchIndexHandle struct {
	*search.VerseIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve verse index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewVerseIndex(search.Options{
		DataPath: filepath.Join(cfg.Data.BasePath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	count, _ := idx.DocumentCount()
	log.Info("Search index opened", "documents", count)

	return &SearchIndexHandle{VerseIndex: idx}, nil
}

// ProvideTextProvider provides the SWORD module text reader.
func ProvideTextProvider(i do.Injector) (*text.DirProvider, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return text.NewDirProvider(cfg.Modules.Path, log.Logger), nil
}

// ProvideLibrary provides the module library and runs the initial scan.
func ProvideLibrary(i do.Injector) (*modules.Library, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	provider := do.MustInvoke[*text.DirProvider](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	library := modules.NewLibrary(provider, storeHandle.Store, searchHandle.VerseIndex, sseHandle.Manager, log.Logger)

	if cfg.Modules.Path == "" {
		log.Warn("No module path configured, text features are unavailable until one is set")
		return library, nil
	}

	result, err := library.Scan(context.Background())
	if err != nil {
		// A failed startup scan is not fatal. Modules can be rescanned
		// over the API once the path is fixed.
		log.Error("Initial module scan failed", "error", err)
		return library, nil
	}

	log.Info("Module library scanned",
		"installed", len(result.Installed),
		"indexed", result.Indexed,
		"removed", len(result.Removed),
	)

	return library, nil
}

// ModuleWatcherHandle wraps the module directory watcher with shutdown capability.
type ModuleWatcherHandle struct {
	*modules.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ModuleWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideModuleWatcher provides the filesystem watcher that rescans
// modules when files under the module path change. Disabled when no
// module path is configured.
func ProvideModuleWatcher(i do.Injector) (*ModuleWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	library := do.MustInvoke[*modules.Library](i)

	if cfg.Modules.Path == "" {
		return &ModuleWatcherHandle{}, nil
	}

	w, err := modules.NewWatcher(cfg.Modules.Path, library, log.Logger)
	if err != nil {
		log.Warn("Module watcher unavailable", "error", err)
		return &ModuleWatcherHandle{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		log.Warn("Module watcher failed to start", "error", err)
		return &ModuleWatcherHandle{}, nil
	}

	log.Info("Module watcher started", "path", cfg.Modules.Path)

	return &ModuleWatcherHandle{Watcher: w, cancel: cancel}, nil
}
