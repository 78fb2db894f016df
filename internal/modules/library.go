// Package modules keeps the installed translation modules in sync:
// directory scan, store records, the verse search index, and change
// notifications to clients.
package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lampstandapp/lampstand-server/internal/canon"
	"github.com/lampstandapp/lampstand-server/internal/search"
	"github.com/lampstandapp/lampstand-server/internal/sse"
	"github.com/lampstandapp/lampstand-server/internal/store"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

// EventEmitter is the interface for emitting SSE events.
type EventEmitter interface {
	Emit(event any)
}

// Library reconciles on-disk modules with the store and search index.
type Library struct {
	provider *text.DirProvider
	store    store.Store
	index    *search.VerseIndex
	emitter  EventEmitter
	logger   *slog.Logger
}

// NewLibrary creates a module library.
func NewLibrary(provider *text.DirProvider, st store.Store, index *search.VerseIndex, emitter EventEmitter, logger *slog.Logger) *Library {
	return &Library{
		provider: provider,
		store:    st,
		index:    index,
		emitter:  emitter,
		logger:   logger,
	}
}

// ScanResult summarizes one reconciliation pass.
type ScanResult struct {
	Installed []string `json:"installed"`
	Removed   []string `json:"removed"`
	Indexed   int      `json:"indexed"`
}

// Scan reconciles the module directory against the store and search
// index. New and changed modules are upserted and reindexed; modules
// gone from disk are removed everywhere. Emits modules.changed when
// anything moved.
func (l *Library) Scan(ctx context.Context) (*ScanResult, error) {
	onDisk, err := l.provider.Modules(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan module directory: %w", err)
	}

	known, err := l.store.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	knownAt := make(map[string]int64, len(known))
	for _, m := range known {
		knownAt[m.ID] = m.InstalledAt.UnixNano()
	}

	res := &ScanResult{}
	diskIDs := make(map[string]bool, len(onDisk))

	for _, mod := range onDisk {
		diskIDs[mod.ID] = true

		previous, existed := knownAt[mod.ID]
		if existed && previous == mod.InstalledAt.UnixNano() {
			continue
		}

		if err := l.store.UpsertModule(ctx, mod); err != nil {
			return nil, err
		}
		l.provider.Invalidate(mod.ID)

		indexed, err := l.indexModule(ctx, mod.ID)
		if err != nil {
			return nil, err
		}
		res.Indexed += indexed
		res.Installed = append(res.Installed, mod.ID)
		l.logger.Info("module installed", "id", mod.ID, "verses", indexed)
	}

	for _, m := range known {
		if diskIDs[m.ID] {
			continue
		}
		if err := l.store.DeleteModule(ctx, m.ID); err != nil {
			return nil, err
		}
		if err := l.index.DeleteModule(m.ID); err != nil {
			return nil, err
		}
		l.provider.Invalidate(m.ID)
		res.Removed = append(res.Removed, m.ID)
		l.logger.Info("module removed", "id", m.ID)
	}

	if len(res.Installed) > 0 || len(res.Removed) > 0 {
		ids := make([]string, 0, len(onDisk))
		for _, m := range onDisk {
			ids = append(ids, m.ID)
		}
		l.emitter.Emit(sse.NewModulesChangedEvent(ids))
	}

	return res, nil
}

// indexModule replaces a module's verse documents in the search index.
func (l *Library) indexModule(ctx context.Context, moduleID string) (int, error) {
	if err := l.index.DeleteModule(moduleID); err != nil {
		return 0, err
	}

	var docs []*search.VerseDocument
	for _, book := range canon.Books() {
		verses, err := l.provider.BookVerses(ctx, moduleID, book.OSIS)
		if err != nil {
			return 0, err
		}
		for _, v := range verses {
			docs = append(docs, search.NewVerseDocument(v, text.StripMarkup(v.Text)))
		}
	}

	if err := l.index.IndexVerses(docs); err != nil {
		return 0, fmt.Errorf("index module %s: %w", moduleID, err)
	}
	return len(docs), nil
}
