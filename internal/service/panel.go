package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/id"
	"github.com/lampstandapp/lampstand-server/internal/settings"
	"github.com/lampstandapp/lampstand-server/internal/store"
	"github.com/lampstandapp/lampstand-server/internal/tags"
)

// PanelConfig sizes panel sessions.
type PanelConfig struct {
	BatchSize      int
	RowHeight      int
	ScrollThrottle time.Duration
}

// PanelSession holds one client's tag panel view: its lazy row list and
// active filter. Sessions are server state; the client renders what the
// session reports and never derives state from its own DOM.
type PanelSession struct {
	ID        string
	Book      string
	GroupID   string
	Filter    tags.Filter
	List      *tags.LazyList
	CreatedAt time.Time
}

// PanelService manages tag panel sessions.
type PanelService struct {
	cache    *tags.Cache
	settings *settings.Store
	cfg      PanelConfig
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*PanelSession
}

// NewPanelService creates a new panel service.
func NewPanelService(cache *tags.Cache, prefs *settings.Store, cfg PanelConfig, logger *slog.Logger) *PanelService {
	return &PanelService{
		cache:    cache,
		settings: prefs,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*PanelSession),
	}
}

// OpenPanelRequest configures a new panel session.
type OpenPanelRequest struct {
	// Book scopes the statistics column; empty means no book context.
	Book string `json:"book" required:"false"`
	// GroupID scopes the catalog to one tag group; empty shows all tags.
	GroupID    string `json:"groupId" required:"false"`
	FilterMode string `json:"filterMode" required:"false" validate:"omitempty,oneof=all assigned unassigned recent"`
	Query      string `json:"query" required:"false"`
}

// Open creates a panel session over the current catalog and returns it
// with the first batch materialized.
func (s *PanelService) Open(ctx context.Context, req OpenPanelRequest) (*PanelSession, error) {
	mode, err := tags.ParseFilterMode(req.FilterMode)
	if err != nil {
		return nil, err
	}

	rows, err := s.buildRows(ctx, req.Book, req.GroupID)
	if err != nil {
		return nil, err
	}

	sessionID, err := id.Generate("panel")
	if err != nil {
		return nil, err
	}

	list := tags.NewLazyList(tags.ListConfig{
		BatchSize:      s.cfg.BatchSize,
		RowHeight:      s.cfg.RowHeight,
		ScrollThrottle: s.cfg.ScrollThrottle,
	})
	list.SetCatalog(rows)

	session := &PanelSession{
		ID:        sessionID,
		Book:      req.Book,
		GroupID:   req.GroupID,
		Filter:    tags.Filter{Mode: mode, Query: req.Query},
		List:      list,
		CreatedAt: time.Now(),
	}
	list.SetFilter(session.Filter, s.cache.IsRecentRow)

	s.mu.Lock()
	s.sessions[sessionID] = session
	s.mu.Unlock()

	s.savePreferences(ctx, session)
	s.logger.Info("panel session opened",
		"session", sessionID, "book", req.Book, "group", req.GroupID, "tags", len(rows))
	return session, nil
}

// Get returns an open session.
func (s *PanelService) Get(sessionID string) (*PanelSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, store.ErrNotFound.WithMessage("panel session not found")
	}
	return session, nil
}

// Scroll feeds a scroll position into the session's lazy list.
func (s *PanelService) Scroll(sessionID string, scrollTop int) (tags.ScrollResult, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return tags.ScrollResult{}, err
	}
	return session.List.HandleScroll(scrollTop), nil
}

// SetFilter changes a session's filter mode or search query and persists
// the choice as a preference.
func (s *PanelService) SetFilter(ctx context.Context, sessionID, mode, query string) (*PanelSession, error) {
	parsed, err := tags.ParseFilterMode(mode)
	if err != nil {
		return nil, err
	}

	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	session.Filter = tags.Filter{Mode: parsed, Query: query}
	session.List.SetFilter(session.Filter, s.cache.IsRecentRow)

	s.savePreferences(ctx, session)
	return session, nil
}

// Refresh rebuilds a session's catalog from the cache, keeping its filter.
// Called after tag lifecycle changes invalidate the row set.
func (s *PanelService) Refresh(ctx context.Context, sessionID string) (*PanelSession, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.buildRows(ctx, session.Book, session.GroupID)
	if err != nil {
		return nil, err
	}
	session.List.SetCatalog(rows)
	session.List.SetFilter(session.Filter, s.cache.IsRecentRow)
	return session, nil
}

// Close discards a panel session.
func (s *PanelService) Close(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// buildRows projects the cached catalog and book statistics into rows,
// scoped to a tag group when one is active.
func (s *PanelService) buildRows(ctx context.Context, book, groupID string) ([]*tags.Row, error) {
	catalog, err := s.cache.TagList(ctx, false)
	if err != nil {
		return nil, err
	}

	// Without a book context the badge shows the catalog-wide count alone.
	var stats map[string]*domain.TagStatistics
	if book != "" {
		stats, err = s.cache.BookStatistics(ctx, book, false)
	} else {
		stats, err = s.cache.GlobalStatistics(ctx, false)
	}
	if err != nil {
		return nil, err
	}

	rows := make([]*tags.Row, 0, len(catalog))
	for _, t := range catalog {
		if groupID != "" && !t.InGroup(groupID) {
			continue
		}
		row := &tags.Row{
			TagID:      t.ID,
			Title:      t.Title,
			LastUsedAt: t.LastUsedAt,
			GroupIDs:   t.GroupIDs,
		}
		if st, ok := stats[t.ID]; ok {
			row.BookCount = st.BookCount
			row.GlobalCount = st.GlobalCount
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// savePreferences records the panel state so a restart restores the same
// view. Preference writes are best effort and never fail the operation.
func (s *PanelService) savePreferences(ctx context.Context, session *PanelSession) {
	if s.settings == nil {
		return
	}

	prefs, err := s.settings.GetPanelPreferences(ctx)
	if err != nil {
		s.logger.Warn("could not load panel preferences", "error", err)
		return
	}
	prefs.FilterMode = string(session.Filter.Mode)
	prefs.ActiveGroupID = session.GroupID
	prefs.LastSearchQuery = session.Filter.Query

	if err := s.settings.SavePanelPreferences(ctx, prefs); err != nil {
		s.logger.Warn("could not save panel preferences", "error", err)
	}
}
