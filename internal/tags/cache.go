// Package tags holds the in-memory tag panel state: the catalog cache with
// per-book statistics, recently-used tracking, visibility filtering, and the
// lazy row list. Rendering clients project this state; they never own it.
package tags

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/sse"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

// recentWindowSize is how many distinct recently-used timestamps the
// "recent" filter considers.
const recentWindowSize = 15

// EventEmitter is the interface for emitting SSE events.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// Cache is the in-memory source of truth for the tag catalog, per-book
// statistics, and most-recently-used tracking.
type Cache struct {
	store   store.Store
	emitter EventEmitter
	logger  *slog.Logger

	mu     sync.RWMutex
	tags   []*domain.Tag
	loaded bool
	// stats is keyed by book, then tag id. A book whose statistics were
	// never fetched has no bucket and is skipped by delta patching.
	stats map[string]map[string]*domain.TagStatistics

	latestTagID  string
	oldestRecent time.Time
}

// NewCache creates an empty cache over the given store.
func NewCache(st store.Store, emitter EventEmitter, logger *slog.Logger) *Cache {
	return &Cache{
		store:   st,
		emitter: emitter,
		logger:  logger,
		stats:   make(map[string]map[string]*domain.TagStatistics),
	}
}

// TagList returns the cached tag catalog, fetching from the store on first
// call or when forceRefresh is set. The returned tags are deep copies;
// internal catalog entries are mutated under the cache mutex and must
// never escape.
func (c *Cache) TagList(ctx context.Context, forceRefresh bool) ([]*domain.Tag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded || forceRefresh {
		list, err := c.store.ListTags(ctx)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []*domain.Tag{}
		}
		c.tags = list
		c.loaded = true
		c.refreshLatestLocked()
	}

	out := make([]*domain.Tag, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.Clone()
	}
	return out, nil
}

// Tag returns a copy of the cached tag with the given id, or nil when
// not cached.
func (c *Cache) Tag(id string) *domain.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.tags {
		if t.ID == id {
			return t.Clone()
		}
	}
	return nil
}

// TagExists reports whether a cached tag has exactly this title.
// The comparison is case-sensitive, so "Faith" and "faith" are distinct.
func (c *Cache) TagExists(title string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.tags {
		if t.Title == title {
			return true
		}
	}
	return false
}

// BookStatistics returns per-tag statistics for one book, fetching and
// caching them on first access or when forceRefresh is set.
func (c *Cache) BookStatistics(ctx context.Context, book string, forceRefresh bool) (map[string]*domain.TagStatistics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.stats[book]
	if !ok || forceRefresh {
		fetched, err := c.store.BookTagStatistics(ctx, book)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			fetched = make(map[string]*domain.TagStatistics)
		}
		c.stats[book] = fetched
		bucket = fetched
	}

	out := make(map[string]*domain.TagStatistics, len(bucket))
	for id, s := range bucket {
		cp := *s
		out[id] = &cp
	}
	return out, nil
}

// globalBook keys the statistics bucket holding catalog-wide counts for
// panels opened without a book context. Delta patching updates its
// global counters like any other loaded bucket; its book counters stay
// zero because no assignment ever names an empty book.
const globalBook = ""

// GlobalStatistics returns catalog-wide assignment counts, fetching and
// caching them on first access or when forceRefresh is set.
func (c *Cache) GlobalStatistics(ctx context.Context, forceRefresh bool) (map[string]*domain.TagStatistics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.stats[globalBook]
	if !ok || forceRefresh {
		counts, err := c.store.GlobalTagCounts(ctx)
		if err != nil {
			return nil, err
		}
		bucket = make(map[string]*domain.TagStatistics, len(counts))
		for id, n := range counts {
			bucket[id] = &domain.TagStatistics{TagID: id, GlobalCount: n}
		}
		c.stats[globalBook] = bucket
	}

	out := make(map[string]*domain.TagStatistics, len(bucket))
	for id, s := range bucket {
		cp := *s
		out[id] = &cp
	}
	return out, nil
}

// ApplyCountDelta patches every loaded statistics bucket after an
// assignment change: the book counter for each affected book, and the
// global counter everywhere. Counts never go below zero. Books without a
// loaded bucket are skipped; their statistics are computed on next fetch.
func (c *Cache) ApplyCountDelta(tagID string, affectedBooks []string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	affected := make(map[string]bool, len(affectedBooks))
	for _, b := range affectedBooks {
		affected[b] = true
	}

	for book, bucket := range c.stats {
		entry, ok := bucket[tagID]
		if !ok {
			entry = &domain.TagStatistics{TagID: tagID}
			bucket[tagID] = entry
		}
		if affected[book] {
			entry.BookCount = clampNonNegative(entry.BookCount + delta)
		}
		entry.GlobalCount = clampNonNegative(entry.GlobalCount + delta*len(affectedBooks))
	}
}

// InvalidateStatistics drops all cached per-book statistics.
func (c *Cache) InvalidateStatistics() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = make(map[string]map[string]*domain.TagStatistics)
}

// LatestTagID returns the id of the most recently used tag, or empty when
// no tag has been used yet.
func (c *Cache) LatestTagID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latestTagID
}

// IsRecentlyUsed reports whether a tag falls inside the recently-used
// window tracked by RefreshLatest.
func (c *Cache) IsRecentlyUsed(t *domain.Tag) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if t.LastUsedAt == nil || c.oldestRecent.IsZero() {
		return false
	}
	return !t.LastUsedAt.Before(c.oldestRecent)
}

// IsRecentRow is the RecentFunc used when filtering rows, backed by the
// same window as IsRecentlyUsed.
func (c *Cache) IsRecentRow(r *Row) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if r.LastUsedAt == nil || c.oldestRecent.IsZero() {
		return false
	}
	return !r.LastUsedAt.Before(c.oldestRecent)
}

// MarkUsed updates a cached tag's last-used timestamp and recomputes the
// latest-tag data.
func (c *Cache) MarkUsed(tagID string, usedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.tags {
		if t.ID == tagID {
			t.MarkUsed(usedAt)
			break
		}
	}
	c.refreshLatestLocked()
}

// RefreshLatest recomputes the latest-used tag and the recently-used
// window from the cached catalog.
func (c *Cache) RefreshLatest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLatestLocked()
}

// Insert adds a newly created tag to the cache, keeping title order. The
// cache stores its own copy so the caller's tag stays independent.
func (c *Cache) Insert(t *domain.Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := sort.Search(len(c.tags), func(i int) bool {
		return strings.ToLower(c.tags[i].Title) >= strings.ToLower(t.Title)
	})
	c.tags = slices.Insert(c.tags, idx, t.Clone())
}

// Rename updates a cached tag's title, keeping title order.
func (c *Cache) Rename(tagID, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.tags {
		if t.ID == tagID {
			t.Title = title
			t.Touch()
			break
		}
	}
	sort.SliceStable(c.tags, func(i, j int) bool {
		return strings.ToLower(c.tags[i].Title) < strings.ToLower(c.tags[j].Title)
	})
}

// Remove drops a tag from the cache and its statistics buckets, then
// recomputes latest-tag data in case the deleted tag was the latest.
func (c *Cache) Remove(tagID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tags = slices.DeleteFunc(c.tags, func(t *domain.Tag) bool {
		return t.ID == tagID
	})
	for _, bucket := range c.stats {
		delete(bucket, tagID)
	}
	c.refreshLatestLocked()
}

// SetGroups replaces a cached tag's group membership.
func (c *Cache) SetGroups(tagID string, groupIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.tags {
		if t.ID == tagID {
			t.GroupIDs = slices.Clone(groupIDs)
			break
		}
	}
}

// refreshLatestLocked recomputes latestTagID and the oldest-recent
// boundary. The caller must hold c.mu. An SSE notification fires only when
// the latest-tag id actually changes.
func (c *Cache) refreshLatestLocked() {
	previous := c.latestTagID

	var latestID string
	var latestAt time.Time
	stamps := make([]time.Time, 0, len(c.tags))

	for _, t := range c.tags {
		if t.LastUsedAt == nil || t.LastUsedAt.IsZero() {
			continue
		}
		at := *t.LastUsedAt
		stamps = append(stamps, at)

		switch {
		case at.After(latestAt):
			latestID = t.ID
			latestAt = at
		case at.Equal(latestAt) && t.ID == previous:
			// Keep the current latest tag on a timestamp tie so the
			// shortcut does not flicker between tags.
			latestID = t.ID
		}
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].After(stamps[j]) })
	distinct := stamps[:0]
	for _, s := range stamps {
		if len(distinct) == 0 || !distinct[len(distinct)-1].Equal(s) {
			distinct = append(distinct, s)
		}
	}
	if len(distinct) > recentWindowSize {
		distinct = distinct[:recentWindowSize]
	}
	if len(distinct) > 0 {
		c.oldestRecent = distinct[len(distinct)-1]
	} else {
		c.oldestRecent = time.Time{}
	}

	c.latestTagID = latestID
	if latestID != previous && c.emitter != nil {
		c.emitter.Emit(sse.NewLatestTagChangedEvent(latestID))
	}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
