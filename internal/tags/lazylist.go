package tags

import (
	"sync"
	"time"
)

// LazyList materializes the tag catalog in fixed-size batches so large
// catalogs never build every row up front. Unloaded rows are represented
// by a virtual placeholder whose height keeps scrollbar proportions
// stable.
type LazyList struct {
	mu sync.Mutex

	rows   []*Row
	loaded int

	batchSize      int
	rowHeight      int
	scrollThrottle time.Duration
	lastScroll     time.Time

	filter Filter
	recent RecentFunc

	now func() time.Time
}

// ListConfig sizes the lazy list.
type ListConfig struct {
	BatchSize      int
	RowHeight      int
	ScrollThrottle time.Duration
}

// ScrollResult reports what a scroll event did.
type ScrollResult struct {
	// Throttled is true when the event arrived inside the throttle
	// window and was dropped.
	Throttled bool
	// TargetIndex is the catalog index the scroll position maps to.
	TargetIndex int
	// LoadedRows is how many new rows the event materialized.
	LoadedRows int
	// CorrectedScrollTop keeps already-rendered rows visually still
	// after the scrollable height changed.
	CorrectedScrollTop int
}

// NewLazyList creates an empty list.
func NewLazyList(cfg ListConfig) *LazyList {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = 30
	}
	if cfg.ScrollThrottle <= 0 {
		cfg.ScrollThrottle = 50 * time.Millisecond
	}
	return &LazyList{
		batchSize:      cfg.BatchSize,
		rowHeight:      cfg.RowHeight,
		scrollThrottle: cfg.ScrollThrottle,
		filter:         Filter{Mode: FilterAll},
		now:            time.Now,
	}
}

// SetCatalog replaces the backing catalog, resets the cursor, and
// materializes the first batch under the active filter.
func (l *LazyList) SetCatalog(rows []*Row) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rows = rows
	l.loaded = 0
	for _, r := range l.rows {
		r.Loaded = false
		r.Visible = false
		r.Stripe = StripeNone
	}
	l.loadBatchLocked()
	l.restripeLocked()
}

// SetFilter applies a new filter. Mode filters run over materialized rows
// only; a search query runs over the full catalog and materializes any
// matching rows not yet loaded.
func (l *LazyList) SetFilter(f Filter, recent RecentFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.filter = f
	l.recent = recent

	if f.Query != "" {
		l.applySearchLocked()
	} else {
		for _, r := range l.rows {
			r.Visible = r.Loaded && f.Matches(r, recent)
		}
	}
	l.restripeLocked()
}

// applySearchLocked hides everything, matches the query against the full
// catalog, and loads matching rows that fall beyond the cursor. The
// caller must hold l.mu.
func (l *LazyList) applySearchLocked() {
	for _, r := range l.rows {
		r.Visible = false
	}
	for i, r := range l.rows {
		if !SearchMatches(l.filter.Query, r.Title) {
			continue
		}
		if !r.Loaded {
			l.ensureLoadedLocked(i)
		}
		r.Visible = true
	}
}

// HandleScroll maps a scroll position to a catalog index and loads the
// next batch when the index approaches the loaded boundary. Events inside
// the throttle window are dropped.
func (l *LazyList) HandleScroll(scrollTop int) ScrollResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastScroll) < l.scrollThrottle {
		return ScrollResult{Throttled: true, CorrectedScrollTop: scrollTop}
	}
	l.lastScroll = now

	heightBefore := l.totalHeightLocked()
	ratio := scrollRatio(scrollTop, heightBefore)
	target := int(ratio * float64(len(l.rows)))
	if target > len(l.rows) {
		target = len(l.rows)
	}

	res := ScrollResult{TargetIndex: target, CorrectedScrollTop: scrollTop}

	// Load ahead of the mapped index so rows exist before they scroll
	// into view.
	for l.loaded < len(l.rows) && target+l.batchSize/2 >= l.loaded {
		res.LoadedRows += l.loadBatchLocked()
	}

	if res.LoadedRows > 0 {
		// Reposition with the pre-insert ratio so rendered rows do not
		// visibly jump when the placeholder shrinks.
		res.CorrectedScrollTop = int(ratio * float64(l.totalHeightLocked()))
		l.restripeLocked()
	}
	return res
}

// LoadNextBatch materializes the next batch and returns how many rows it
// loaded. At the end of the catalog it is a no-op.
func (l *LazyList) LoadNextBatch() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.loadBatchLocked()
	if n > 0 {
		l.restripeLocked()
	}
	return n
}

// loadBatchLocked advances the cursor by one batch, applying the active
// filter to each newly materialized row. The caller must hold l.mu.
func (l *LazyList) loadBatchLocked() int {
	end := l.loaded + l.batchSize
	if end > len(l.rows) {
		end = len(l.rows)
	}
	n := end - l.loaded
	for i := l.loaded; i < end; i++ {
		r := l.rows[i]
		r.Loaded = true
		r.Visible = l.filter.Matches(r, l.recent)
	}
	l.loaded = end
	return n
}

// ensureLoadedLocked materializes batches until the row at idx is loaded.
// The caller must hold l.mu.
func (l *LazyList) ensureLoadedLocked(idx int) {
	for l.loaded <= idx && l.loaded < len(l.rows) {
		l.loadBatchLocked()
	}
}

// Restripe reassigns odd/even stripes in visible order.
func (l *LazyList) Restripe() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.restripeLocked()
}

func (l *LazyList) restripeLocked() {
	n := 0
	for _, r := range l.rows {
		if !r.Visible {
			r.Stripe = StripeNone
			continue
		}
		n++
		if n%2 == 1 {
			r.Stripe = StripeOdd
		} else {
			r.Stripe = StripeEven
		}
	}
}

// Rows returns the full catalog including unloaded entries.
func (l *LazyList) Rows() []*Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Row, len(l.rows))
	copy(out, l.rows)
	return out
}

// VisibleRows returns the visible rows in catalog order.
func (l *LazyList) VisibleRows() []*Row {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*Row
	for _, r := range l.rows {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// LoadedCount returns how many rows are materialized.
func (l *LazyList) LoadedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// TotalCount returns the catalog size.
func (l *LazyList) TotalCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

// VirtualHeight returns the placeholder height standing in for unloaded
// rows.
func (l *LazyList) VirtualHeight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return (len(l.rows) - l.loaded) * l.rowHeight
}

// TotalHeight returns loaded rows plus the virtual placeholder.
func (l *LazyList) TotalHeight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalHeightLocked()
}

func (l *LazyList) totalHeightLocked() int {
	return len(l.rows) * l.rowHeight
}

// ViewportFraction returns the scrollbar thumb proportion for a viewport
// of the given height, clamped so it never reads empty or overflows while
// rows remain unloaded.
func (l *LazyList) ViewportFraction(viewportHeight int) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := l.totalHeightLocked()
	if total <= 0 || viewportHeight >= total {
		return 1
	}
	frac := float64(viewportHeight) / float64(total)
	if frac <= 0 {
		frac = 1 / float64(total)
	}
	return frac
}

func scrollRatio(scrollTop, totalHeight int) float64 {
	if totalHeight <= 0 {
		return 0
	}
	r := float64(scrollTop) / float64(totalHeight)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
