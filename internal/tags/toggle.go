package tags

import (
	"sync"
	"time"
)

// ToggleGuard serializes checkbox-style tag toggles. A toggle that starts
// while another is in flight, or inside the debounce window of the
// previous one, is dropped rather than queued. Rapid double-clicks
// therefore submit once.
type ToggleGuard struct {
	mu        sync.Mutex
	window    time.Duration
	inFlight  bool
	startedAt time.Time

	now func() time.Time
}

// NewToggleGuard creates a guard with the given debounce window.
func NewToggleGuard(window time.Duration) *ToggleGuard {
	if window <= 0 {
		window = 300 * time.Millisecond
	}
	return &ToggleGuard{window: window, now: time.Now}
}

// TryBegin attempts to start a toggle. It returns false when another
// toggle is in flight or the debounce window has not elapsed.
func (g *ToggleGuard) TryBegin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.inFlight {
		return false
	}
	if !g.startedAt.IsZero() && now.Sub(g.startedAt) < g.window {
		return false
	}
	g.inFlight = true
	g.startedAt = now
	return true
}

// End marks the in-flight toggle as resolved. The debounce window keeps
// running from the toggle's start.
func (g *ToggleGuard) End() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
}
