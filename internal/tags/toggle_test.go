package tags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToggleGuardDropsRapidDoubleClick(t *testing.T) {
	g := NewToggleGuard(300 * time.Millisecond)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	g.now = func() time.Time { return current }

	assert.True(t, g.TryBegin())
	assert.False(t, g.TryBegin(), "in-flight toggle blocks")

	g.End()
	current = base.Add(100 * time.Millisecond)
	assert.False(t, g.TryBegin(), "still inside the debounce window")

	current = base.Add(400 * time.Millisecond)
	assert.True(t, g.TryBegin())
}

func TestToggleGuardBlocksWhileInFlight(t *testing.T) {
	g := NewToggleGuard(10 * time.Millisecond)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := base
	g.now = func() time.Time { return current }

	assert.True(t, g.TryBegin())

	// A slow persistence call keeps the guard held past the window.
	current = base.Add(time.Second)
	assert.False(t, g.TryBegin())

	g.End()
	assert.True(t, g.TryBegin())
}
