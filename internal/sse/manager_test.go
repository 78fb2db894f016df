package sse

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestManagerBroadcastDelivery(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	client, err := m.Connect()
	require.NoError(t, err)
	defer m.Disconnect(client.ID)

	m.Emit(NewLatestTagChangedEvent("tag-1"))

	select {
	case evt := <-client.EventChan:
		assert.Equal(t, EventLatestTagChanged, evt.Type)
		data, ok := evt.Data.(LatestTagEventData)
		require.True(t, ok)
		assert.Equal(t, "tag-1", data.TagID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestManagerEmitAfterShutdownIsDropped(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	cancel()
	require.NoError(t, m.Shutdown(shutdownCtx))

	// Must not panic on the closed channel.
	m.Emit(NewHeartbeatEvent())
	assert.Equal(t, 0, m.ClientCount())
}

func TestManagerDisconnectIdempotent(t *testing.T) {
	m := newTestManager()

	client, err := m.Connect()
	require.NoError(t, err)
	assert.Equal(t, 1, m.ClientCount())

	m.Disconnect(client.ID)
	m.Disconnect(client.ID)
	assert.Equal(t, 0, m.ClientCount())
}
