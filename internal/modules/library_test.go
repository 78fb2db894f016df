package modules

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lampstandapp/lampstand-server/internal/search"
	"github.com/lampstandapp/lampstand-server/internal/sse"
	"github.com/lampstandapp/lampstand-server/internal/store/sqlite"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

type captureEmitter struct {
	events []sse.Event
}

func (c *captureEmitter) Emit(event any) {
	if evt, ok := event.(sse.Event); ok {
		c.events = append(c.events, evt)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLibrary(t *testing.T) (*Library, *captureEmitter, string) {
	t.Helper()

	root := t.TempDir()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "modules.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	index, err := search.NewVerseIndex(search.Options{
		DataPath: t.TempDir(),
		Logger:   testLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	emitter := &captureEmitter{}
	provider := text.NewDirProvider(root, testLogger())
	lib := NewLibrary(provider, st, index, emitter, testLogger())
	return lib, emitter, root
}

func writeKJV(t *testing.T, root string) {
	t.Helper()
	err := text.WriteFixtureModule(root, "KJV", map[string]string{
		"Description": "King James Version",
		"Language":    "en",
	}, map[string][]string{
		"John": {
			"3:16\tFor God so loved the world",
			"3:17\tFor God sent not his Son to condemn",
		},
		"Gen": {
			"1:1\tIn the beginning God created",
		},
	})
	require.NoError(t, err)
}

func TestScanInstallsNewModules(t *testing.T) {
	lib, emitter, root := newTestLibrary(t)
	ctx := context.Background()

	writeKJV(t, root)

	res, err := lib.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"KJV"}, res.Installed)
	assert.Empty(t, res.Removed)
	assert.Equal(t, 3, res.Indexed)

	listed, err := lib.store.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "King James Version", listed[0].Description)

	count, err := lib.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, sse.EventModulesChanged, emitter.events[0].Type)
	data := emitter.events[0].Data.(sse.ModulesChangedEventData)
	assert.Equal(t, []string{"KJV"}, data.ModuleIDs)
}

func TestScanIsIdempotentWhenNothingChanged(t *testing.T) {
	lib, emitter, root := newTestLibrary(t)
	ctx := context.Background()

	writeKJV(t, root)
	_, err := lib.Scan(ctx)
	require.NoError(t, err)
	emitter.events = nil

	res, err := lib.Scan(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Installed)
	assert.Empty(t, res.Removed)
	assert.Zero(t, res.Indexed)
	assert.Empty(t, emitter.events)
}

func TestScanReindexesChangedModule(t *testing.T) {
	lib, _, root := newTestLibrary(t)
	ctx := context.Background()

	writeKJV(t, root)
	_, err := lib.Scan(ctx)
	require.NoError(t, err)

	// Touch module.conf forward so the install timestamp moves.
	conf := filepath.Join(root, "KJV", "module.conf")
	extra := filepath.Join(root, "KJV", "texts", "Rom.txt")
	require.NoError(t, os.WriteFile(extra, []byte("5:8\tGod commendeth his love toward us\n"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(conf, later, later))

	res, err := lib.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"KJV"}, res.Installed)
	assert.Equal(t, 4, res.Indexed)

	count, err := lib.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestScanRemovesDeletedModules(t *testing.T) {
	lib, emitter, root := newTestLibrary(t)
	ctx := context.Background()

	writeKJV(t, root)
	require.NoError(t, text.WriteFixtureModule(root, "WEB", map[string]string{
		"Description": "World English Bible",
	}, map[string][]string{
		"John": {"3:16\tFor God so loved the world that he gave"},
	}))

	_, err := lib.Scan(ctx)
	require.NoError(t, err)
	emitter.events = nil

	require.NoError(t, os.RemoveAll(filepath.Join(root, "WEB")))

	res, err := lib.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"WEB"}, res.Removed)

	listed, err := lib.store.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "KJV", listed[0].ID)

	count, err := lib.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	require.Len(t, emitter.events, 1)
	data := emitter.events[0].Data.(sse.ModulesChangedEventData)
	assert.Equal(t, []string{"KJV"}, data.ModuleIDs)
}
