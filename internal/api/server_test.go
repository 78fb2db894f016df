package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/lampstandapp/lampstand-server/internal/export"
	"github.com/lampstandapp/lampstand-server/internal/modules"
	"github.com/lampstandapp/lampstand-server/internal/search"
	"github.com/lampstandapp/lampstand-server/internal/service"
	"github.com/lampstandapp/lampstand-server/internal/settings"
	"github.com/lampstandapp/lampstand-server/internal/store/sqlite"
	"github.com/lampstandapp/lampstand-server/internal/tags"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api     humatest.TestAPI
	library *modules.Library
}

// setupTestServer builds a server over real component instances in temp
// directories. Auth is disabled; handler semantics are what is under
// test here.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	prefs, err := settings.Open(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { prefs.Close() })

	index, err := search.NewVerseIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	moduleRoot := t.TempDir()
	require.NoError(t, text.WriteFixtureModule(moduleRoot, "KJV", map[string]string{
		"Description": "King James Version",
	}, map[string][]string{
		"John": {
			"3:16\tFor God so loved the world",
			"3:17\tFor God sent not his Son to condemn",
			"13:34\tA new commandment I give unto you",
		},
		"Rom": {
			"5:8\tBut God commendeth his love toward us",
		},
	}))
	provider := text.NewDirProvider(moduleRoot, logger)

	emitter := service.NoopEmitter{}
	cache := tags.NewCache(st, emitter, logger)
	library := modules.NewLibrary(provider, st, index, emitter, logger)

	services := Services{
		Tags:   service.NewTagService(st, cache, emitter, time.Nanosecond, logger),
		Groups: service.NewTagGroupService(st, emitter, logger),
		Panels: service.NewPanelService(cache, prefs, service.PanelConfig{
			BatchSize:      50,
			RowHeight:      30,
			ScrollThrottle: time.Nanosecond,
		}, logger),
		Exporter: export.NewExporter(st, provider, logger),
		Library:  library,
		Provider: provider,
		Index:    index,
		Settings: prefs,
	}

	s := NewServer(st, services, nil, logger)
	t.Cleanup(s.Stop)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		library: library,
	}
}

// createTag posts a tag and returns its ID.
func (ts *testServer) createTag(t *testing.T, title string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags", map[string]any{"title": title})
	require.Equal(t, http.StatusOK, resp.Code, "create tag failed: %s", resp.Body.String())

	var body TagResponse
	decodeBody(t, resp.Body.Bytes(), &body)
	return body.ID
}

// scanModules indexes the fixture module through the library.
func (ts *testServer) scanModules(t *testing.T) {
	t.Helper()
	_, err := ts.library.Scan(context.Background())
	require.NoError(t, err)
}

func decodeBody(t *testing.T, data []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v))
}
