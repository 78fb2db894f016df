package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
	"github.com/lampstandapp/lampstand-server/internal/store/sqlite"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestExporter(t *testing.T) (*Exporter, store.Store) {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "export.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	root := t.TempDir()
	require.NoError(t, text.WriteFixtureModule(root, "KJV", map[string]string{
		"Description": "King James Version",
	}, map[string][]string{
		"John": {
			"3:16\tFor God so <i>loved</i> the world",
			"13:34\tA new commandment I give unto you",
		},
		"Rom": {
			"5:8\tBut God commendeth his love toward us",
		},
	}))

	exp := NewExporter(st, text.NewDirProvider(root, testLogger()), testLogger())
	exp.now = func() time.Time {
		return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	}
	return exp, st
}

func seedTag(t *testing.T, st store.Store, refs ...domain.VerseRef) *domain.Tag {
	t.Helper()
	ctx := context.Background()

	tag := &domain.Tag{ID: "tag_love", Title: "Love of God", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, st.CreateTag(ctx, tag))
	if len(refs) > 0 {
		_, err := st.AssignTagToVerses(ctx, tag.ID, refs)
		require.NoError(t, err)
	}
	return tag
}

func TestTagDocumentOrdersByCanon(t *testing.T) {
	exp, st := newTestExporter(t)
	ctx := context.Background()

	// Assign out of canon order; the document must come back sorted.
	seedTag(t, st,
		domain.VerseRef{Book: "Rom", Chapter: 5, Verse: 8},
		domain.VerseRef{Book: "John", Chapter: 13, Verse: 34},
		domain.VerseRef{Book: "John", Chapter: 3, Verse: 16},
	)

	doc, err := exp.TagDocument(ctx, "tag_love", "KJV")
	require.NoError(t, err)

	assert.Equal(t, "Love of God", doc.Title)
	assert.Equal(t, 3, doc.Verses)
	assert.Contains(t, doc.Markdown, "# Love of God")
	assert.Contains(t, doc.Markdown, "3 verses, KJV, exported 14 March 2026")

	johnAt := indexOf(t, doc.Markdown, "## John")
	romAt := indexOf(t, doc.Markdown, "## Romans")
	assert.Less(t, johnAt, romAt, "John heading should precede Romans")

	v16 := indexOf(t, doc.Markdown, "**John 3:16**")
	v34 := indexOf(t, doc.Markdown, "**John 13:34**")
	assert.Less(t, v16, v34)
}

func TestTagDocumentConvertsMarkup(t *testing.T) {
	exp, st := newTestExporter(t)
	ctx := context.Background()

	seedTag(t, st, domain.VerseRef{Book: "John", Chapter: 3, Verse: 16})

	doc, err := exp.TagDocument(ctx, "tag_love", "KJV")
	require.NoError(t, err)

	assert.Contains(t, doc.Markdown, "For God so _loved_ the world")
	assert.NotContains(t, doc.Markdown, "<i>")
}

func TestTagDocumentKeepsMissingVerses(t *testing.T) {
	exp, st := newTestExporter(t)
	ctx := context.Background()

	// Rev is not in the fixture module.
	seedTag(t, st,
		domain.VerseRef{Book: "John", Chapter: 3, Verse: 16},
		domain.VerseRef{Book: "Rev", Chapter: 1, Verse: 1},
	)

	doc, err := exp.TagDocument(ctx, "tag_love", "KJV")
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Verses)
	assert.Contains(t, doc.Markdown, "**Rev 1:1** _(not in KJV)_")
}

func TestTagDocumentUnknownTag(t *testing.T) {
	exp, _ := newTestExporter(t)

	_, err := exp.TagDocument(context.Background(), "tag_missing", "KJV")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	i := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, i, 0, "expected %q in document", needle)
	return i
}
