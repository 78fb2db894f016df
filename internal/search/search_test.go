package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

func newTestIndex(t *testing.T) *VerseIndex {
	t.Helper()
	idx, err := NewVerseIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func verseDoc(module, book string, chapter, verse int, text string) *VerseDocument {
	v := &domain.Verse{
		Ref:      domain.VerseRef{Book: book, Chapter: chapter, Verse: verse},
		ModuleID: module,
	}
	return NewVerseDocument(v, text)
}

func seedIndex(t *testing.T, idx *VerseIndex) {
	t.Helper()
	require.NoError(t, idx.IndexVerses([]*VerseDocument{
		verseDoc("KJV", "John", 3, 16, "For God so loved the world, that he gave his only begotten Son"),
		verseDoc("KJV", "Rom", 5, 8, "But God commendeth his love toward us"),
		verseDoc("KJV", "Ps", 23, 1, "The LORD is my shepherd; I shall not want"),
		verseDoc("WEB", "John", 3, 16, "For God so loved the world, that he gave his one and only Son"),
	}))
}

func TestSearchFindsStemmedMatches(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	res, err := idx.Search(context.Background(), Params{Query: "loved"})
	require.NoError(t, err)
	// English stemming folds "loved" and "love" together.
	assert.GreaterOrEqual(t, res.Total, uint64(3))
}

func TestSearchScopedToModule(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	res, err := idx.Search(context.Background(), Params{Query: "loved", ModuleID: "WEB"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Total)
	assert.Equal(t, "WEB", res.Hits[0].ModuleID)
	assert.Equal(t, domain.VerseRef{Book: "John", Chapter: 3, Verse: 16}, res.Hits[0].Ref)
}

func TestSearchScopedToBook(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	res, err := idx.Search(context.Background(), Params{Query: "god", Book: "Rom"})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Total)
	assert.Equal(t, "Rom", res.Hits[0].Ref.Book)
}

func TestDeleteModuleRemovesItsVerses(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	require.NoError(t, idx.DeleteModule("KJV"))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	res, err := idx.Search(context.Background(), Params{Query: "shepherd"})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), res.Total)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeText("  a \t b\n\nc "))
	// NFD input normalizes to the composed form.
	assert.Equal(t, "café", NormalizeText("café"))
}
