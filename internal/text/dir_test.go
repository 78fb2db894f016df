package text

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

func newFixtureProvider(t *testing.T) *DirProvider {
	t.Helper()
	root := t.TempDir()

	err := WriteFixtureModule(root, "KJV",
		map[string]string{
			"Description": "King James Version",
			"Language":    "en",
		},
		map[string][]string{
			"John": {
				"3:16\tFor God so <i>loved</i> the world",
				"3:17\tFor God sent not his Son to condemn",
				"4:1\tWhen therefore the Lord knew",
			},
		})
	require.NoError(t, err)

	err = WriteFixtureModule(root, "HEB",
		map[string]string{
			"Description": "Hebrew Bible",
			"Language":    "he",
			"Direction":   "RtoL",
			"Feature":     "StrongsNumbers",
		},
		map[string][]string{})
	require.NoError(t, err)

	return NewDirProvider(root, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestModulesListing(t *testing.T) {
	p := newFixtureProvider(t)

	mods, err := p.Modules(context.Background())
	require.NoError(t, err)
	require.Len(t, mods, 2)

	assert.Equal(t, "HEB", mods[0].ID)
	assert.True(t, mods[0].RightToLeft)
	assert.True(t, mods[0].HasStrongs)

	assert.Equal(t, "KJV", mods[1].ID)
	assert.Equal(t, "King James Version", mods[1].Description)
	assert.False(t, mods[1].RightToLeft)
}

func TestVerseLookup(t *testing.T) {
	p := newFixtureProvider(t)
	ctx := context.Background()

	v, err := p.Verse(ctx, "KJV", domain.VerseRef{Book: "John", Chapter: 3, Verse: 16})
	require.NoError(t, err)
	assert.Contains(t, v.Text, "<i>loved</i>")

	_, err = p.Verse(ctx, "KJV", domain.VerseRef{Book: "John", Chapter: 99, Verse: 1})
	assert.True(t, errors.Is(err, ErrVerseNotFound))

	_, err = p.Verse(ctx, "NONE", domain.VerseRef{Book: "John", Chapter: 3, Verse: 16})
	assert.True(t, errors.Is(err, ErrModuleNotFound))

	_, err = p.Verse(ctx, "KJV", domain.VerseRef{Book: "NotABook", Chapter: 1, Verse: 1})
	assert.True(t, errors.Is(err, ErrVerseNotFound))
}

func TestChapterOrdering(t *testing.T) {
	p := newFixtureProvider(t)

	verses, err := p.Chapter(context.Background(), "KJV", "John", 3)
	require.NoError(t, err)
	require.Len(t, verses, 2)
	assert.Equal(t, 16, verses[0].Ref.Verse)
	assert.Equal(t, 17, verses[1].Ref.Verse)
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "For God so loved the world",
		StripMarkup("For God so <i>loved</i> the world"))
	assert.Equal(t, "Jesus wept.",
		StripMarkup(`<div class="verse"><span>Jesus wept.</span></div>`))
	assert.Equal(t, "", StripMarkup(""))
}
