package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panelCatalog mirrors the canonical three-tag example used across the
// filtering tests.
func panelCatalog() []*Row {
	return []*Row{
		{TagID: "1", Title: "Faith", BookCount: 3, GlobalCount: 3},
		{TagID: "2", Title: "Hope", BookCount: 0, GlobalCount: 2},
		{TagID: "3", Title: "Love", BookCount: 5, GlobalCount: 8},
	}
}

func visibleTitles(l *LazyList) []string {
	var out []string
	for _, r := range l.VisibleRows() {
		out = append(out, r.Title)
	}
	return out
}

func TestFilterAssigned(t *testing.T) {
	l := NewLazyList(ListConfig{})
	l.SetCatalog(panelCatalog())

	l.SetFilter(Filter{Mode: FilterAssigned}, nil)

	assert.Equal(t, []string{"Faith", "Love"}, visibleTitles(l))

	rows := l.Rows()
	assert.Equal(t, StripeOdd, rows[0].Stripe, "Faith is first visible")
	assert.Equal(t, StripeNone, rows[1].Stripe, "Hope is hidden")
	assert.Equal(t, StripeEven, rows[2].Stripe, "Love is second visible")
}

func TestFilterUnassigned(t *testing.T) {
	l := NewLazyList(ListConfig{})
	l.SetCatalog(panelCatalog())

	l.SetFilter(Filter{Mode: FilterUnassigned}, nil)
	assert.Equal(t, []string{"Hope"}, visibleTitles(l))
}

func TestFilterAllRestoresFullSet(t *testing.T) {
	l := NewLazyList(ListConfig{})
	l.SetCatalog(panelCatalog())

	l.SetFilter(Filter{Mode: FilterUnassigned}, nil)
	l.SetFilter(Filter{Mode: FilterAll}, nil)

	assert.Equal(t, []string{"Faith", "Hope", "Love"}, visibleTitles(l))
}

func TestFilterRecentUsesInjectedWindow(t *testing.T) {
	l := NewLazyList(ListConfig{})
	l.SetCatalog(panelCatalog())

	recent := func(r *Row) bool { return r.TagID == "3" }
	l.SetFilter(Filter{Mode: FilterRecent}, recent)

	assert.Equal(t, []string{"Love"}, visibleTitles(l))
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	l := NewLazyList(ListConfig{})
	l.SetCatalog(panelCatalog())

	l.SetFilter(Filter{Query: "ov"}, nil)
	assert.Equal(t, []string{"Love"}, visibleTitles(l))

	l.SetFilter(Filter{Query: "FAI"}, nil)
	assert.Equal(t, []string{"Faith"}, visibleTitles(l))
}

func TestParseFilterMode(t *testing.T) {
	mode, err := ParseFilterMode("recent")
	require.NoError(t, err)
	assert.Equal(t, FilterRecent, mode)

	mode, err = ParseFilterMode("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, mode)

	_, err = ParseFilterMode("bogus")
	assert.Error(t, err)
}
