// Package export renders a tag's verse list as a Markdown document.
// Module text arrives as HTML fragments from the text engine; the
// exporter converts them so notes apps can consume the output directly.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/lampstandapp/lampstand-server/internal/canon"
	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
	"github.com/lampstandapp/lampstand-server/internal/text"
)

// htmlTagPattern matches common HTML tags to detect markup in verse
// text. Plain-text modules skip the conversion entirely.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|sup|sub|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// containsHTML checks if a string appears to contain HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// htmlToMarkdown converts an HTML fragment to Markdown. Inputs without
// markup are returned unchanged, as is anything the converter rejects.
func htmlToMarkdown(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}

	return strings.TrimSpace(markdown)
}

// Exporter builds Markdown documents from tagged verses.
type Exporter struct {
	store    store.Store
	provider text.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewExporter creates an exporter over the given store and text provider.
func NewExporter(st store.Store, provider text.Provider, logger *slog.Logger) *Exporter {
	return &Exporter{
		store:    st,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Document is a rendered export.
type Document struct {
	TagID    string `json:"tag_id"`
	Title    string `json:"title"`
	ModuleID string `json:"module_id"`
	Verses   int    `json:"verses"`
	Markdown string `json:"markdown"`
}

// TagDocument renders every verse assigned to a tag, in canon order,
// grouped by book, with text pulled from the given module.
func (e *Exporter) TagDocument(ctx context.Context, tagID, moduleID string) (*Document, error) {
	tag, err := e.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	refs, err := e.collectRefs(ctx, tagID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tag.Title)
	fmt.Fprintf(&b, "%d verses, %s, exported %s\n", len(refs), moduleID,
		e.now().Format("2 January 2006"))

	currentBook := ""
	rendered := 0
	for _, ref := range refs {
		if ref.Book != currentBook {
			currentBook = ref.Book
			name := ref.Book
			if book, ok := canon.Lookup(ref.Book); ok {
				name = book.Name
			}
			fmt.Fprintf(&b, "\n## %s\n\n", name)
		}

		verse, err := e.provider.Verse(ctx, moduleID, ref)
		if err != nil {
			// A module may lack books another module had when the
			// verse was tagged. Keep the reference in the document.
			e.logger.Warn("exporting verse without text",
				"ref", ref.String(), "module", moduleID, "error", err)
			fmt.Fprintf(&b, "**%s** _(not in %s)_\n\n", ref.String(), moduleID)
			continue
		}

		fmt.Fprintf(&b, "**%s** %s\n\n", ref.String(), htmlToMarkdown(verse.Text))
		rendered++
	}

	return &Document{
		TagID:    tag.ID,
		Title:    tag.Title,
		ModuleID: moduleID,
		Verses:   len(refs),
		Markdown: strings.TrimRight(b.String(), "\n") + "\n",
	}, nil
}

// collectRefs pages through every assignment for the tag and sorts the
// references into canon order.
func (e *Exporter) collectRefs(ctx context.Context, tagID string) ([]domain.VerseRef, error) {
	var refs []domain.VerseRef
	params := store.PaginationParams{Limit: 1000}
	for {
		page, err := e.store.ListTagAssignments(ctx, tagID, params)
		if err != nil {
			return nil, err
		}
		for _, a := range page.Items {
			refs = append(refs, a.Verse)
		}
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}

	canon.Sort(refs)
	return refs, nil
}
