// Package search provides full-text verse search over installed text
// modules, backed by a Bleve index. Finding a verse is usually the first
// step of tagging it.
package search

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

// VerseDocument is the indexed form of one verse in one module.
type VerseDocument struct {
	ID        string `json:"id"`
	ModuleID  string `json:"module_id"`
	Book      string `json:"book"`
	Chapter   int    `json:"chapter"`
	Verse     int    `json:"verse"`
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// NewVerseDocument builds a document from a verse. The text is plain
// (markup already stripped) and normalized so composed and decomposed
// Unicode forms match the same queries.
func NewVerseDocument(v *domain.Verse, plainText string) *VerseDocument {
	return &VerseDocument{
		ID:        v.ModuleID + ":" + v.Ref.Key(),
		ModuleID:  v.ModuleID,
		Book:      v.Ref.Book,
		Chapter:   v.Ref.Chapter,
		Verse:     v.Ref.Verse,
		Reference: v.Ref.String(),
		Text:      NormalizeText(plainText),
	}
}

// Ref reconstructs the verse reference from the document.
func (d *VerseDocument) Ref() domain.VerseRef {
	return domain.VerseRef{Book: d.Book, Chapter: d.Chapter, Verse: d.Verse}
}

// ToMap converts the document to a map so the indexed field names match
// the mapping exactly.
func (d *VerseDocument) ToMap() map[string]any {
	return map[string]any{
		"module_id": d.ModuleID,
		"book":      d.Book,
		"chapter":   float64(d.Chapter),
		"verse":     float64(d.Verse),
		"reference": d.Reference,
		"text":      d.Text,
	}
}

// NormalizeText applies NFC normalization and collapses whitespace runs.
// Translations differ in their use of combining marks; without this the
// same word can index under two byte sequences.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// DocID returns the index id for a module/verse pair.
func DocID(moduleID string, ref domain.VerseRef) string {
	return fmt.Sprintf("%s:%s", moduleID, ref.Key())
}
