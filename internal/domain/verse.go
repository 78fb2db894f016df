package domain

import "fmt"

// VerseRef identifies a single verse by OSIS book code, chapter, and
// verse number within the server's fixed versification scheme.
type VerseRef struct {
	Book    string `json:"book"` // OSIS code, e.g. "John", "1Cor"
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
}

// Key returns a stable string form used as a map/database key,
// e.g. "John.3.16".
func (v VerseRef) Key() string {
	return fmt.Sprintf("%s.%d.%d", v.Book, v.Chapter, v.Verse)
}

// String renders the reference for display, e.g. "John 3:16".
func (v VerseRef) String() string {
	return fmt.Sprintf("%s %d:%d", v.Book, v.Chapter, v.Verse)
}

// Zero reports whether the reference is unset.
func (v VerseRef) Zero() bool {
	return v.Book == "" && v.Chapter == 0 && v.Verse == 0
}

// Verse carries a verse reference together with its rendered text for
// one translation module. Text is the HTML fragment produced by the
// text engine.
type Verse struct {
	Ref      VerseRef `json:"ref"`
	ModuleID string   `json:"module_id"`
	Text     string   `json:"text"`
}
