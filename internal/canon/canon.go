// Package canon holds the fixed versification tables: the 66-book
// Protestant canon in traditional order with chapter counts, plus
// helpers for ordering and looking up books. Verse-level counts are
// the text engine's concern; ordering only needs book and chapter.
package canon

import "strings"

// Book describes one canonical book.
type Book struct {
	OSIS     string // stable code used in verse references
	Name     string // English display name
	Abbrevs  []string
	Chapters int
	Ordinal  int // 1-based position in canon order
}

var books = []Book{
	{OSIS: "Gen", Name: "Genesis", Abbrevs: []string{"gen", "ge"}, Chapters: 50},
	{OSIS: "Exod", Name: "Exodus", Abbrevs: []string{"exo", "ex"}, Chapters: 40},
	{OSIS: "Lev", Name: "Leviticus", Abbrevs: []string{"lev", "le"}, Chapters: 27},
	{OSIS: "Num", Name: "Numbers", Abbrevs: []string{"num", "nu"}, Chapters: 36},
	{OSIS: "Deut", Name: "Deuteronomy", Abbrevs: []string{"deu", "dt"}, Chapters: 34},
	{OSIS: "Josh", Name: "Joshua", Abbrevs: []string{"jos"}, Chapters: 24},
	{OSIS: "Judg", Name: "Judges", Abbrevs: []string{"jdg"}, Chapters: 21},
	{OSIS: "Ruth", Name: "Ruth", Abbrevs: []string{"rut", "ru"}, Chapters: 4},
	{OSIS: "1Sam", Name: "1 Samuel", Abbrevs: []string{"1sa", "1 sam"}, Chapters: 31},
	{OSIS: "2Sam", Name: "2 Samuel", Abbrevs: []string{"2sa", "2 sam"}, Chapters: 24},
	{OSIS: "1Kgs", Name: "1 Kings", Abbrevs: []string{"1ki", "1 kings"}, Chapters: 22},
	{OSIS: "2Kgs", Name: "2 Kings", Abbrevs: []string{"2ki", "2 kings"}, Chapters: 25},
	{OSIS: "1Chr", Name: "1 Chronicles", Abbrevs: []string{"1ch", "1 chron"}, Chapters: 29},
	{OSIS: "2Chr", Name: "2 Chronicles", Abbrevs: []string{"2ch", "2 chron"}, Chapters: 36},
	{OSIS: "Ezra", Name: "Ezra", Abbrevs: []string{"ezr"}, Chapters: 10},
	{OSIS: "Neh", Name: "Nehemiah", Abbrevs: []string{"neh"}, Chapters: 13},
	{OSIS: "Esth", Name: "Esther", Abbrevs: []string{"est"}, Chapters: 10},
	{OSIS: "Job", Name: "Job", Abbrevs: []string{"job"}, Chapters: 42},
	{OSIS: "Ps", Name: "Psalms", Abbrevs: []string{"psa", "psalm", "pss"}, Chapters: 150},
	{OSIS: "Prov", Name: "Proverbs", Abbrevs: []string{"pro", "prv"}, Chapters: 31},
	{OSIS: "Eccl", Name: "Ecclesiastes", Abbrevs: []string{"ecc", "qoh"}, Chapters: 12},
	{OSIS: "Song", Name: "Song of Solomon", Abbrevs: []string{"sos", "song of songs"}, Chapters: 8},
	{OSIS: "Isa", Name: "Isaiah", Abbrevs: []string{"isa"}, Chapters: 66},
	{OSIS: "Jer", Name: "Jeremiah", Abbrevs: []string{"jer"}, Chapters: 52},
	{OSIS: "Lam", Name: "Lamentations", Abbrevs: []string{"lam"}, Chapters: 5},
	{OSIS: "Ezek", Name: "Ezekiel", Abbrevs: []string{"eze", "ezk"}, Chapters: 48},
	{OSIS: "Dan", Name: "Daniel", Abbrevs: []string{"dan", "da"}, Chapters: 12},
	{OSIS: "Hos", Name: "Hosea", Abbrevs: []string{"hos"}, Chapters: 14},
	{OSIS: "Joel", Name: "Joel", Abbrevs: []string{"joe", "jl"}, Chapters: 3},
	{OSIS: "Amos", Name: "Amos", Abbrevs: []string{"amo", "am"}, Chapters: 9},
	{OSIS: "Obad", Name: "Obadiah", Abbrevs: []string{"oba", "ob"}, Chapters: 1},
	{OSIS: "Jonah", Name: "Jonah", Abbrevs: []string{"jon"}, Chapters: 4},
	{OSIS: "Mic", Name: "Micah", Abbrevs: []string{"mic"}, Chapters: 7},
	{OSIS: "Nah", Name: "Nahum", Abbrevs: []string{"nah", "na"}, Chapters: 3},
	{OSIS: "Hab", Name: "Habakkuk", Abbrevs: []string{"hab"}, Chapters: 3},
	{OSIS: "Zeph", Name: "Zephaniah", Abbrevs: []string{"zep", "zph"}, Chapters: 3},
	{OSIS: "Hag", Name: "Haggai", Abbrevs: []string{"hag", "hg"}, Chapters: 2},
	{OSIS: "Zech", Name: "Zechariah", Abbrevs: []string{"zec", "zch"}, Chapters: 14},
	{OSIS: "Mal", Name: "Malachi", Abbrevs: []string{"mal"}, Chapters: 4},
	{OSIS: "Matt", Name: "Matthew", Abbrevs: []string{"mat", "mt"}, Chapters: 28},
	{OSIS: "Mark", Name: "Mark", Abbrevs: []string{"mar", "mk", "mrk"}, Chapters: 16},
	{OSIS: "Luke", Name: "Luke", Abbrevs: []string{"luk", "lk"}, Chapters: 24},
	{OSIS: "John", Name: "John", Abbrevs: []string{"joh", "jhn", "jn"}, Chapters: 21},
	{OSIS: "Acts", Name: "Acts", Abbrevs: []string{"act", "ac"}, Chapters: 28},
	{OSIS: "Rom", Name: "Romans", Abbrevs: []string{"rom", "ro"}, Chapters: 16},
	{OSIS: "1Cor", Name: "1 Corinthians", Abbrevs: []string{"1co", "1 cor"}, Chapters: 16},
	{OSIS: "2Cor", Name: "2 Corinthians", Abbrevs: []string{"2co", "2 cor"}, Chapters: 13},
	{OSIS: "Gal", Name: "Galatians", Abbrevs: []string{"gal", "ga"}, Chapters: 6},
	{OSIS: "Eph", Name: "Ephesians", Abbrevs: []string{"eph"}, Chapters: 6},
	{OSIS: "Phil", Name: "Philippians", Abbrevs: []string{"phi", "php"}, Chapters: 4},
	{OSIS: "Col", Name: "Colossians", Abbrevs: []string{"col"}, Chapters: 4},
	{OSIS: "1Thess", Name: "1 Thessalonians", Abbrevs: []string{"1th", "1 thess"}, Chapters: 5},
	{OSIS: "2Thess", Name: "2 Thessalonians", Abbrevs: []string{"2th", "2 thess"}, Chapters: 3},
	{OSIS: "1Tim", Name: "1 Timothy", Abbrevs: []string{"1ti", "1 tim"}, Chapters: 6},
	{OSIS: "2Tim", Name: "2 Timothy", Abbrevs: []string{"2ti", "2 tim"}, Chapters: 4},
	{OSIS: "Titus", Name: "Titus", Abbrevs: []string{"tit", "ti"}, Chapters: 3},
	{OSIS: "Phlm", Name: "Philemon", Abbrevs: []string{"phm", "philem"}, Chapters: 1},
	{OSIS: "Heb", Name: "Hebrews", Abbrevs: []string{"heb"}, Chapters: 13},
	{OSIS: "Jas", Name: "James", Abbrevs: []string{"jam", "jas"}, Chapters: 5},
	{OSIS: "1Pet", Name: "1 Peter", Abbrevs: []string{"1pe", "1 pet"}, Chapters: 5},
	{OSIS: "2Pet", Name: "2 Peter", Abbrevs: []string{"2pe", "2 pet"}, Chapters: 3},
	{OSIS: "1John", Name: "1 John", Abbrevs: []string{"1jo", "1jn", "1 john"}, Chapters: 5},
	{OSIS: "2John", Name: "2 John", Abbrevs: []string{"2jo", "2jn", "2 john"}, Chapters: 1},
	{OSIS: "3John", Name: "3 John", Abbrevs: []string{"3jo", "3jn", "3 john"}, Chapters: 1},
	{OSIS: "Jude", Name: "Jude", Abbrevs: []string{"jud"}, Chapters: 1},
	{OSIS: "Rev", Name: "Revelation", Abbrevs: []string{"rev", "re", "apocalypse"}, Chapters: 22},
}

var byKey map[string]*Book

func init() {
	byKey = make(map[string]*Book, len(books)*4)
	for i := range books {
		b := &books[i]
		b.Ordinal = i + 1
		byKey[strings.ToLower(b.OSIS)] = b
		byKey[strings.ToLower(b.Name)] = b
		for _, a := range b.Abbrevs {
			byKey[a] = b
		}
	}
}

// Books returns the canon in traditional order.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// Lookup resolves a book by OSIS code, full name, or common
// abbreviation. Matching is case-insensitive.
func Lookup(name string) (Book, bool) {
	b, ok := byKey[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Book{}, false
	}
	return *b, true
}

// Ordinal returns the canon position of an OSIS code, or 0 if unknown.
// Used to order verse references across books.
func Ordinal(osis string) int {
	b, ok := byKey[strings.ToLower(osis)]
	if !ok {
		return 0
	}
	return b.Ordinal
}

// Valid reports whether the book and chapter exist in the canon. Verse
// numbers are validated downstream by the text engine.
func Valid(osis string, chapter int) bool {
	b, ok := byKey[strings.ToLower(osis)]
	return ok && chapter >= 1 && chapter <= b.Chapters
}
