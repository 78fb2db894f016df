package canon

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

// ErrUnknownReference is returned when a scripture reference cannot be
// resolved. Callers treat it as a warning, not a failure.
var ErrUnknownReference = errors.New("unknown scripture reference")

// referenceRe matches "Book C:V" and "Book C:V-V2" forms. The book part
// may contain a leading ordinal ("1 Cor") and internal spaces.
var referenceRe = regexp.MustCompile(`^\s*((?:[1-3]\s*)?[A-Za-z][A-Za-z ]*?)\s*(\d+)\s*:\s*(\d+)(?:\s*-\s*(\d+))?\s*$`)

// ParseReference resolves a human-entered reference like "John 3:16" or
// "1 Cor 13:4-7" into verse references. Ranges stay within one chapter.
func ParseReference(input string) ([]domain.VerseRef, error) {
	m := referenceRe.FindStringSubmatch(input)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReference, input)
	}

	bookName := normalizeOrdinal(m[1])
	book, ok := Lookup(bookName)
	if !ok {
		return nil, fmt.Errorf("%w: book %q", ErrUnknownReference, bookName)
	}

	chapter, _ := strconv.Atoi(m[2])
	if !Valid(book.OSIS, chapter) {
		return nil, fmt.Errorf("%w: %s has no chapter %d", ErrUnknownReference, book.Name, chapter)
	}

	first, _ := strconv.Atoi(m[3])
	last := first
	if m[4] != "" {
		last, _ = strconv.Atoi(m[4])
	}
	if first < 1 || last < first {
		return nil, fmt.Errorf("%w: bad verse range %d-%d", ErrUnknownReference, first, last)
	}

	refs := make([]domain.VerseRef, 0, last-first+1)
	for v := first; v <= last; v++ {
		refs = append(refs, domain.VerseRef{Book: book.OSIS, Chapter: chapter, Verse: v})
	}
	return refs, nil
}

// normalizeOrdinal collapses "1  Cor" to "1 cor" so map lookup works.
func normalizeOrdinal(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	return strings.Join(fields, " ")
}

// Less orders verse references in canon order: book, then chapter, then
// verse. References with unknown books sort last.
func Less(a, b domain.VerseRef) bool {
	ao, bo := Ordinal(a.Book), Ordinal(b.Book)
	if ao == 0 {
		ao = len(books) + 1
	}
	if bo == 0 {
		bo = len(books) + 1
	}
	if ao != bo {
		return ao < bo
	}
	if a.Chapter != b.Chapter {
		return a.Chapter < b.Chapter
	}
	return a.Verse < b.Verse
}

// Sort orders verse references in place, in canon order.
func Sort(refs []domain.VerseRef) {
	sort.Slice(refs, func(i, j int) bool {
		return Less(refs[i], refs[j])
	})
}
