package canon

import (
	"errors"
	"sort"
	"testing"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

func TestBooks_Count(t *testing.T) {
	if got := len(Books()); got != 66 {
		t.Fatalf("canon has %d books, want 66", got)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		osis string
	}{
		{"John", "John"},
		{"john", "John"},
		{"jn", "John"},
		{"1 Corinthians", "1Cor"},
		{"1co", "1Cor"},
		{"Psalms", "Ps"},
		{"psalm", "Ps"},
		{"Song of Songs", "Song"},
		{"REV", "Rev"},
	}
	for _, tt := range tests {
		b, ok := Lookup(tt.in)
		if !ok {
			t.Errorf("Lookup(%q): not found", tt.in)
			continue
		}
		if b.OSIS != tt.osis {
			t.Errorf("Lookup(%q) = %s, want %s", tt.in, b.OSIS, tt.osis)
		}
	}

	if _, ok := Lookup("Hezekiah"); ok {
		t.Error("Lookup should miss on non-canonical book")
	}
}

func TestOrdinal_CanonOrder(t *testing.T) {
	if Ordinal("Gen") != 1 {
		t.Errorf("Genesis ordinal = %d, want 1", Ordinal("Gen"))
	}
	if Ordinal("Rev") != 66 {
		t.Errorf("Revelation ordinal = %d, want 66", Ordinal("Rev"))
	}
	if Ordinal("Matt") <= Ordinal("Mal") {
		t.Error("Matthew must follow Malachi")
	}
	if Ordinal("Nope") != 0 {
		t.Error("unknown book should have ordinal 0")
	}
}

func TestValid(t *testing.T) {
	if !Valid("John", 21) {
		t.Error("John 21 should be valid")
	}
	if Valid("John", 22) {
		t.Error("John 22 should be invalid")
	}
	if Valid("John", 0) {
		t.Error("chapter 0 should be invalid")
	}
}

func TestParseReference_Single(t *testing.T) {
	refs, err := ParseReference("John 3:16")
	if err != nil {
		t.Fatalf("ParseReference: %v", err)
	}
	want := domain.VerseRef{Book: "John", Chapter: 3, Verse: 16}
	if len(refs) != 1 || refs[0] != want {
		t.Errorf("got %v, want [%v]", refs, want)
	}
}

func TestParseReference_Range(t *testing.T) {
	refs, err := ParseReference("1 Cor 13:4-7")
	if err != nil {
		t.Fatalf("ParseReference: %v", err)
	}
	if len(refs) != 4 {
		t.Fatalf("got %d refs, want 4", len(refs))
	}
	for i, r := range refs {
		if r.Book != "1Cor" || r.Chapter != 13 || r.Verse != 4+i {
			t.Errorf("ref %d = %v", i, r)
		}
	}
}

func TestParseReference_Errors(t *testing.T) {
	for _, in := range []string{"", "nonsense", "John 99:1", "Hezekiah 1:1", "John 3:7-4"} {
		if _, err := ParseReference(in); !errors.Is(err, ErrUnknownReference) {
			t.Errorf("ParseReference(%q): err = %v, want ErrUnknownReference", in, err)
		}
	}
}

func TestLess_CanonOrdering(t *testing.T) {
	refs := []domain.VerseRef{
		{Book: "Rev", Chapter: 1, Verse: 1},
		{Book: "John", Chapter: 3, Verse: 16},
		{Book: "Gen", Chapter: 1, Verse: 2},
		{Book: "Gen", Chapter: 1, Verse: 1},
		{Book: "John", Chapter: 1, Verse: 1},
	}
	sort.Slice(refs, func(i, j int) bool { return Less(refs[i], refs[j]) })

	wantKeys := []string{"Gen.1.1", "Gen.1.2", "John.1.1", "John.3.16", "Rev.1.1"}
	for i, r := range refs {
		if r.Key() != wantKeys[i] {
			t.Errorf("position %d: got %s, want %s", i, r.Key(), wantKeys[i])
		}
	}
}
