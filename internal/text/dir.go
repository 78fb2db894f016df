package text

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/canon"
	"github.com/lampstandapp/lampstand-server/internal/domain"
)

// DirProvider reads translation modules from a directory tree:
//
//	<root>/<ModuleID>/module.conf
//	<root>/<ModuleID>/texts/<OSIS>.txt
//
// module.conf holds key=value metadata (Description, Language,
// Direction, Feature). Each texts file carries one verse per line as
// "chapter:verse<TAB>text". Parsed books are cached per module.
type DirProvider struct {
	root   string
	logger *slog.Logger

	mu    sync.RWMutex
	books map[string]map[string][]*domain.Verse // moduleID -> book -> verses
}

// NewDirProvider creates a provider over the given module root.
func NewDirProvider(root string, logger *slog.Logger) *DirProvider {
	return &DirProvider{
		root:   root,
		logger: logger,
		books:  make(map[string]map[string][]*domain.Verse),
	}
}

// Modules lists installed modules by scanning for module.conf files.
func (p *DirProvider) Modules(_ context.Context) ([]*domain.Module, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read module root: %w", err)
	}

	var mods []*domain.Module
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		confPath := filepath.Join(p.root, entry.Name(), "module.conf")
		mod, err := parseModuleConf(entry.Name(), confPath)
		if err != nil {
			if !os.IsNotExist(err) {
				p.logger.Warn("skipping unreadable module", "module", entry.Name(), "error", err)
			}
			continue
		}
		mods = append(mods, mod)
	}

	sort.Slice(mods, func(i, j int) bool { return mods[i].ID < mods[j].ID })
	return mods, nil
}

// Verse returns one verse from a module.
func (p *DirProvider) Verse(ctx context.Context, moduleID string, ref domain.VerseRef) (*domain.Verse, error) {
	verses, err := p.bookVerses(ctx, moduleID, ref.Book)
	if err != nil {
		return nil, err
	}
	for _, v := range verses {
		if v.Ref.Chapter == ref.Chapter && v.Ref.Verse == ref.Verse {
			return v, nil
		}
	}
	return nil, ErrVerseNotFound
}

// Chapter returns all verses of a chapter in verse order.
func (p *DirProvider) Chapter(ctx context.Context, moduleID, book string, chapter int) ([]*domain.Verse, error) {
	verses, err := p.bookVerses(ctx, moduleID, book)
	if err != nil {
		return nil, err
	}

	var out []*domain.Verse
	for _, v := range verses {
		if v.Ref.Chapter == chapter {
			out = append(out, v)
		}
	}
	return out, nil
}

// BookVerses returns every verse of a book, for whole-module indexing.
func (p *DirProvider) BookVerses(ctx context.Context, moduleID, book string) ([]*domain.Verse, error) {
	return p.bookVerses(ctx, moduleID, book)
}

// Invalidate drops a module's parsed books, forcing a re-read. Called by
// the module watcher when files change on disk.
func (p *DirProvider) Invalidate(moduleID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.books, moduleID)
}

func (p *DirProvider) bookVerses(_ context.Context, moduleID, book string) ([]*domain.Verse, error) {
	if _, ok := canon.Lookup(book); !ok {
		return nil, ErrVerseNotFound
	}

	p.mu.RLock()
	if byBook, ok := p.books[moduleID]; ok {
		if verses, ok := byBook[book]; ok {
			p.mu.RUnlock()
			return verses, nil
		}
	}
	p.mu.RUnlock()

	if _, err := os.Stat(filepath.Join(p.root, moduleID, "module.conf")); err != nil {
		return nil, ErrModuleNotFound
	}

	verses, err := parseBookFile(moduleID, book, filepath.Join(p.root, moduleID, "texts", book+".txt"))
	if err != nil {
		if os.IsNotExist(err) {
			// Module installed without this book; treat as empty.
			verses = nil
		} else {
			return nil, err
		}
	}

	p.mu.Lock()
	if _, ok := p.books[moduleID]; !ok {
		p.books[moduleID] = make(map[string][]*domain.Verse)
	}
	p.books[moduleID][book] = verses
	p.mu.Unlock()

	return verses, nil
}

func parseModuleConf(moduleID, path string) (*domain.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	mod := &domain.Module{ID: moduleID, InstalledAt: info.ModTime()}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Description":
			mod.Description = value
		case "Language":
			mod.Language = value
		case "Direction":
			mod.RightToLeft = strings.EqualFold(value, "RtoL")
		case "Feature":
			if strings.EqualFold(value, "StrongsNumbers") {
				mod.HasStrongs = true
			}
		}
	}
	return mod, scanner.Err()
}

func parseBookFile(moduleID, book, path string) ([]*domain.Verse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var verses []*domain.Verse
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ref, text, err := parseVerseLine(book, line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
		}
		verses = append(verses, &domain.Verse{Ref: ref, ModuleID: moduleID, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(verses, func(i, j int) bool {
		return canon.Less(verses[i].Ref, verses[j].Ref)
	})
	return verses, nil
}

func parseVerseLine(book, line string) (domain.VerseRef, string, error) {
	locator, content, ok := strings.Cut(line, "\t")
	if !ok {
		return domain.VerseRef{}, "", fmt.Errorf("missing tab separator")
	}
	chapterStr, verseStr, ok := strings.Cut(locator, ":")
	if !ok {
		return domain.VerseRef{}, "", fmt.Errorf("malformed locator %q", locator)
	}
	chapter, err := strconv.Atoi(chapterStr)
	if err != nil {
		return domain.VerseRef{}, "", fmt.Errorf("malformed chapter %q", chapterStr)
	}
	verse, err := strconv.Atoi(verseStr)
	if err != nil {
		return domain.VerseRef{}, "", fmt.Errorf("malformed verse %q", verseStr)
	}
	return domain.VerseRef{Book: book, Chapter: chapter, Verse: verse}, content, nil
}

// WriteFixtureModule writes a small module tree under root, used by tests
// and the seed command.
func WriteFixtureModule(root, moduleID string, conf map[string]string, books map[string][]string) error {
	dir := filepath.Join(root, moduleID)
	if err := os.MkdirAll(filepath.Join(dir, "texts"), 0o755); err != nil {
		return err
	}

	var confLines []string
	for k, v := range conf {
		confLines = append(confLines, k+"="+v)
	}
	sort.Strings(confLines)
	if err := os.WriteFile(filepath.Join(dir, "module.conf"), []byte(strings.Join(confLines, "\n")+"\n"), 0o644); err != nil {
		return err
	}

	for book, lines := range books {
		path := filepath.Join(dir, "texts", book+".txt")
		if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
			return err
		}
	}

	// Make InstalledAt deterministic enough for listing.
	now := time.Now()
	return os.Chtimes(filepath.Join(dir, "module.conf"), now, now)
}
