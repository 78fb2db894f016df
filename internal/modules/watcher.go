package modules

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultSettleDelay is how long the watcher waits after the last
// observed change before triggering a rescan. Module installs copy
// many files; a single coalesced rescan covers all of them.
const defaultSettleDelay = 2 * time.Second

// Watcher monitors the module directory and triggers a library rescan
// when translation files change on disk.
type Watcher struct {
	root        string
	library     *Library
	logger      *slog.Logger
	settleDelay time.Duration

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	touched map[string]bool // module IDs seen since the last rescan

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher over the module root directory.
func NewWatcher(root string, library *Library, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		root:        filepath.Clean(root),
		library:     library,
		logger:      logger,
		settleDelay: defaultSettleDelay,
		watcher:     fsw,
		touched:     make(map[string]bool),
		done:        make(chan struct{}),
	}, nil
}

// Start watches the module root until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watchTree(w.root); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.processEvents(ctx)

	w.logger.Info("watching module directory", "path", w.root)
	<-ctx.Done()
	return nil
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// watchTree adds the root and every module subdirectory to the watch
// set. fsnotify does not watch recursively on its own.
func (w *Watcher) watchTree(path string) error {
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("failed to access path", "path", p, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if shouldIgnore(p) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			w.logger.Error("failed to add watch", "path", p, "error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("module watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if shouldIgnore(path) {
		return
	}

	// A new module directory needs its own watch before we can see the
	// files copied into it.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.watchTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if id := w.moduleID(path); id != "" {
		w.touched[id] = true
	}

	// Coalesce bursts of events into one rescan after the directory
	// settles.
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settleDelay, func() {
		w.rescan(ctx)
	})
}

func (w *Watcher) rescan(ctx context.Context) {
	select {
	case <-w.done:
		return
	default:
	}

	w.mu.Lock()
	touched := w.touched
	w.touched = make(map[string]bool)
	w.mu.Unlock()

	for id := range touched {
		w.library.provider.Invalidate(id)
	}

	res, err := w.library.Scan(ctx)
	if err != nil {
		w.logger.Error("module rescan failed", "error", err)
		return
	}
	w.logger.Info("module rescan complete",
		"installed", len(res.Installed),
		"removed", len(res.Removed),
		"indexed", res.Indexed)
}

// moduleID maps a changed path to the module directory it belongs to.
func (w *Watcher) moduleID(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	return parts[0]
}

// shouldIgnore filters out editor temp files and hidden entries.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." {
		return true
	}
	return strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".partial") || strings.HasSuffix(base, "~")
}
