package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"GoIK/internal/dict"
)

// ErrWatcherClosed is returned when Run is called on a closed FileWatcher.
var ErrWatcherClosed = errors.New("vocab: watcher closed")

// FileStore is the dictionary a FileWatcher writes to. Pinned words belong
// to a static source and are never disabled by a file change.
type FileStore interface {
	WordStore
	Pinned(word string) bool
}

// FileWatcher keeps a dictionary in step with local extension word files.
// When a file changes, words that appeared are added and words that
// disappeared are disabled, unless a static source or another watched
// file still provides them.
type FileWatcher struct {
	store   FileStore
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu     sync.Mutex
	files  map[string]map[string]struct{}
	closed bool
}

// NewFileWatcher watches paths. Directories are watched rather than the
// files themselves so editors that replace files on save are seen. The
// current content of every file is applied immediately.
func NewFileWatcher(store FileStore, paths []string, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("vocab: create watcher: %w", err)
	}
	w := &FileWatcher{
		store:   store,
		watcher: fsw,
		logger:  logger.With("component", "vocab_watcher"),
		files:   make(map[string]map[string]struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("vocab: resolve %s: %w", p, err)
		}
		w.files[abs] = nil
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("vocab: watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	for abs := range w.files {
		if _, _, err := w.Reload(abs); err != nil {
			w.logger.Warn("initial load failed", "path", abs, "error", err)
		}
	}
	return w, nil
}

// Run dispatches file events until ctx is done, then closes the watcher.
func (w *FileWatcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *FileWatcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	w.mu.Lock()
	_, tracked := w.files[abs]
	w.mu.Unlock()
	if !tracked {
		return
	}

	added, removed, err := w.Reload(abs)
	if err != nil {
		w.logger.Warn("reload failed", "path", abs, "op", ev.Op.String(), "error", err)
		return
	}
	w.logger.Info("extension dictionary reloaded", "path", abs, "added", added, "removed", removed)
}

// Reload reads path and applies the difference to the previous content.
// A file that cannot be read keeps its previous words.
func (w *FileWatcher) Reload(path string) (added, removed int, err error) {
	path, err = filepath.Abs(path)
	if err != nil {
		return 0, 0, err
	}
	words, err := dict.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	next := make(map[string]struct{}, len(words))
	for _, word := range words {
		next[string(dict.Normalize(word))] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	var gone []string
	for word := range w.files[path] {
		if _, ok := next[word]; ok || w.store.Pinned(word) || w.providedElsewhere(path, word) {
			continue
		}
		gone = append(gone, word)
	}
	removed = w.store.DisableWords(gone)
	added = w.store.AddWords(words)
	w.files[path] = next
	return added, removed, nil
}

func (w *FileWatcher) providedElsewhere(path, word string) bool {
	for p, words := range w.files {
		if _, ok := words[word]; ok && p != path {
			return true
		}
	}
	return false
}

// Close stops watching.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
