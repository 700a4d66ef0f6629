// Package watch reports writes to a set of files, debounced per file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last write before a file is reported
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches the directories of a set of files and reports files that
// were written or recreated.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]string // absolute path -> path as given
	pending  map[string]time.Time
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a Watcher over files.
func New(files []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]string),
		pending:  make(map[string]time.Time),
		debounce: debounce,
		logger:   logger,
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	// Editors often replace files on save, so directories are watched
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching directory", zap.String("dir", dir))
	}
	return w, nil
}

// Run calls onChange for every file once it has been quiet for the debounce
// period. Calls are sequential. Run returns when ctx is done and closes the
// watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, path string)) error {
	defer w.watcher.Close()

	tick := w.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				onChange(ctx, path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[abs]; !ok {
		return
	}
	w.logger.Debug("file changed", zap.String("path", abs), zap.String("op", event.Op.String()))
	w.pending[abs] = time.Now()
}

// due removes and returns the files quiet since the debounce period, sorted.
func (w *Watcher) due(now time.Time) []string {
	var paths []string
	for abs, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			delete(w.pending, abs)
			paths = append(paths, w.files[abs])
		}
	}
	sort.Strings(paths)
	return paths
}
