package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals when a batch file changes
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *slog.Logger
}

// NewWatcher creates a watcher for path. The parent directory is watched
// so editors that replace the file on save are still seen.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{watcher: w, path: abs, logger: logger}, nil
}

// Watch emits on the returned channel whenever the file is written or
// recreated. Signals are coalesced: at most one is pending at a time.
// The channel is closed when ctx is done or the watcher stops.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", "path", w.path, "error", err)
			}
		}
	}()

	return changes, nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
