// Package watch re-runs an action whenever a file changes.
//
// The parent directory of the file is watched rather than the file itself so
// that editors replacing the file through a rename are still observed. Bursts
// of events are coalesced: the action runs once the file has been quiet for
// the debounce interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 500 * time.Millisecond

// Func is run after each debounced change. An error is logged and watching
// continues.
type Func func(ctx context.Context) error

// Watcher watches one file.
type Watcher struct {
	path     string
	debounce time.Duration
	fn       Func

	runs   atomic.Int64
	errors atomic.Int64
}

// New returns a Watcher for path. A non-positive debounce uses DefaultDebounce.
func New(path string, debounce time.Duration, fn Func) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		fn:       fn,
	}
}

// Runs returns how many times the action has run.
func (w *Watcher) Runs() int64 { return w.runs.Load() }

// Errors returns how many runs of the action failed.
func (w *Watcher) Errors() int64 { return w.errors.Load() }

// Run blocks until ctx is done, running the action after every debounced
// change of the file. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			slog.Warn("failed to close file watcher", "error", err)
		}
	}()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	slog.Info("watching for changes", "path", w.path, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("watcher stopped", "path", w.path)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("file event", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("file watcher error", "path", w.path, "error", err)

		case <-timer.C:
			w.runs.Add(1)
			if err := w.fn(ctx); err != nil {
				w.errors.Add(1)
				slog.Error("action failed after change", "path", w.path, "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
