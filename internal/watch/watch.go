// Package watch triggers pipeline runs when reports land in the source
// directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"ledgerconv/internal/archive"
	"ledgerconv/internal/logging"
	"ledgerconv/internal/reconcile"
)

// RunFunc drains the source directory once.
type RunFunc func(ctx context.Context) error

// Watcher debounces source file events into calls to a RunFunc.
type Watcher struct {
	dir      string
	debounce time.Duration
	run      RunFunc
	logger   *slog.Logger
}

// New returns a Watcher for dir.
func New(dir string, debounce time.Duration, run RunFunc, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{dir: dir, debounce: debounce, run: run, logger: logger}
}

// Watch runs once immediately and then after every settled burst of source
// file events. It returns nil when ctx is cancelled and the run error when a
// run aborts on a reconciliation mismatch. Other run errors are logged.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching source directory",
		logging.String("dir", w.dir),
		logging.Duration("debounce", w.debounce),
	)

	if stop, err := w.trigger(ctx); stop {
		return err
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("source event",
				logging.String(logging.FieldSourceFile, filepath.Base(event.Name)),
				logging.String("op", event.Op.String()),
			)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some file events may have been missed"),
				logging.String(logging.FieldErrorHint, "run ledgerconv run to drain the source directory"),
			)

		case <-timer.C:
			if stop, err := w.trigger(ctx); stop {
				return err
			}
		}
	}
}

func (w *Watcher) trigger(ctx context.Context) (bool, error) {
	err := w.run(ctx)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, context.Canceled):
		return true, nil
	case reconcile.IsMismatch(err):
		return true, err
	default:
		w.logger.Error("run failed; waiting for the next file event", logging.Error(err))
		return false, nil
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	return archive.IsSource(filepath.Base(event.Name))
}
