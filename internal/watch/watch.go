package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dshills/fermicfg/internal/resolve"
)

// ResolveFunc produces a fresh resolution of the watched documents.
type ResolveFunc func() (*resolve.Resolution, error)

// Result is delivered after every resolution attempt.
type Result struct {
	Resolution *resolve.Resolution
	Err        error
	// Trigger is the file whose change caused the attempt, empty for the
	// initial resolution.
	Trigger string
}

// Watcher re-runs a ResolveFunc whenever one of its files changes.
type Watcher struct {
	files    []string
	debounce time.Duration
	resolve  ResolveFunc
	log      *zap.Logger
}

// New creates a Watcher for files. A nil logger discards output.
func New(files []string, debounce time.Duration, fn ResolveFunc, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{files: files, debounce: debounce, resolve: fn, log: logger}
}

// Run delivers an initial Result and then one per debounced change until ctx
// is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, out chan<- Result) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	targets := make(map[string]bool, len(w.files))
	dirs := make(map[string]bool)
	for _, f := range w.files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", f, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
		w.log.Debug("watching directory", zap.String("path", d))
	}

	if !w.emit(ctx, out, "") {
		return nil
	}

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		trigger string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			w.log.Debug("configuration changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			trigger = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			if !w.emit(ctx, out, trigger) {
				return nil
			}
		}
	}
}

// emit resolves and delivers the result. It reports false if ctx ended
// before the result was accepted.
func (w *Watcher) emit(ctx context.Context, out chan<- Result, trigger string) bool {
	res, err := w.resolve()
	if err != nil {
		w.log.Warn("resolution failed", zap.String("trigger", trigger), zap.Error(err))
	} else {
		w.log.Info("configuration resolved", zap.String("trigger", trigger), zap.Strings("components", res.Names()))
	}
	select {
	case out <- Result{Resolution: res, Err: err, Trigger: trigger}:
		return true
	case <-ctx.Done():
		return false
	}
}
