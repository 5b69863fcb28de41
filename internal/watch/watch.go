// Package watch keeps a vault's summary current by regenerating it when the
// bookmarks file changes and on a fixed interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gerunddev/vaultsummary/internal/generator"
	"github.com/gerunddev/vaultsummary/internal/logger"
)

// DefaultDebounce coalesces the burst of events a single save produces
const DefaultDebounce = 200 * time.Millisecond

// RunFunc receives the outcome of every run the watcher starts
type RunFunc func(result *generator.Result, err error)

// Watcher drives a generator from filesystem events and a ticker
type Watcher struct {
	gen      *generator.Generator
	log      *logger.Logger
	interval time.Duration
	debounce time.Duration
	onRun    RunFunc
}

// New creates a watcher. A zero interval disables periodic runs.
func New(gen *generator.Generator, log *logger.Logger, interval time.Duration) *Watcher {
	if log == nil {
		log = logger.Discard()
	}
	return &Watcher{
		gen:      gen,
		log:      log,
		interval: interval,
		debounce: DefaultDebounce,
	}
}

// SetDebounce sets how long the watcher waits for events to settle
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// OnRun registers a callback for run outcomes
func (w *Watcher) OnRun(fn RunFunc) {
	w.onRun = fn
}

// Run regenerates once at startup, then on every settled change of the
// bookmarks file and every interval, until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	target, watching := w.gen.BookmarksPath()
	if watching {
		target = filepath.Clean(target)
		// The directory is watched so replacements by rename are seen
		if err := fsw.Add(filepath.Dir(target)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
		}
	}

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	settle := time.NewTimer(w.debounce)
	settle.Stop()
	defer settle.Stop()

	w.log.Info("watching vault",
		"vault", w.gen.VaultDir(),
		"bookmarks", target,
		"interval", w.interval)

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopping")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op == fsnotify.Chmod {
				continue
			}
			w.log.WatchEvent(event.Name, event.Op.String())
			settle.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)

		case <-settle.C:
			w.run(ctx)

		case <-tick:
			w.run(ctx)
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	stale, err := w.gen.Stale()
	if err != nil {
		w.log.StateError("check", err)
	} else if !stale {
		w.log.Unchanged(w.gen.VaultDir())
		return
	}

	result, err := w.gen.Trigger(ctx)
	if errors.Is(err, generator.ErrBusy) {
		return
	}
	if w.onRun != nil {
		w.onRun(result, err)
	}
}
