package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the policy file for changes and reloads the rule table.
// It watches the parent directory rather than the file itself so that
// editor-style atomic replaces (write temp, rename over) are still seen,
// and debounces rapid event bursts into a single reload.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *debouncer

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// DefaultDebounceInterval is the quiet period required before a reload fires.
const DefaultDebounceInterval = 100 * time.Millisecond

// NewWatcher creates a watcher for one policy file.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default().With("component", "janitor.policy.watcher")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		watcher:  watcher,
		logger:   logger,
		debounce: newDebouncer(DefaultDebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until the context is cancelled or Stop is called, invoking
// onReload with the freshly loaded table after each change to the policy
// file. Load failures are logged and the previous table stays in effect.
func (w *Watcher) Watch(ctx context.Context, onReload func(*Table)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch policy directory %q: %w", dir, err)
	}

	w.logger.Info("policy watcher started",
		"path", w.path,
		"debounce_ms", DefaultDebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("policy watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("policy watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("policy file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			w.debounce.trigger(func() {
				table, err := LoadFile(w.path)
				if err != nil {
					w.logger.Error("policy reload failed, keeping previous rules",
						"path", w.path,
						"error", err,
					)
					return
				}

				w.logger.Info("policy rules reloaded",
					"path", w.path,
					"rules", table.Len(),
				)
				onReload(table)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("policy watcher error", "error", err)
			// Keep watching despite errors
		}
	}
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	return nil
}

// shouldProcessEvent filters directory events down to writes/creates/renames
// of the watched policy file.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}

// debouncer collapses rapid event bursts into a single callback after a
// quiet period.
type debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
