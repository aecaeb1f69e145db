// Package watcher monitors the blob store's root directory for PDFs
// dropped outside its partition structure and triggers a migration sweep
// on a debounced timer, complementing the one-shot `docintel migrate`
// command.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agentic-docs/docintel/internal/metrics"
)

// MigrateFunc performs a legacy-file migration sweep and returns the
// number of files moved.
type MigrateFunc func() (int, error)

// Watcher monitors a directory and triggers a migration sweep whenever a
// new file appears in it.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
	Stats() Stats
	Errors() <-chan error
}

// Stats contains statistics about watcher activity.
type Stats struct {
	EventsReceived    int64
	MigrationsRun     int64
	MigrationsFailed  int64
	LastMigrationSize int
	IsRunning         bool
}

// Option configures the watcher.
type Option func(*watcher)

// WithDebounceWindow sets the delay between the last observed filesystem
// event and the migration sweep it triggers.
func WithDebounceWindow(d time.Duration) Option {
	return func(w *watcher) { w.debounceWindow = d }
}

// WithLogger sets the logger used by the watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(w *watcher) { w.logger = logger }
}

type watcher struct {
	root        string
	migrate     MigrateFunc
	fsWatcher   *fsnotify.Watcher
	logger      *slog.Logger
	debounceWindow time.Duration

	mu      sync.Mutex
	stats   Stats
	timer   *time.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopOnce sync.Once
	errChan chan error
}

// New creates a Watcher over root, calling migrate after a debounced
// burst of filesystem activity settles.
func New(root string, migrate MigrateFunc, opts ...Option) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher; %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve watch root; %w", err)
	}

	if err := fsw.Add(absRoot); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s; %w", absRoot, err)
	}

	w := &watcher{
		root:           absRoot,
		migrate:        migrate,
		fsWatcher:      fsw,
		logger:         slog.Default(),
		debounceWindow: 5 * time.Second,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
		errChan:        make(chan error, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start begins processing filesystem events.
func (w *watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	w.stats.IsRunning = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and releases the underlying fsnotify handle.
func (w *watcher) Stop() error {
	var stopErr error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.stats.IsRunning = false
		w.mu.Unlock()
		stopErr = w.fsWatcher.Close()
	})
	return stopErr
}

// Stats returns current watcher statistics.
func (w *watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Errors returns a channel for fatal watcher errors.
func (w *watcher) Errors() <-chan error {
	return w.errChan
}

func (w *watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("fsnotify error", "error", err)
			select {
			case w.errChan <- err:
			default:
			}
		}
	}
}

func (w *watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !isPDF(event.Name) {
		return
	}
	if !(event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) {
		return
	}
	// Only react to files dropped directly in the watched root, not the
	// partition subdirectories a migration sweep just populated.
	if filepath.Dir(event.Name) != w.root {
		return
	}

	metrics.RecordWatcherEvent("legacy_pdf")

	w.mu.Lock()
	w.stats.EventsReceived++
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceWindow, func() {
		w.runMigration(ctx)
	})
	w.mu.Unlock()
}

func (w *watcher) runMigration(ctx context.Context) {
	moved, err := w.migrate()

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.stats.MigrationsFailed++
		w.logger.Error("debounced migration sweep failed", "error", err)
		return
	}
	w.stats.MigrationsRun++
	w.stats.LastMigrationSize = moved
	if moved > 0 {
		w.logger.Info("debounced migration sweep moved legacy files", "count", moved)
	}
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
