// Package ttl runs a periodic sweep that deletes stored documents past
// their configured retention age.
package ttl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/agentic-docs/docintel/internal/blobstore"
	"github.com/agentic-docs/docintel/internal/metrics"
)

// Sweeper periodically removes documents older than MaxAge from the blob
// store. A MaxAge of zero disables sweeping entirely.
type Sweeper struct {
	store    *blobstore.Store
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger sets the logger used by the sweeper.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = logger }
}

// New creates a Sweeper. If interval or maxAge is zero, the sweeper is
// inert: Start returns immediately without scheduling anything.
func New(store *blobstore.Store, interval, maxAge time.Duration, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
		logger:   slog.Default(),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the periodic sweep loop. It is a no-op if maxAge is zero
// or negative, per the "0 = disabled" contract on TTLConfig.MaxAgeHours.
func (s *Sweeper) Start(ctx context.Context) {
	if s.maxAge <= 0 || s.interval <= 0 {
		close(s.doneChan)
		return
	}

	go func() {
		defer close(s.doneChan)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop signals the sweep loop to exit and waits for it to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	<-s.doneChan
}

// sweep runs one sweep cycle: every partition is listed, and any entry
// older than maxAge is deleted from the blob store.
func (s *Sweeper) sweep() {
	entries, err := s.store.List("")
	if err != nil {
		s.logger.Error("ttl sweep: failed to list stored documents", "error", err)
		return
	}

	cutoff := time.Now().Add(-s.maxAge)
	deleted := 0

	for _, e := range entries {
		if e.ModTime.After(cutoff) {
			continue
		}
		removed, err := s.store.Delete(e.DocID, e.Partition)
		if err != nil {
			s.logger.Warn("ttl sweep: failed to delete expired document", "doc_id", e.DocID, "error", err)
			continue
		}
		if removed {
			deleted++
			s.logger.Info("ttl sweep: deleted expired document", "doc_id", e.DocID, "partition", e.Partition, "age", time.Since(e.ModTime))
		}
	}

	metrics.RecordTTLSweep(deleted)
}
