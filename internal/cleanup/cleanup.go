// Package cleanup removes events whose end time has passed.
package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vibetrip/vibetrip/internal/store"
)

// Scheduler periodically deletes past events from the store.
type Scheduler struct {
	store    store.Store
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that deletes past events at the specified
// interval.
func NewScheduler(s store.Store, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:    s,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins periodic cleanup. It runs an initial pass immediately, then
// on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current pass (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	s.cleanupOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupOnce(ctx)
		}
	}
}

func (s *Scheduler) cleanupOnce(ctx context.Context) {
	n, err := s.store.DeletePastEvents(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("cleanup failed", "err", err)
		return
	}
	if n > 0 {
		s.logger.Info("cleanup completed", "deleted", n)
	}
}
