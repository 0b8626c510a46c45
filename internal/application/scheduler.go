package application

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshInterval is how often the scheduler fires between manual
// refreshes.
const DefaultRefreshInterval = 5 * time.Minute

// Scheduler drives a refresh action on a repeating timer. Ticks invoke the
// action asynchronously; a slow action may overlap the next tick, which is
// accepted because refresh is idempotent. The timer's lifetime is
// independent of any rendering.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	cancel   context.CancelFunc
}

func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Scheduler{interval: interval}
}

// Start arms the timer, replacing any timer already running.
func (s *Scheduler) Start(refresh func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				go refresh(ctx)
			}
		}
	}()
}

// Stop cancels the timer; stopping an idle scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
