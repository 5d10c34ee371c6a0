package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Sweeper periodically evicts idle sessions from a Registry
type Sweeper struct {
	registry *Registry
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSweeper creates a sweeper running every interval
func NewSweeper(registry *Registry, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		registry: registry,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins the sweep loop
func (s *Sweeper) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.run(ctx)
	return nil
}

// Stop stops the sweeper and waits for the loop to exit
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh
}

// RunOnce performs a single sweep (useful for testing)
func (s *Sweeper) RunOnce() int {
	removed := s.registry.Sweep(s.now())
	if removed > 0 {
		s.logger.Info("evicted idle listing sessions", "count", removed, "remaining", s.registry.Len())
	}
	return removed
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}
