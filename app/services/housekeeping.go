package services

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// SessionMaintainer is the session store housekeeping needs.
type SessionMaintainer interface {
	Count() (int, error)
	CollectGarbage() (int, error)
}

// HousekeepingService periodically reclaims space from expired sessions.
type HousekeepingService struct {
	Store    SessionMaintainer
	Logger   *slog.Logger
	Interval time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 10 minutes.
func NewHousekeepingService(store SessionMaintainer, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until the worker has finished any in-progress pass. It is a
// no-op if the worker was never started, and safe to call more than once.
func (s *HousekeepingService) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single housekeeping pass.
func (s *HousekeepingService) RunOnce() {
	live, err := s.Store.Count()
	if err != nil {
		s.Logger.Error("failed to count sessions", "error", err)
	}

	runs, err := s.Store.CollectGarbage()
	if err != nil {
		s.Logger.Error("session store garbage collection failed", "error", err)
		return
	}

	s.Logger.Info("housekeeping completed", "live_sessions", live, "gc_runs", runs)
}
