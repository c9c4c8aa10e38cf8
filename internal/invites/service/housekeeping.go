package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store"
)

// HousekeepingService periodically purges long-expired invites so the
// table does not grow without bound. Expiry itself is always evaluated
// lazily at read time; this sweeper is retention only, and it keeps
// records around for a grace period after expiry so landlords can still
// see recent history.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a sweeper. Non-positive interval
// defaults to 1 hour; non-positive retention to 30 days.
func NewHousekeepingService(
	st store.Store,
	logger *slog.Logger,
	interval, retention time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut
// it down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started",
		"interval", s.Interval,
		"retention", s.Retention,
	)
}

// Stop shuts the worker down and waits for any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-s.Retention)

	deleted, err := s.Store.Invites().DeleteInvitesExpiredBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to purge expired invites", "error", err)
		return
	}
	if deleted > 0 {
		s.Logger.Info("purged expired invites", "deleted", deleted)
	}
}
