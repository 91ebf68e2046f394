package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/metrics"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
)

// HousekeepingService periodically expires stale invitations, purges old
// sessions and clears dead password-reset tokens.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	// SessionRetention is how long expired or revoked sessions are kept.
	SessionRetention time.Duration
	Clock            Clock
}

// NewHousekeepingService defaults a non-positive interval to one hour and a
// non-positive retention to seven days.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &HousekeepingService{
		Store:            st,
		Logger:           logger,
		Interval:         interval,
		SessionRetention: retention,
	}
}

// Run cleans up immediately and then on every tick until ctx is done.
func (s *HousekeepingService) Run(ctx context.Context) error {
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
	defer s.Logger.Info("housekeeping service stopped")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(ctx)

	for {
		select {
		case <-ticker.C:
			s.Cleanup(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// HousekeepingReport counts what one cleanup pass touched.
type HousekeepingReport struct {
	ExpiredInvitations int64
	DeletedSessions    int64
	ClearedResetTokens int64
}

// Cleanup runs one pass. Each step is independent; a failure in one does
// not stop the others.
func (s *HousekeepingService) Cleanup(ctx context.Context) HousekeepingReport {
	now := s.Clock.Now()
	var rep HousekeepingReport
	var err error

	if rep.ExpiredInvitations, err = s.Store.Invitations().ExpireStaleInvitations(ctx, now); err != nil {
		s.Logger.Error("failed to expire stale invitations", "error", err)
	}
	metrics.HousekeepingRemovedTotal.WithLabelValues("invitations").Add(float64(rep.ExpiredInvitations))

	if rep.DeletedSessions, err = s.Store.Sessions().DeleteStaleSessions(ctx, now.Add(-s.SessionRetention)); err != nil {
		s.Logger.Error("failed to delete stale sessions", "error", err)
	}
	metrics.HousekeepingRemovedTotal.WithLabelValues("sessions").Add(float64(rep.DeletedSessions))

	if rep.ClearedResetTokens, err = s.Store.Users().ClearStaleResetTokens(ctx, now); err != nil {
		s.Logger.Error("failed to clear stale reset tokens", "error", err)
	}
	metrics.HousekeepingRemovedTotal.WithLabelValues("reset_tokens").Add(float64(rep.ClearedResetTokens))

	s.Logger.Debug("housekeeping cleanup completed",
		"expired_invitations", rep.ExpiredInvitations,
		"deleted_sessions", rep.DeletedSessions,
		"cleared_reset_tokens", rep.ClearedResetTokens,
	)
	return rep
}
