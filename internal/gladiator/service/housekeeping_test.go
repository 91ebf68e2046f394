package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.seedUser(t, "owner@acme.test", "ownerpassword")
	org := h.seedOrg(t, owner, "Acme")

	_, err := h.invitations().Issue(ctx, issueInput(org, owner, domain.OrgRoleOwner, "late@acme.test", "member"))
	require.NoError(t, err)
	require.NoError(t, h.passwords().Forgot(ctx, "owner@acme.test"))
	require.NoError(t, h.store.Sessions().CreateSession(ctx, domain.Session{
		ID: "old", UserID: owner.ID, ExpiresAt: t0.Add(time.Hour), CreatedAt: t0,
	}))

	hk := NewHousekeepingService(h.store, slog.New(slog.DiscardHandler), time.Minute, 24*time.Hour)
	hk.Clock = h.clock()

	rep := hk.Cleanup(ctx)
	require.Zero(t, rep.ExpiredInvitations)
	require.Zero(t, rep.DeletedSessions)
	require.Zero(t, rep.ClearedResetTokens)

	h.advance(domain.InvitationTTL)
	rep = hk.Cleanup(ctx)
	require.EqualValues(t, 1, rep.ExpiredInvitations)
	require.EqualValues(t, 1, rep.DeletedSessions)
	require.EqualValues(t, 1, rep.ClearedResetTokens)
}

func TestHousekeepingKeepsConsumedResetTokens(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := h.passwords()
	h.seedUser(t, "used@acme.test", "oldpassword1")

	require.NoError(t, svc.Forgot(ctx, "used@acme.test"))
	raw := h.mail.lastToken(t, "password_reset")
	require.NoError(t, svc.Reset(ctx, raw, "newpassword1"))

	hk := NewHousekeepingService(h.store, slog.New(slog.DiscardHandler), time.Minute, 24*time.Hour)
	hk.Clock = h.clock()

	h.advance(2 * domain.PasswordResetTTL)
	rep := hk.Cleanup(ctx)
	require.Zero(t, rep.ClearedResetTokens)

	v, err := svc.Verify(ctx, raw)
	require.NoError(t, err)
	require.Equal(t, domain.VerdictAlreadyUsed, v)
	require.ErrorIs(t, svc.Reset(ctx, raw, "newpassword2"), ErrTokenUsed)
}

func TestHousekeepingRunStopsWithContext(t *testing.T) {
	h := newHarness(t)
	hk := NewHousekeepingService(h.store, slog.New(slog.DiscardHandler), time.Millisecond, 0)
	require.Equal(t, 7*24*time.Hour, hk.SessionRetention)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hk.Run(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("housekeeping did not stop")
	}
}
