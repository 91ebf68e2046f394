package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/internal/gladiator/store/drivers/sqlite"
	"github.com/gladiatorrx/platform/pkg/idx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "argon2id$dummy",
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedOrg(t *testing.T, s store.Store, owner domain.User, slug string) domain.Organization {
	t.Helper()
	ctx := context.Background()
	o := domain.Organization{ID: idx.New().String(), Name: slug, Slug: slug, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.Organizations().CreateOrganization(ctx, o))
	require.NoError(t, s.Memberships().CreateMembership(ctx, domain.Membership{
		OrganizationID: o.ID, UserID: owner.ID, Role: domain.OrgRoleOwner, CreatedAt: t0,
	}))
	return o
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())

	v, dirty, err := s.MigrationVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, "alice@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("round trip times", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.True(t, got.CreatedAt.Equal(t0))
		require.Equal(t, domain.PlatformRoleUser, got.PlatformRole)
		require.False(t, got.MFAEnabled())
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("platform role", func(t *testing.T) {
		require.NoError(t, s.Users().SetPlatformRole(ctx, u.Email, domain.PlatformRoleAdmin, t0))
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, domain.PlatformRoleAdmin, got.PlatformRole)

		err = s.Users().SetPlatformRole(ctx, "ghost@example.com", domain.PlatformRoleAdmin, t0)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestResetTokenConsumedOnce(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := seedUser(t, s, "bob@example.com")

	require.NoError(t, s.Users().SetResetToken(ctx, u.ID, "hash-1", t0.Add(time.Hour), t0))

	pr, err := s.Users().ConsumeResetToken(ctx, "hash-1", t0.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, u.ID, pr.UserID)
	require.NotNil(t, pr.UsedAt)

	_, err = s.Users().ConsumeResetToken(ctx, "hash-1", t0.Add(2*time.Minute))
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Users().GetResetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.Equal(t, domain.VerdictAlreadyUsed, got.State().Verdict(t0.Add(2*time.Minute)))

	t.Run("expired token does not qualify", func(t *testing.T) {
		require.NoError(t, s.Users().SetResetToken(ctx, u.ID, "hash-2", t0.Add(time.Hour), t0))
		_, err := s.Users().ConsumeResetToken(ctx, "hash-2", t0.Add(time.Hour))
		require.ErrorIs(t, err, store.ErrNotFound)

		// a newer token replaces the old one
		_, err = s.Users().GetResetByTokenHash(ctx, "hash-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestClearStaleResetTokens(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	used := seedUser(t, s, "used@example.com")
	idle := seedUser(t, s, "idle@example.com")

	require.NoError(t, s.Users().SetResetToken(ctx, used.ID, "hash-used", t0.Add(time.Hour), t0))
	require.NoError(t, s.Users().SetResetToken(ctx, idle.ID, "hash-idle", t0.Add(time.Hour), t0))
	_, err := s.Users().ConsumeResetToken(ctx, "hash-used", t0.Add(time.Minute))
	require.NoError(t, err)

	n, err := s.Users().ClearStaleResetTokens(ctx, t0.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = s.Users().GetResetByTokenHash(ctx, "hash-idle")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Users().GetResetByTokenHash(ctx, "hash-used")
	require.NoError(t, err)
	require.Equal(t, domain.VerdictAlreadyUsed, got.State().Verdict(t0.Add(2*time.Hour)))
}

func TestInvitations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	owner := seedUser(t, s, "owner@example.com")
	org := seedOrg(t, s, owner, "acme")

	newInvite := func(email, hash string) domain.Invitation {
		return domain.Invitation{
			ID:             idx.New().String(),
			OrganizationID: org.ID,
			Email:          email,
			Role:           domain.OrgRoleMember,
			InvitedByID:    owner.ID,
			TokenHash:      hash,
			ExpiresAt:      t0.Add(domain.InvitationTTL),
			CreatedAt:      t0,
			UpdatedAt:      t0,
		}
	}

	inv := newInvite("carol@example.com", "tok-1")
	require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))

	t.Run("one pending invitation per email", func(t *testing.T) {
		err := s.Invitations().CreateInvitation(ctx, newInvite("carol@example.com", "tok-2"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("counts pending", func(t *testing.T) {
		n, err := s.Invitations().CountPending(ctx, org.ID, t0)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("consume once", func(t *testing.T) {
		got, err := s.Invitations().ConsumeInvitation(ctx, "tok-1", t0.Add(time.Hour))
		require.NoError(t, err)
		require.Equal(t, domain.InvitationAccepted, got.Status)
		require.NotNil(t, got.AcceptedAt)

		_, err = s.Invitations().ConsumeInvitation(ctx, "tok-1", t0.Add(2*time.Hour))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("accepted invitation frees the slot", func(t *testing.T) {
		require.NoError(t, s.Invitations().CreateInvitation(ctx, newInvite("carol@example.com", "tok-3")))
	})

	t.Run("revoke and expire", func(t *testing.T) {
		dave := newInvite("dave@example.com", "tok-4")
		require.NoError(t, s.Invitations().CreateInvitation(ctx, dave))

		_, err := s.Invitations().GetInvitation(ctx, "other-org", dave.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.Invitations().RevokeInvitation(ctx, org.ID, dave.ID, t0))
		err = s.Invitations().RevokeInvitation(ctx, org.ID, dave.ID, t0)
		require.ErrorIs(t, err, store.ErrNotFound)

		byID, err := s.Invitations().GetInvitation(ctx, org.ID, dave.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationRevoked, byID.Status)

		got, err := s.Invitations().GetInvitationByTokenHash(ctx, "tok-4")
		require.NoError(t, err)
		require.Equal(t, domain.VerdictNotFound, got.State().Verdict(t0))

		n, err := s.Invitations().ExpireStaleInvitations(ctx, t0.Add(domain.InvitationTTL))
		require.NoError(t, err)
		require.Equal(t, int64(1), n) // tok-3

		got, err = s.Invitations().GetInvitationByTokenHash(ctx, "tok-3")
		require.NoError(t, err)
		require.Equal(t, domain.InvitationExpired, got.Status)
	})

	t.Run("expiry boundary", func(t *testing.T) {
		erin := newInvite("erin@example.com", "tok-5")
		require.NoError(t, s.Invitations().CreateInvitation(ctx, erin))
		_, err := s.Invitations().ConsumeInvitation(ctx, "tok-5", erin.ExpiresAt)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Invitations().ConsumeInvitation(ctx, "tok-5", erin.ExpiresAt.Add(-time.Millisecond))
		require.NoError(t, err)
	})
}

func TestWaitlistLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	admin := seedUser(t, s, "admin@example.com")

	e := domain.WaitlistEntry{
		ID: idx.New().String(), Email: "frank@example.com", Name: "Frank", Company: "Frankco",
		CreatedAt: t0, UpdatedAt: t0,
	}
	require.NoError(t, s.Waitlist().CreateEntry(ctx, e))
	require.ErrorIs(t, s.Waitlist().CreateEntry(ctx, domain.WaitlistEntry{
		ID: idx.New().String(), Email: e.Email, CreatedAt: t0, UpdatedAt: t0,
	}), store.ErrAlreadyExists)

	// reissue before approval is rejected
	err := s.Waitlist().ReissueToken(ctx, e.ID, "w-0", t0.Add(time.Hour), t0)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Waitlist().Approve(ctx, e.ID, admin.ID, "w-1", t0.Add(domain.OnboardingTTL), t0))
	require.ErrorIs(t, s.Waitlist().Approve(ctx, e.ID, admin.ID, "w-x", t0.Add(domain.OnboardingTTL), t0), store.ErrNotFound)

	pending, err := s.Waitlist().ListEntries(ctx, domain.WaitlistPending, 10, 0)
	require.NoError(t, err)
	require.Empty(t, pending)

	all, err := s.Waitlist().ListEntries(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, s.Waitlist().ReissueToken(ctx, e.ID, "w-2", t0.Add(domain.OnboardingTTL), t0))
	_, err = s.Waitlist().GetEntryByTokenHash(ctx, "w-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Waitlist().ConsumeToken(ctx, "w-2", t0.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, got.TokenUsedAt)

	_, err = s.Waitlist().ConsumeToken(ctx, "w-2", t0.Add(time.Hour))
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, domain.VerdictAlreadyUsed, got.State().Verdict(t0.Add(48*time.Hour)))
}

func TestInvoiceUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	owner := seedUser(t, s, "owner@example.com")
	org := seedOrg(t, s, owner, "acme")

	paidAt := t0.Add(time.Minute)
	inv := domain.Invoice{
		ID:                idx.New().String(),
		OrganizationID:    org.ID,
		ProviderInvoiceID: "in_123",
		Currency:          "usd",
		AmountDue:         decimal.RequireFromString("49.00"),
		AmountPaid:        decimal.RequireFromString("49.00"),
		Status:            domain.InvoicePaid,
		PaidAt:            &paidAt,
		CreatedAt:         t0,
		UpdatedAt:         t0,
	}
	for i := 0; i < 3; i++ {
		again := inv
		again.ID = idx.New().String() // a replay mints a fresh local ID
		again.UpdatedAt = t0.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Invoices().UpsertInvoice(ctx, again))
	}

	n, err := s.Invoices().CountInvoices(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	got, err := s.Invoices().GetInvoiceByProviderID(ctx, "in_123")
	require.NoError(t, err)
	require.True(t, got.AmountPaid.Equal(decimal.RequireFromString("49")))
	require.Equal(t, domain.InvoicePaid, got.Status)
	require.NotNil(t, got.PaidAt)
	require.True(t, got.PaidAt.Equal(paidAt))
}

func TestWebhookEventsAndTx(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.WebhookEvents().RecordEvent(ctx, "evt_1", "invoice.paid", t0))
	require.ErrorIs(t, s.WebhookEvents().RecordEvent(ctx, "evt_1", "invoice.paid", t0), store.ErrAlreadyExists)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.WebhookEvents().RecordEvent(ctx, "evt_2", "invoice.paid", t0))
		return boom
	})
	require.ErrorIs(t, err, boom)

	seen, err := s.WebhookEvents().HasEvent(ctx, "evt_2")
	require.NoError(t, err)
	require.False(t, seen, "rolled back")
}

func TestBreachSearchSummary(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	owner := seedUser(t, s, "owner@example.com")
	org := seedOrg(t, s, owner, "acme")

	record := func(q string, n int, at time.Time) {
		breaches := make([]domain.Breach, n)
		for i := range breaches {
			breaches[i] = domain.Breach{Name: "B" + string(rune('a'+i))}
		}
		require.NoError(t, s.BreachSearches().CreateSearch(ctx, domain.BreachSearch{
			ID: idx.NewAt(at).String(), OrganizationID: org.ID, UserID: owner.ID,
			Query: q, QueryType: domain.BreachQueryEmail, BreachCount: n, Breaches: breaches, CreatedAt: at,
		}))
	}
	record("a@example.com", 2, t0)
	record("a@example.com", 2, t0.Add(time.Minute))
	record("b@example.com", 0, t0.Add(2*time.Minute))

	sum, err := s.BreachSearches().Summarize(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, 3, sum.TotalSearches)
	require.Equal(t, 1, sum.ExposedQueries)
	require.Equal(t, 4, sum.TotalBreachHits)
	require.NotNil(t, sum.LastSearchAt)
	require.True(t, sum.LastSearchAt.Equal(t0.Add(2*time.Minute)))

	list, err := s.BreachSearches().ListSearches(ctx, org.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b@example.com", list[0].Query)
	require.Len(t, list[1].Breaches, 2)
}
