package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/metrics"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/gladiatorrx/platform/pkg/idx"
	"github.com/gladiatorrx/platform/pkg/slogx"
)

var (
	ErrWaitlistConflict = errors.New("email is already on the waitlist")
	ErrWaitlistState    = errors.New("waitlist entry is not in a state that allows this action")
	ErrEmailTaken       = errors.New("an account with this email already exists")
)

const maxWaitlistField = 1000

// OnboardingService runs the waitlist: public signup, admin review and the
// single-use onboarding token that turns an approved entry into a user and
// organization.
type OnboardingService struct {
	Store    store.Store
	Notifier Notifier
	Hasher   *cryptox.PasswordHasher
	TTL      time.Duration
	Clock    Clock
}

type JoinWaitlistInput struct {
	Email   string
	Name    string
	Company string
	Reason  string
}

type OnboardingPreview struct {
	Verdict domain.TokenVerdict
	Email   string
	Name    string
	Company string
}

type CompleteOnboardingInput struct {
	Token            string
	Name             string
	Password         string
	OrganizationName string
}

type CompleteOnboardingResult struct {
	User         domain.User
	Organization domain.Organization
}

func (s *OnboardingService) ttl() time.Duration {
	if s.TTL <= 0 {
		return domain.OnboardingTTL
	}
	return s.TTL
}

func (s *OnboardingService) Join(ctx context.Context, in JoinWaitlistInput) (domain.WaitlistEntry, error) {
	log := slogx.FromContext(ctx)
	now := s.Clock.Now()

	email, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return domain.WaitlistEntry{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	for _, f := range []string{in.Name, in.Company, in.Reason} {
		if len(f) > maxWaitlistField {
			return domain.WaitlistEntry{}, fmt.Errorf("%w: field too long", ErrInvalidRequest)
		}
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.WaitlistEntry{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.WaitlistEntry{}, fmt.Errorf("lookup user: %w", err)
	}

	entry := domain.WaitlistEntry{
		ID:        idx.NewAt(now).String(),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Company:   strings.TrimSpace(in.Company),
		Reason:    strings.TrimSpace(in.Reason),
		Status:    domain.WaitlistPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Waitlist().CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.WaitlistEntry{}, ErrWaitlistConflict
		}
		return domain.WaitlistEntry{}, fmt.Errorf("create waitlist entry: %w", err)
	}

	// Acknowledgement is best-effort; the entry is already recorded.
	if err := s.Notifier.SendWaitlistReceived(ctx, email, entry.Name); err != nil {
		log.Warn("waitlist acknowledgement not delivered", slog.String("entry_id", entry.ID), slogx.Err(err))
	}

	log.Info("waitlist entry created", slog.String("entry_id", entry.ID))
	return entry, nil
}

func (s *OnboardingService) List(ctx context.Context, status string, limit, offset int) ([]domain.WaitlistEntry, error) {
	st := domain.WaitlistStatus(strings.ToUpper(strings.TrimSpace(status)))
	switch st {
	case "", domain.WaitlistPending, domain.WaitlistApproved, domain.WaitlistRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.Waitlist().ListEntries(ctx, st, limit, offset)
}

// Approve moves a pending entry to APPROVED and emails an onboarding token.
// The email is sent before the approval is stored.
func (s *OnboardingService) Approve(ctx context.Context, reviewerID, entryID string) (domain.WaitlistEntry, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return domain.WaitlistEntry{}, err
	}
	if entry.Status != domain.WaitlistPending {
		return domain.WaitlistEntry{}, ErrWaitlistState
	}
	return s.issue(ctx, entry, func(ctx context.Context, hash string, expiresAt, now time.Time) error {
		return s.Store.Waitlist().Approve(ctx, entry.ID, reviewerID, hash, expiresAt, now)
	})
}

// Resend issues a fresh onboarding token for an approved, unused entry. The
// previous token stops verifying once the new one is stored.
func (s *OnboardingService) Resend(ctx context.Context, entryID string) (domain.WaitlistEntry, error) {
	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return domain.WaitlistEntry{}, err
	}
	if entry.Status != domain.WaitlistApproved || entry.TokenUsedAt != nil {
		return domain.WaitlistEntry{}, ErrWaitlistState
	}
	return s.issue(ctx, entry, func(ctx context.Context, hash string, expiresAt, now time.Time) error {
		return s.Store.Waitlist().ReissueToken(ctx, entry.ID, hash, expiresAt, now)
	})
}

func (s *OnboardingService) issue(
	ctx context.Context,
	entry domain.WaitlistEntry,
	persist func(ctx context.Context, hash string, expiresAt, now time.Time) error,
) (domain.WaitlistEntry, error) {
	log := slogx.FromContext(ctx)
	now := s.Clock.Now()

	tok, err := cryptox.NewOpaqueToken()
	if err != nil {
		return domain.WaitlistEntry{}, err
	}
	expiresAt := now.Add(s.ttl())

	err = SendThenPersist(ctx,
		func(ctx context.Context) error {
			return s.Notifier.SendOnboarding(ctx, entry.Email, entry.Name, tok.Raw, expiresAt)
		},
		func(ctx context.Context) error {
			return persist(ctx, tok.Hash, expiresAt, now)
		},
		nil, // an unstored onboarding token simply verifies as NOT_FOUND
	)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.WaitlistEntry{}, ErrWaitlistState
		}
		log.Error("failed to issue onboarding token", slog.String("entry_id", entry.ID), slogx.Err(err))
		return domain.WaitlistEntry{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues(kindOnboarding).Inc()
	log.Info("onboarding token issued", slog.String("entry_id", entry.ID), slog.Time("expires_at", expiresAt))
	return s.loadEntry(ctx, entry.ID)
}

// Reject is terminal. The notice is best-effort.
func (s *OnboardingService) Reject(ctx context.Context, reviewerID, entryID string) (domain.WaitlistEntry, error) {
	log := slogx.FromContext(ctx)

	entry, err := s.loadEntry(ctx, entryID)
	if err != nil {
		return domain.WaitlistEntry{}, err
	}
	if err := s.Store.Waitlist().Reject(ctx, entry.ID, reviewerID, s.Clock.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.WaitlistEntry{}, ErrWaitlistState
		}
		return domain.WaitlistEntry{}, fmt.Errorf("reject waitlist entry: %w", err)
	}
	if err := s.Notifier.SendWaitlistRejected(ctx, entry.Email, entry.Name); err != nil {
		log.Warn("rejection notice not delivered", slog.String("entry_id", entry.ID), slogx.Err(err))
	}
	log.Info("waitlist entry rejected", slog.String("entry_id", entry.ID))
	return s.loadEntry(ctx, entry.ID)
}

func (s *OnboardingService) Verify(ctx context.Context, rawToken string) (OnboardingPreview, error) {
	now := s.Clock.Now()
	if strings.TrimSpace(rawToken) == "" {
		observeVerdict(kindOnboarding, domain.VerdictNotFound)
		return OnboardingPreview{Verdict: domain.VerdictNotFound}, nil
	}

	entry, err := s.Store.Waitlist().GetEntryByTokenHash(ctx, cryptox.FingerprintToken(rawToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			observeVerdict(kindOnboarding, domain.VerdictNotFound)
			return OnboardingPreview{Verdict: domain.VerdictNotFound}, nil
		}
		return OnboardingPreview{}, fmt.Errorf("lookup onboarding token: %w", err)
	}

	verdict := entry.State().Verdict(now)
	observeVerdict(kindOnboarding, verdict)
	if verdict == domain.VerdictNotFound {
		return OnboardingPreview{Verdict: verdict}, nil
	}
	return OnboardingPreview{Verdict: verdict, Email: entry.Email, Name: entry.Name, Company: entry.Company}, nil
}

// Complete exchanges an onboarding token for a user, an organization and an
// OWNER membership in one transaction, then sends a best-effort welcome.
func (s *OnboardingService) Complete(ctx context.Context, in CompleteOnboardingInput) (CompleteOnboardingResult, error) {
	log := slogx.FromContext(ctx)
	now := s.Clock.Now()

	// 1. Validate password before touching the token
	if strings.TrimSpace(in.Token) == "" {
		return CompleteOnboardingResult{}, ErrTokenNotFound
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return CompleteOnboardingResult{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	passwordHash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return CompleteOnboardingResult{}, fmt.Errorf("hash password: %w", err)
	}
	hash := cryptox.FingerprintToken(in.Token)

	// 2. Consume and provision
	var res CompleteOnboardingResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		entry, err := tx.Waitlist().ConsumeToken(ctx, hash, now)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			current, lerr := tx.Waitlist().GetEntryByTokenHash(ctx, hash)
			if lerr != nil {
				observeVerdict(kindOnboarding, domain.VerdictNotFound)
				return ErrTokenNotFound
			}
			verdict := current.State().Verdict(now)
			observeVerdict(kindOnboarding, verdict)
			return verdictError(verdict)
		}

		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = entry.Name
		}
		user := domain.User{
			ID:            idx.NewAt(now).String(),
			Email:         entry.Email,
			Name:          name,
			PasswordHash:  passwordHash,
			PlatformRole:  domain.PlatformRoleUser,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}

		orgName := strings.TrimSpace(in.OrganizationName)
		if orgName == "" {
			orgName = entry.Company
		}
		if orgName == "" {
			orgName = name + "'s organization"
		}
		org, err := createOrganization(ctx, tx, orgName, user.ID, now)
		if err != nil {
			return err
		}

		res = CompleteOnboardingResult{User: user, Organization: org}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) && !errors.Is(err, ErrTokenExpired) &&
			!errors.Is(err, ErrTokenUsed) && !errors.Is(err, ErrEmailTaken) {
			log.Error("failed to complete onboarding", slogx.Err(err))
		}
		return CompleteOnboardingResult{}, err
	}
	observeVerdict(kindOnboarding, domain.VerdictValid)

	if err := s.Notifier.SendWelcome(ctx, res.User.Email, res.User.Name, res.Organization.Name); err != nil {
		log.Warn("welcome email not delivered", slog.String("user_id", res.User.ID), slogx.Err(err))
	}

	log.Info("onboarding completed",
		slog.String("user_id", res.User.ID),
		slog.String("org_id", res.Organization.ID),
	)
	return res, nil
}

func (s *OnboardingService) loadEntry(ctx context.Context, id string) (domain.WaitlistEntry, error) {
	entry, err := s.Store.Waitlist().GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.WaitlistEntry{}, ErrNotFound
		}
		return domain.WaitlistEntry{}, fmt.Errorf("load waitlist entry: %w", err)
	}
	return entry, nil
}
