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
	ErrInvitationConflict = errors.New("a pending invitation already exists for this email")
	ErrAlreadyMember      = errors.New("user is already a member of this organization")
	ErrInvitationMismatch = errors.New("invitation was issued to a different email")
	ErrInvitationClosed   = errors.New("invitation is no longer pending")
)

type InvitationService struct {
	Store    store.Store
	Notifier Notifier
	Hasher   *cryptox.PasswordHasher
	TTL      time.Duration
	Clock    Clock
}

type IssueInvitationInput struct {
	OrganizationID string
	InviterID      string
	InviterRole    domain.OrgRole
	Email          string
	Role           string
}

type InvitationPreview struct {
	Verdict          domain.TokenVerdict
	Invitation       domain.Invitation
	OrganizationName string
}

type AcceptInvitationInput struct {
	Token    string
	Name     string
	Password string
	// SessionUserID is set when the caller is already signed in.
	SessionUserID string
}

type AcceptInvitationResult struct {
	Invitation  domain.Invitation
	User        domain.User
	UserCreated bool
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL <= 0 {
		return domain.InvitationTTL
	}
	return s.TTL
}

// Issue creates an invitation and emails its token. The email goes out
// first; if storing the invitation then fails the recipient is sent a
// withdrawal notice.
func (s *InvitationService) Issue(ctx context.Context, in IssueInvitationInput) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)
	now := s.Clock.Now()

	// 1. Validate input
	email, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	role, err := domain.ParseOrgRole(in.Role)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// 2. Only owners may hand out the owner role
	if !in.InviterRole.AtLeast(domain.OrgRoleAdmin) {
		return domain.Invitation{}, ErrForbidden
	}
	if role == domain.OrgRoleOwner && in.InviterRole != domain.OrgRoleOwner {
		log.Warn("non-owner attempted to invite an owner",
			slog.String("org_id", in.OrganizationID),
			slog.String("inviter_id", in.InviterID),
		)
		return domain.Invitation{}, ErrForbidden
	}

	org, err := s.Store.Organizations().GetOrganization(ctx, in.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		return domain.Invitation{}, fmt.Errorf("load organization: %w", err)
	}
	inviter, err := s.Store.Users().GetUserByID(ctx, in.InviterID)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("load inviter: %w", err)
	}

	// 3. Reject members
	member, err := s.Store.Memberships().IsMemberByEmail(ctx, org.ID, email)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("check membership: %w", err)
	}
	if member {
		return domain.Invitation{}, ErrAlreadyMember
	}

	// 4. A live pending invitation blocks a new one; a lapsed one is retired
	pending, err := s.Store.Invitations().GetPendingInvitation(ctx, org.ID, email)
	switch {
	case err == nil && pending.LiveAt(now):
		return domain.Invitation{}, ErrInvitationConflict
	case err == nil:
		n, err := s.Store.Invitations().ExpireStaleInvitations(ctx, now)
		if err != nil {
			return domain.Invitation{}, fmt.Errorf("expire stale invitations: %w", err)
		}
		log.Debug("expired stale invitations", slog.Int64("count", n))
	case !errors.Is(err, store.ErrNotFound):
		return domain.Invitation{}, fmt.Errorf("check pending invitation: %w", err)
	}

	// 5. Mint the token
	tok, err := cryptox.NewOpaqueToken()
	if err != nil {
		return domain.Invitation{}, err
	}
	inv := domain.Invitation{
		ID:             idx.NewAt(now).String(),
		OrganizationID: org.ID,
		Email:          email,
		Role:           role,
		InvitedByID:    inviter.ID,
		TokenHash:      tok.Hash,
		Status:         domain.InvitationPending,
		ExpiresAt:      now.Add(s.ttl()),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 6. Send, then persist
	inviterName := inviter.Name
	if inviterName == "" {
		inviterName = inviter.Email
	}
	err = SendThenPersist(ctx,
		func(ctx context.Context) error {
			return s.Notifier.SendInvitation(ctx, email, org.Name, inviterName, string(role), tok.Raw, inv.ExpiresAt)
		},
		func(ctx context.Context) error {
			return s.Store.Invitations().CreateInvitation(ctx, inv)
		},
		func(ctx context.Context) error {
			log.Warn("invitation emailed but not stored, sending withdrawal",
				slog.String("invitation_id", inv.ID))
			return s.Notifier.SendInvitationWithdrawn(ctx, email, org.Name)
		},
	)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Invitation{}, ErrInvitationConflict
		}
		log.Error("failed to issue invitation", slog.String("org_id", org.ID), slogx.Err(err))
		return domain.Invitation{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues(kindInvitation).Inc()
	log.Info("invitation issued",
		slog.String("invitation_id", inv.ID),
		slog.String("org_id", org.ID),
		slog.String("role", string(role)),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return inv, nil
}

// Verify classifies a raw invitation token without consuming it.
func (s *InvitationService) Verify(ctx context.Context, rawToken string) (InvitationPreview, error) {
	now := s.Clock.Now()
	if strings.TrimSpace(rawToken) == "" {
		observeVerdict(kindInvitation, domain.VerdictNotFound)
		return InvitationPreview{Verdict: domain.VerdictNotFound}, nil
	}

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(rawToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			observeVerdict(kindInvitation, domain.VerdictNotFound)
			return InvitationPreview{Verdict: domain.VerdictNotFound}, nil
		}
		return InvitationPreview{}, fmt.Errorf("lookup invitation: %w", err)
	}

	verdict := inv.State().Verdict(now)
	observeVerdict(kindInvitation, verdict)
	if verdict == domain.VerdictNotFound {
		return InvitationPreview{Verdict: verdict}, nil
	}

	preview := InvitationPreview{Verdict: verdict, Invitation: inv}
	if org, err := s.Store.Organizations().GetOrganization(ctx, inv.OrganizationID); err == nil {
		preview.OrganizationName = org.Name
	}
	return preview, nil
}

// Accept consumes an invitation. A caller without an account gets one using
// the supplied password; an existing account only gains the membership.
// Consumption, user creation and membership share one transaction.
func (s *InvitationService) Accept(ctx context.Context, in AcceptInvitationInput) (AcceptInvitationResult, error) {
	log := slogx.FromContext(ctx)
	now := s.Clock.Now()

	if strings.TrimSpace(in.Token) == "" {
		return AcceptInvitationResult{}, ErrTokenNotFound
	}
	hash := cryptox.FingerprintToken(in.Token)

	// 1. Peek to learn whether an account must be created, so the
	// password is hashed outside the transaction.
	peek, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			observeVerdict(kindInvitation, domain.VerdictNotFound)
			return AcceptInvitationResult{}, ErrTokenNotFound
		}
		return AcceptInvitationResult{}, fmt.Errorf("lookup invitation: %w", err)
	}
	if v := peek.State().Verdict(now); v != domain.VerdictValid {
		observeVerdict(kindInvitation, v)
		return AcceptInvitationResult{}, verdictError(v)
	}

	existing, err := s.Store.Users().GetUserByEmail(ctx, peek.Email)
	userExists := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return AcceptInvitationResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if in.SessionUserID != "" && (!userExists || existing.ID != in.SessionUserID) {
		return AcceptInvitationResult{}, ErrInvitationMismatch
	}

	var passwordHash string
	if !userExists {
		if err := domain.ValidatePassword(in.Password); err != nil {
			return AcceptInvitationResult{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if passwordHash, err = s.Hasher.Hash(in.Password); err != nil {
			return AcceptInvitationResult{}, fmt.Errorf("hash password: %w", err)
		}
	}

	// 2. Consume and provision atomically
	var res AcceptInvitationResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invitations().ConsumeInvitation(ctx, hash, now)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			current, lerr := tx.Invitations().GetInvitationByTokenHash(ctx, hash)
			if lerr != nil {
				return ErrTokenNotFound
			}
			verdict := current.State().Verdict(now)
			observeVerdict(kindInvitation, verdict)
			return verdictError(verdict)
		}
		res.Invitation = inv

		user, err := tx.Users().GetUserByEmail(ctx, inv.Email)
		switch {
		case err == nil:
		case errors.Is(err, store.ErrNotFound):
			if passwordHash == "" {
				// Account vanished between peek and consume.
				return ErrTokenNotFound
			}
			name := strings.TrimSpace(in.Name)
			if name == "" {
				name = strings.SplitN(inv.Email, "@", 2)[0]
			}
			user = domain.User{
				ID:            idx.NewAt(now).String(),
				Email:         inv.Email,
				Name:          name,
				PasswordHash:  passwordHash,
				PlatformRole:  domain.PlatformRoleUser,
				EmailVerified: true,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			res.UserCreated = true
		default:
			return fmt.Errorf("lookup user: %w", err)
		}
		res.User = user

		err = tx.Memberships().CreateMembership(ctx, domain.Membership{
			OrganizationID: inv.OrganizationID,
			UserID:         user.ID,
			Role:           inv.Role,
			CreatedAt:      now,
		})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("create membership: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) && !errors.Is(err, ErrTokenExpired) && !errors.Is(err, ErrTokenUsed) {
			log.Error("failed to accept invitation", slogx.Err(err))
		}
		return AcceptInvitationResult{}, err
	}

	observeVerdict(kindInvitation, domain.VerdictValid)
	log.Info("invitation accepted",
		slog.String("invitation_id", res.Invitation.ID),
		slog.String("org_id", res.Invitation.OrganizationID),
		slog.String("user_id", res.User.ID),
		slog.Bool("user_created", res.UserCreated),
	)
	return res, nil
}

func (s *InvitationService) List(ctx context.Context, orgID string) ([]domain.Invitation, error) {
	if _, err := s.Store.Invitations().ExpireStaleInvitations(ctx, s.Clock.Now()); err != nil {
		return nil, fmt.Errorf("expire stale invitations: %w", err)
	}
	return s.Store.Invitations().ListInvitations(ctx, orgID)
}

// Revoke withdraws a pending invitation. Its token then verifies as
// NOT_FOUND. Accepted, expired or revoked invitations yield
// ErrInvitationClosed.
func (s *InvitationService) Revoke(ctx context.Context, orgID, invitationID string) error {
	now := s.Clock.Now()
	inv, err := s.Store.Invitations().GetInvitation(ctx, orgID, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load invitation: %w", err)
	}
	if !inv.LiveAt(now) {
		return ErrInvitationClosed
	}

	err = s.Store.Invitations().RevokeInvitation(ctx, orgID, invitationID, now)
	if errors.Is(err, store.ErrNotFound) {
		// Accepted or expired between the read and the update.
		return ErrInvitationClosed
	}
	if err != nil {
		return fmt.Errorf("revoke invitation: %w", err)
	}
	slogx.FromContext(ctx).Info("invitation revoked",
		slog.String("org_id", orgID),
		slog.String("invitation_id", invitationID))
	return nil
}
