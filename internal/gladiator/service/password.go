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
	"github.com/gladiatorrx/platform/pkg/slogx"
)

type PasswordResetService struct {
	Store    store.Store
	Notifier Notifier
	Hasher   *cryptox.PasswordHasher
	TTL      time.Duration
	Clock    Clock
}

func (s *PasswordResetService) ttl() time.Duration {
	if s.TTL <= 0 {
		return domain.PasswordResetTTL
	}
	return s.TTL
}

// Forgot emails a reset link when the address belongs to an account. Unknown
// addresses succeed silently so the endpoint does not reveal which emails
// are registered.
func (s *PasswordResetService) Forgot(ctx context.Context, rawEmail string) error {
	log := slogx.FromContext(ctx)
	now := s.Clock.Now()

	email, err := domain.NormalizeEmail(rawEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	tok, err := cryptox.NewOpaqueToken()
	if err != nil {
		return err
	}
	expiresAt := now.Add(s.ttl())

	err = SendThenPersist(ctx,
		func(ctx context.Context) error {
			return s.Notifier.SendPasswordReset(ctx, user.Email, tok.Raw, expiresAt)
		},
		func(ctx context.Context) error {
			return s.Store.Users().SetResetToken(ctx, user.ID, tok.Hash, expiresAt, now)
		},
		nil,
	)
	if err != nil {
		log.Error("failed to issue password reset", slog.String("user_id", user.ID), slogx.Err(err))
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues(kindPasswordReset).Inc()
	log.Info("password reset issued", slog.String("user_id", user.ID), slog.Time("expires_at", expiresAt))
	return nil
}

func (s *PasswordResetService) Verify(ctx context.Context, rawToken string) (domain.TokenVerdict, error) {
	if strings.TrimSpace(rawToken) == "" {
		observeVerdict(kindPasswordReset, domain.VerdictNotFound)
		return domain.VerdictNotFound, nil
	}
	pr, err := s.Store.Users().GetResetByTokenHash(ctx, cryptox.FingerprintToken(rawToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			observeVerdict(kindPasswordReset, domain.VerdictNotFound)
			return domain.VerdictNotFound, nil
		}
		return "", fmt.Errorf("lookup reset token: %w", err)
	}
	v := pr.State().Verdict(s.Clock.Now())
	observeVerdict(kindPasswordReset, v)
	return v, nil
}

// Reset consumes the token, stores the new password hash and revokes every
// session of the user in one transaction.
func (s *PasswordResetService) Reset(ctx context.Context, rawToken, newPassword string) error {
	log := slogx.FromContext(ctx)
	now := s.Clock.Now()

	if strings.TrimSpace(rawToken) == "" {
		return ErrTokenNotFound
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	tokenHash := cryptox.FingerprintToken(rawToken)

	var userID string
	var revoked int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		pr, err := tx.Users().ConsumeResetToken(ctx, tokenHash, now)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			current, lerr := tx.Users().GetResetByTokenHash(ctx, tokenHash)
			if lerr != nil {
				observeVerdict(kindPasswordReset, domain.VerdictNotFound)
				return ErrTokenNotFound
			}
			v := current.State().Verdict(now)
			observeVerdict(kindPasswordReset, v)
			return verdictError(v)
		}
		userID = pr.UserID

		if err := tx.Users().UpdatePasswordHash(ctx, pr.UserID, hash, now); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		revoked, err = tx.Sessions().RevokeUserSessions(ctx, pr.UserID, now)
		if err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	observeVerdict(kindPasswordReset, domain.VerdictValid)
	log.Info("password reset completed",
		slog.String("user_id", userID),
		slog.Int64("sessions_revoked", revoked),
	)
	return nil
}
