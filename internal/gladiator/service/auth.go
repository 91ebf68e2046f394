package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/gladiatorrx/platform/pkg/idx"
	"github.com/gladiatorrx/platform/pkg/jwtx"
	"github.com/gladiatorrx/platform/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMFARequired        = errors.New("a TOTP or backup code is required")
	ErrSessionInvalid     = errors.New("session is invalid or has ended")
)

// AuthService logs users in with a password (plus a second factor when
// enrolled) and authenticates session tokens on every request.
type AuthService struct {
	Store      store.Store
	Hasher     *cryptox.PasswordHasher
	Signer     *jwtx.Signer
	Verifier   *jwtx.Verifier
	Issuer     string
	SessionTTL time.Duration
	Clock      Clock

	dummyOnce sync.Once
	dummyHash string
}

type LoginInput struct {
	Email      string
	Password   string
	TOTPCode   string
	BackupCode string
	UserAgent  string
	IP         string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
	Session   domain.Session
}

type Profile struct {
	User          domain.User
	Organizations []domain.UserOrganization
}

var _ httpx.Authenticator = (*AuthService)(nil)

func (s *AuthService) ttl() time.Duration {
	if s.SessionTTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.SessionTTL
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	log := slogx.FromContext(ctx)
	now := s.Clock.Now()

	// 1. Look up the user, spending the same hashing time when absent
	email, err := domain.NormalizeEmail(in.Email)
	if err != nil || in.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = s.Hasher.Verify(in.Password, s.dummy())
			log.Info("login failed", slog.String("reason", "unknown_email"))
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	// 2. Verify the password
	if err := s.Hasher.Verify(in.Password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login failed", slog.String("reason", "bad_password"), slog.String("user_id", user.ID))
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("verify password: %w", err)
	}

	// 3. Second factor
	amr := []string{"pwd"}
	if user.MFAEnabled() {
		switch {
		case in.TOTPCode != "":
			ok, err := totp.ValidateCustom(strings.TrimSpace(in.TOTPCode), *user.MFASecret, now, totpOpts)
			if err != nil || !ok {
				return LoginResult{}, ErrInvalidTOTPCode
			}
			amr = append(amr, "otp")
		case in.BackupCode != "":
			ok, err := s.Store.BackupCodes().UseBackupCode(ctx, user.ID, cryptox.FingerprintToken(strings.TrimSpace(in.BackupCode)))
			if err != nil {
				return LoginResult{}, fmt.Errorf("use backup code: %w", err)
			}
			if !ok {
				return LoginResult{}, ErrInvalidTOTPCode
			}
			amr = append(amr, "otp")
		default:
			return LoginResult{}, ErrMFARequired
		}
	}

	// 4. Open a session and sign the token
	sess := domain.Session{
		ID:        idx.NewAt(now).String(),
		UserID:    user.ID,
		UserAgent: truncate(in.UserAgent, 256),
		IP:        in.IP,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}
	if err := s.Store.Users().TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Warn("failed to record last login", slogx.Err(err))
	}

	claims := jwtx.NewSessionClaims(user.ID, sess.ID, string(user.PlatformRole), amr, s.Issuer, s.ttl(), now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign session token: %w", err)
	}

	log.Info("login succeeded", slog.String("user_id", user.ID), slog.String("session_id", sess.ID))
	return LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, User: user, Session: sess}, nil
}

// Authenticate verifies a session token and checks that its session row is
// still live, so logout and password resets take effect immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (httpx.Principal, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return httpx.Principal{}, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}

	sess, err := s.Store.Sessions().GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.Principal{}, ErrSessionInvalid
		}
		return httpx.Principal{}, err
	}
	if sess.UserID != claims.Subject || !sess.ActiveAt(s.Clock.Now()) {
		return httpx.Principal{}, ErrSessionInvalid
	}

	return httpx.Principal{
		UserID:       claims.Subject,
		SessionID:    claims.SID,
		PlatformRole: claims.PlatformRole,
		AMR:          claims.AMR,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.Store.Sessions().RevokeSession(ctx, sessionID, s.Clock.Now()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	slogx.FromContext(ctx).Info("logout", slog.String("session_id", sessionID))
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (Profile, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	orgs, err := s.Store.Organizations().ListUserOrganizations(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{User: user, Organizations: orgs}, nil
}

// SetPlatformRole grants or revokes platform admin. Existing sessions of the
// user are revoked so the new role is picked up at the next login.
func (s *AuthService) SetPlatformRole(ctx context.Context, rawEmail string, role domain.PlatformRole) error {
	email, err := domain.NormalizeEmail(rawEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	now := s.Clock.Now()
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetPlatformRole(ctx, email, role, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		user, err := tx.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		_, err = tx.Sessions().RevokeUserSessions(ctx, user.ID, now)
		return err
	})
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("gladiator-timing-equalizer")
	})
	return s.dummyHash
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
