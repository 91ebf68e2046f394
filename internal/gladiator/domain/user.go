package domain

import "time"

type PlatformRole string

const (
	PlatformRoleUser  PlatformRole = "user"
	PlatformRoleAdmin PlatformRole = "admin"
)

type User struct {
	ID            string
	Email         string // lower-cased, unique
	Name          string
	PasswordHash  string // argon2id PHC
	PlatformRole  PlatformRole
	EmailVerified bool
	MFAEnabledAt  *time.Time
	MFASecret     *string // base32 TOTP secret
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u User) MFAEnabled() bool { return u.MFAEnabledAt != nil && u.MFASecret != nil }

// PasswordReset is the reset token state kept on the user row.
type PasswordReset struct {
	UserID    string
	Email     string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

func (r PasswordReset) State() TokenState {
	return TokenState{Consumed: r.UsedAt != nil, ExpiresAt: r.ExpiresAt}
}

// Session backs a signed session token. Revoking the row ends the session.
type Session struct {
	ID        string
	UserID    string
	UserAgent string
	IP        string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (s Session) ActiveAt(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

type MFAEnrollment struct {
	Secret  string // base32
	URL     string // otpauth:// URL for QR rendering
	Issuer  string
	Account string
}
