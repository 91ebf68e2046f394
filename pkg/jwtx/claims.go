// Package jwtx signs and verifies the EdDSA session tokens handed out at login.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a login session stays valid.
const DefaultSessionTTL = 12 * time.Hour

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrMissingSID  = errors.New("jwtx: missing session id")
)

// Claims are the session-token claims. The session id is checked against the
// sessions table on every request, so revoking the row logs the user out even
// though the JWT itself is still unexpired.
type Claims struct {
	jwt.RegisteredClaims

	// SID references sessions.id.
	SID string `json:"sid"`

	// PlatformRole is "admin" for operators who review the waitlist.
	PlatformRole string `json:"prl,omitempty"`

	// AMR lists the authentication methods used: "pwd", "otp".
	AMR []string `json:"amr,omitempty"`
}

// NewSessionClaims builds claims for a freshly created session.
func NewSessionClaims(subject, sid, platformRole string, amr []string, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        sid,
		},
		SID:          sid,
		PlatformRole: platformRole,
		AMR:          amr,
	}
}

// ValidateAt checks issuer and the exp/nbf window against now.
func (c *Claims) ValidateAt(issuer string, now time.Time) error {
	if issuer != "" && c.Issuer != issuer {
		return ErrIssuer
	}
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	if c.SID == "" {
		return ErrMissingSID
	}
	return nil
}
