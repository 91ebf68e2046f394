package domain

import "time"

// Token lifetimes.
const (
	InvitationTTL    = 7 * 24 * time.Hour
	OnboardingTTL    = 24 * time.Hour
	PasswordResetTTL = time.Hour
)

// TokenVerdict is the outcome of looking up a single-use token.
type TokenVerdict string

const (
	VerdictNotFound    TokenVerdict = "NOT_FOUND"
	VerdictExpired     TokenVerdict = "EXPIRED"
	VerdictAlreadyUsed TokenVerdict = "ALREADY_USED"
	VerdictValid       TokenVerdict = "VALID"
)

// TokenState is the part of a token-bearing record that decides its verdict.
type TokenState struct {
	Withdrawn bool // revoked invitation, rejected or re-issued onboarding token
	Consumed  bool
	Expired   bool // terminal EXPIRED status set by housekeeping
	ExpiresAt time.Time
}

// Verdict classifies the token at now. A consumed token stays ALREADY_USED
// after its expiry passes; any unconsumed token at or past expiry is EXPIRED.
func (s TokenState) Verdict(now time.Time) TokenVerdict {
	switch {
	case s.Withdrawn:
		return VerdictNotFound
	case s.Consumed:
		return VerdictAlreadyUsed
	case s.Expired, !now.Before(s.ExpiresAt):
		return VerdictExpired
	default:
		return VerdictValid
	}
}
