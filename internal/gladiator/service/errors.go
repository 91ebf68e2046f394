package service

import (
	"errors"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/metrics"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")

	// Token verdict errors. Verify endpoints return the verdict itself;
	// consuming operations fail with one of these.
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenUsed     = errors.New("token already used")

	ErrDeliveryFailed = errors.New("email delivery failed")
)

// verdictError maps a non-VALID verdict to its sentinel.
func verdictError(v domain.TokenVerdict) error {
	switch v {
	case domain.VerdictExpired:
		return ErrTokenExpired
	case domain.VerdictAlreadyUsed:
		return ErrTokenUsed
	case domain.VerdictValid:
		return nil
	default:
		return ErrTokenNotFound
	}
}

func observeVerdict(kind string, v domain.TokenVerdict) {
	metrics.TokenVerdictsTotal.WithLabelValues(kind, string(v)).Inc()
}

// Token kinds used as metric labels.
const (
	kindInvitation    = "invitation"
	kindOnboarding    = "onboarding"
	kindPasswordReset = "password_reset"
)
