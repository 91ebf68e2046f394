package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	backupCodeCount = 10                   // Number of backup codes to generate
	backupCodeBytes = cryptox.TokenSize128 // 128-bit entropy for backup codes
)

var (
	ErrInvalidTOTPCode   = errors.New("invalid TOTP code")
	ErrMFANotEnabled     = errors.New("MFA not enabled for this user")
	ErrMFAAlreadyEnabled = errors.New("MFA already enabled for this user")
	ErrMFANotEnrolled    = errors.New("MFA not enrolled")
)

var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type MFAService struct {
	Store  store.Store
	Issuer string // shown in authenticator apps
	Clock  Clock
}

// EnrollTOTP generates a TOTP secret for the user. MFA stays off until a
// code is verified.
func (s *MFAService) EnrollTOTP(ctx context.Context, userID string) (domain.MFAEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to load user: %w", err)
	}
	if user.MFAEnabled() {
		return domain.MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      totpOpts.Period,
		Digits:      totpOpts.Digits,
		Algorithm:   totpOpts.Algorithm,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.Store.Users().UpdateMFASecret(ctx, userID, key.Secret(), s.Clock.Now()); err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to store MFA secret: %w", err)
	}

	return domain.MFAEnrollment{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: user.Email,
	}, nil
}

// VerifyTOTP checks the first code after enrollment, enables MFA and returns
// fresh backup codes.
func (s *MFAService) VerifyTOTP(ctx context.Context, userID, code string) ([]string, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.MFASecret == nil || *user.MFASecret == "" {
		return nil, ErrMFANotEnrolled
	}
	if user.MFAEnabledAt != nil {
		return nil, ErrMFAAlreadyEnabled
	}
	if !s.validate(code, *user.MFASecret) {
		return nil, ErrInvalidTOTPCode
	}

	codes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := storeBackupCodes(ctx, tx, userID, codes); err != nil {
			return err
		}
		if err := tx.Users().EnableMFA(ctx, userID, s.Clock.Now()); err != nil {
			return fmt.Errorf("failed to enable MFA: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// RegenerateBackupCodes replaces all backup codes after a valid TOTP code.
func (s *MFAService) RegenerateBackupCodes(ctx context.Context, userID, totpCode string) ([]string, error) {
	if err := s.verifyEnabled(ctx, userID, totpCode); err != nil {
		return nil, err
	}

	codes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete old backup codes: %w", err)
		}
		return storeBackupCodes(ctx, tx, userID, codes)
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// RemoveMFA disables MFA after a valid TOTP code.
func (s *MFAService) RemoveMFA(ctx context.Context, userID, totpCode string) error {
	if err := s.verifyEnabled(ctx, userID, totpCode); err != nil {
		return err
	}
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete backup codes: %w", err)
		}
		if err := tx.Users().DisableMFA(ctx, userID, s.Clock.Now()); err != nil {
			return fmt.Errorf("failed to disable MFA: %w", err)
		}
		return nil
	})
}

func (s *MFAService) verifyEnabled(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.MFAEnabled() {
		return ErrMFANotEnabled
	}
	if !s.validate(code, *user.MFASecret) {
		return ErrInvalidTOTPCode
	}
	return nil
}

func (s *MFAService) validate(code, secret string) bool {
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), secret, s.Clock.Now(), totpOpts)
	return err == nil && ok
}

func generateBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := range backupCodeCount {
		code, err := cryptox.GenerateToken(backupCodeBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to generate backup code: %w", err)
		}
		codes[i] = code
	}
	return codes, nil
}

func storeBackupCodes(ctx context.Context, tx store.Tx, userID string, codes []string) error {
	for _, code := range codes {
		if err := tx.BackupCodes().CreateBackupCode(ctx, userID, cryptox.FingerprintToken(code)); err != nil {
			return fmt.Errorf("failed to store backup code: %w", err)
		}
	}
	return nil
}
