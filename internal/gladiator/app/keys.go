package app

import (
	"fmt"
	"log/slog"

	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/gladiatorrx/platform/pkg/jwtx"
)

// InitSessionKeys loads the Ed25519 session signing key, generating and
// persisting one on first start so sessions survive restarts.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.Signer, *jwtx.Verifier, error) {
	pem, err := cryptox.LoadOrCreateFile(cfg.SigningKeyFile, cryptox.GenerateEd25519Key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session signing key: %w", err)
	}

	signer, err := jwtx.NewSigner(pem)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse session signing key: %w", err)
	}

	logger.Info("session signing key loaded",
		"kid", signer.KID(),
		"path", cfg.SigningKeyFile,
		"issuer", cfg.Issuer,
	)
	return signer, jwtx.NewVerifier(cfg.Issuer, signer), nil
}

// InitPasswordHasher loads the pepper mixed into every password hash.
func InitPasswordHasher(cfg Config) (*cryptox.PasswordHasher, error) {
	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	return cryptox.NewPasswordHasher(pepper), nil
}
