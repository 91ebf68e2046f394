package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestSessionKeysSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Issuer: "gladiator-test", SigningKeyFile: filepath.Join(dir, "keys", "session.key")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	signer, _, err := InitSessionKeys(cfg, logger)
	require.NoError(t, err)
	require.FileExists(t, cfg.SigningKeyFile)

	now := time.Now()
	token, err := signer.Sign(jwtx.NewSessionClaims(
		"01J0000000000000000000000", "01J0000000000000000000001", "user", []string{"pwd"},
		cfg.Issuer, time.Hour, now,
	))
	require.NoError(t, err)

	restarted, verifier, err := InitSessionKeys(cfg, logger)
	require.NoError(t, err)
	require.Equal(t, signer.KID(), restarted.KID())

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01J0000000000000000000001", claims.SID)
}

func TestPasswordHasherUsesPersistedPepper(t *testing.T) {
	cfg := Config{PepperFile: filepath.Join(t.TempDir(), "pepper")}

	first, err := InitPasswordHasher(cfg)
	require.NoError(t, err)
	hash, err := first.Hash("correct horse battery")
	require.NoError(t, err)

	second, err := InitPasswordHasher(cfg)
	require.NoError(t, err)
	require.NoError(t, second.Verify("correct horse battery", hash))
}
