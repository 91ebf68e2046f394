package cryptox_test

import (
	"strings"
	"testing"

	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_PHCFormat(t *testing.T) {
	h := cryptox.NewPasswordHasher("pepper")

	hash, err := h.Hash("longenough1")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Equal(t, "m=19456,t=2,p=1", parts[3])
	require.NotEmpty(t, parts[4])
	require.NotEmpty(t, parts[5])
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h := cryptox.NewPasswordHasher("pepper")

	a, err := h.Hash("samepassword")
	require.NoError(t, err)
	b, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, h.Verify("samepassword", a))
	require.NoError(t, h.Verify("samepassword", b))
}

func TestVerifyPassword(t *testing.T) {
	h := cryptox.NewPasswordHasher("pepper")
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"correct", "correct-password", nil},
		{"case difference", "Correct-Password", cryptox.ErrPasswordMismatch},
		{"trailing space", "correct-password ", cryptox.ErrPasswordMismatch},
		{"empty", "", cryptox.ErrPasswordMismatch},
		{"very long", strings.Repeat("x", 10000), cryptox.ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Verify(tt.password, hash)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifyPassword_PepperMatters(t *testing.T) {
	hash, err := cryptox.NewPasswordHasher("one").Hash("longenough1")
	require.NoError(t, err)

	err = cryptox.NewPasswordHasher("two").Verify("longenough1", hash)
	require.ErrorIs(t, err, cryptox.ErrPasswordMismatch)
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	h := cryptox.NewPasswordHasher("pepper")

	for _, bad := range []string{
		"",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456",
		"$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	} {
		require.ErrorIs(t, h.Verify("pw", bad), cryptox.ErrInvalidHash, bad)
	}
}

func TestVerifyPassword_UsesStoredParameters(t *testing.T) {
	weak := &cryptox.PasswordHasher{
		Params: cryptox.PasswordParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16},
		Pepper: "pepper",
	}
	hash, err := weak.Hash("longenough1")
	require.NoError(t, err)

	// A hasher on the current defaults still verifies it.
	require.NoError(t, cryptox.NewPasswordHasher("pepper").Verify("longenough1", hash))
}
