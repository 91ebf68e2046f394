package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/gladiatorrx/platform/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "gladiatorrx-test"

func newSigner(t *testing.T) *jwtx.Signer {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	s, err := jwtx.NewSigner(pemKey)
	require.NoError(t, err)
	return s
}

func TestSignAndVerify(t *testing.T) {
	s := newSigner(t)
	v := jwtx.NewVerifier(testIssuer, s)
	require.True(t, v.Ready())

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims("user-1", "sess-1", "admin", []string{"pwd", "otp"}, testIssuer, time.Hour, now)

	tok, err := s.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(tok, "."), 3)

	got, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "sess-1", got.SID)
	require.Equal(t, "admin", got.PlatformRole)
	require.Equal(t, []string{"pwd", "otp"}, got.AMR)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := newSigner(t)
	v := jwtx.NewVerifier(testIssuer, s)

	past := time.Now().UTC().Add(-2 * time.Hour)
	tok, err := s.Sign(jwtx.NewSessionClaims("u", "sid", "", nil, testIssuer, time.Hour, past))
	require.NoError(t, err)

	_, err = v.Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	s := newSigner(t)
	v := jwtx.NewVerifier(testIssuer, s)

	tok, err := s.Sign(jwtx.NewSessionClaims("u", "sid", "", nil, "someone-else", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = v.Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyRejectsUntrustedKey(t *testing.T) {
	trusted := newSigner(t)
	rogue := newSigner(t)
	v := jwtx.NewVerifier(testIssuer, trusted)

	tok, err := rogue.Sign(jwtx.NewSessionClaims("u", "sid", "", nil, testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = v.Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrUnknownKID)

	v.Trust(rogue.KID(), rogue.PublicKey())
	_, err = v.Verify(tok)
	require.NoError(t, err)
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := newSigner(t)
	v := jwtx.NewVerifier(testIssuer, s)

	tok, err := s.Sign(jwtx.NewSessionClaims("u", "sid", "", nil, testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	other, err := s.Sign(jwtx.NewSessionClaims("admin", "sid", "admin", nil, testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)
	forged := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	_, err = v.Verify(forged)
	require.ErrorIs(t, err, jwtx.ErrMalformed)

	_, err = v.Verify("not-a-jwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestValidateAtRequiresSID(t *testing.T) {
	c := jwtx.NewSessionClaims("u", "", "", nil, testIssuer, time.Hour, time.Now().UTC())
	require.ErrorIs(t, c.ValidateAt(testIssuer, time.Now().UTC()), jwtx.ErrMissingSID)
}
