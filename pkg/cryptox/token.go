package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// Token sizes in bytes before encoding.
const (
	// TokenSize128 gives 22 base64url characters.
	TokenSize128 = 16
	// TokenSize256 gives 43 base64url characters. Every emailed link token uses it.
	TokenSize256 = 32
)

// GenerateToken returns size random bytes encoded as unpadded base64url.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns the SHA-256 of token as base64url. Only
// fingerprints are stored; the raw token lives in the email that carried it.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// OpaqueToken pairs the raw value handed to a recipient with the fingerprint
// persisted in its place.
type OpaqueToken struct {
	Raw  string
	Hash string
}

// NewOpaqueToken mints a 256-bit token and its fingerprint.
func NewOpaqueToken() (OpaqueToken, error) {
	raw, err := GenerateToken(TokenSize256)
	if err != nil {
		return OpaqueToken{}, err
	}
	return OpaqueToken{Raw: raw, Hash: FingerprintToken(raw)}, nil
}

// EqualFingerprint compares two fingerprints in constant time.
func EqualFingerprint(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
