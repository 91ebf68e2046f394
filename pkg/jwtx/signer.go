package jwtx

import (
	"crypto/ed25519"
	"errors"

	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Signer signs session claims with a single Ed25519 key.
type Signer struct {
	kid string
	key ed25519.PrivateKey
}

// NewSigner loads a PKCS8 PEM encoded Ed25519 key. The kid is derived from
// the public key so restarts with the same key file keep issuing the same kid.
func NewSigner(pemKey []byte) (*Signer, error) {
	key, err := cryptox.ParseEd25519PrivateKey(pemKey)
	if err != nil {
		return nil, err
	}
	return NewSignerFromKey(key)
}

// NewSignerFromKey wraps an already parsed key.
func NewSignerFromKey(key ed25519.PrivateKey) (*Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 private key size")
	}
	pub := key.Public().(ed25519.PublicKey)
	return &Signer{kid: cryptox.KeyID(pub), key: key}, nil
}

func (s *Signer) KID() string { return s.kid }

// PublicKey returns the verification half of the signing key.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

// Sign returns the compact JWS for claims.
func (s *Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
