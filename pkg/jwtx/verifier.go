package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates session tokens against a set of trusted Ed25519 keys.
type Verifier struct {
	issuer string
	now    func() time.Time

	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey
}

// NewVerifier trusts the given signers' public keys.
func NewVerifier(issuer string, signers ...*Signer) *Verifier {
	v := &Verifier{
		issuer: issuer,
		now:    time.Now,
		keys:   make(map[string]ed25519.PublicKey, len(signers)),
	}
	for _, s := range signers {
		v.Trust(s.KID(), s.PublicKey())
	}
	return v
}

// Trust adds a verification key. Previously used keys can be trusted to keep
// sessions alive across a key change.
func (v *Verifier) Trust(kid string, pub ed25519.PublicKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys[kid] = pub
}

// SetClock replaces the time source used for exp/nbf checks.
func (v *Verifier) SetClock(now func() time.Time) {
	if now != nil {
		v.now = now
	}
}

// Ready reports whether at least one key is trusted.
func (v *Verifier) Ready() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys) > 0
}

// Verify parses tokenStr, checks its signature and its claims.
func (v *Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		v.mu.RLock()
		pub, ok := v.keys[kid]
		v.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	if err != nil {
		if errors.Is(err, ErrUnknownKID) {
			return Claims{}, ErrUnknownKID
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := claims.ValidateAt(v.issuer, v.now().UTC()); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
