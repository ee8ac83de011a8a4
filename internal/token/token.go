// Package token issues signed, time-limited access tokens. Verification is
// deliberately out of scope; consumers bring their own.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL bounds token validity when the caller does not override it.
const DefaultTTL = 7 * 24 * time.Hour

// ErrMissingSecret indicates the signing secret was never configured. Issuance
// must fail loudly rather than sign with an empty key.
var ErrMissingSecret = errors.New("token: signing secret is not configured")

// Issuer mints HS256-signed tokens from caller-supplied claims.
type Issuer struct {
	secret []byte
	ttl    time.Duration

	// NowFunc allows tests to pin the clock. Defaults to time.Now.
	NowFunc func() time.Time
}

// NewIssuer constructs an issuer with the provided secret and default TTL.
// A zero ttl selects DefaultTTL.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl}, nil
}

// Issue signs the provided claims with the issuer's default TTL.
func (i *Issuer) Issue(claims map[string]any) (string, error) {
	return i.IssueWithTTL(claims, i.ttl)
}

// IssueWithTTL copies the caller's claims, injects an exp claim at now + ttl
// (UTC, Unix seconds) and returns the compact serialization. The input map is
// never mutated.
func (i *Issuer) IssueWithTTL(claims map[string]any, ttl time.Duration) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrMissingSecret
	}

	toEncode := make(jwt.MapClaims, len(claims)+1)
	for name, value := range claims {
		toEncode[name] = value
	}
	toEncode["exp"] = i.now().UTC().Add(ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, toEncode).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) now() time.Time {
	if i.NowFunc != nil {
		return i.NowFunc()
	}
	return time.Now()
}
