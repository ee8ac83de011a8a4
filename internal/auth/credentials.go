package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only consumes the first 72 bytes of input; longer passwords are
// rejected outright so two distinct long passwords can never verify as equal.
const maxPasswordBytes = 72

// ErrPasswordTooLong indicates the plaintext exceeds bcrypt's input ceiling.
var ErrPasswordTooLong = errors.New("auth: password exceeds 72 bytes")

// Credentials hashes and verifies passwords.
type Credentials struct {
	// Cost overrides the bcrypt cost factor. Zero selects bcrypt.DefaultCost;
	// tests may lower it to bcrypt.MinCost.
	Cost int
}

// NewCredentials returns a credential service at the default bcrypt cost.
func NewCredentials() *Credentials {
	return &Credentials{Cost: bcrypt.DefaultCost}
}

// Hash produces a salted bcrypt hash of the plaintext. Hashing the same input
// twice yields different strings.
func (c *Credentials) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext matches the stored hash. Malformed
// hashes report false rather than an error, so callers cannot distinguish a
// bad hash from a wrong password.
func (c *Credentials) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
