package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

// DefaultHeader is the request header carrying the shared secret.
const DefaultHeader = "X-API-Key"

// Standard errors returned by Gate.Check.
var (
	// ErrNotConfigured means the gate has no secret and rejects everything.
	ErrNotConfigured = errors.New("auth: no shared secret configured")

	// ErrMissingCredential means the request carried no credential.
	ErrMissingCredential = errors.New("auth: missing credential")

	// ErrInvalidCredential means the credential did not match.
	ErrInvalidCredential = errors.New("auth: invalid credential")
)

// Gate compares supplied credentials against one configured secret.
// It holds no mutable state and is safe for concurrent use.
type Gate struct {
	secret []byte
}

// NewGate returns a Gate for secret. An empty secret yields a gate that
// rejects every credential.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Configured reports whether a secret is set.
func (g *Gate) Configured() bool {
	return g != nil && len(g.secret) > 0
}

// Authorize reports whether supplied exactly matches the configured secret.
func (g *Gate) Authorize(supplied string) bool {
	return g.Check(supplied) == nil
}

// Check is Authorize with the reason for a rejection.
func (g *Gate) Check(supplied string) error {
	if !g.Configured() {
		return ErrNotConfigured
	}
	if supplied == "" {
		return ErrMissingCredential
	}
	if subtle.ConstantTimeCompare([]byte(supplied), g.secret) != 1 {
		return ErrInvalidCredential
	}
	return nil
}

// GenerateSecret returns a random hex secret of n bytes of entropy.
func GenerateSecret(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("auth: secret length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
