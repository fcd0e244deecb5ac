// Package auth implements the coarse shared-secret gate. A single
// configured secret is compared against the token query parameter; when no
// secret is configured the gate is open.
package auth

import (
	"crypto/subtle"
	"os"

	"github.com/wangshuai-123/read-aloud/config"
)

// SecretProvider yields the configured shared secret. The second return is
// false when no secret is configured and auth is disabled.
type SecretProvider interface {
	Secret() (string, bool)
}

// Static is a SecretProvider holding a secret resolved once at startup.
type Static string

func (s Static) Secret() (string, bool) {
	return string(s), s != ""
}

// Resolve picks the shared secret with environment taking precedence over
// the configuration binding. Called once at startup; the result is
// immutable for the process lifetime.
func Resolve(cfg *config.Config) SecretProvider {
	if env := os.Getenv("TOKEN"); env != "" {
		return Static(env)
	}
	return Static(cfg.Auth.Token)
}

// Authorize reports whether supplied passes the gate. Comparison is
// constant time.
func Authorize(p SecretProvider, supplied string) bool {
	secret, ok := p.Secret()
	if !ok {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(supplied)) == 1
}
