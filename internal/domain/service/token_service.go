package service

import (
	"errors"
	"time"
)

// ErrInvalidToken is the single outcome of every failed token validation.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and validates signed, time-limited bearer tokens.
type TokenService interface {
	// Issue creates a token for subject that expires ttl from now.
	Issue(subject string, ttl time.Duration) (token string, expiresAt time.Time, err error)

	// Validate returns the token's subject, or ErrInvalidToken.
	Validate(token string) (subject string, err error)

	// DefaultTTL returns the configured access token lifetime.
	DefaultTTL() time.Duration
}
