// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"postboard/config"
	"postboard/internal/domain/service"
	"postboard/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultCost       = 12
	minConfiguredCost = 10
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher builds the hasher from configuration. Costs below 10 are refused.
func NewBcryptHasher(cfg *config.Config) (service.PasswordHasher, error) {
	cost := defaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}
	if cost < minConfiguredCost || cost > bcrypt.MaxCost {
		return nil, errors.Errorf("bcrypt cost must be between %d and %d, got %d", minConfiguredCost, bcrypt.MaxCost, cost)
	}

	return &bcryptHasher{cost: cost}, nil
}

// NewBcryptHasherWithCost accepts any cost bcrypt supports. Intended for tests.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// Passwords longer than 72 bytes are rejected instead of being truncated.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", service.ErrPasswordEmpty
	}
	if len(password) > service.MaxPasswordBytes {
		return "", service.ErrPasswordTooLong
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt generate")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	if len(password) > service.MaxPasswordBytes {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
