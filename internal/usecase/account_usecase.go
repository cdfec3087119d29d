// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"
)

// TokenTypeBearer is the token_type reported with every issued token.
const TokenTypeBearer = "Bearer"

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,max=255,email"`
	Password string `validate:"required"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// --- Output DTOs ---

// UserSummary is the public view of an account.
type UserSummary struct {
	Username string
	Email    string
}

// LoginOutput carries the issued bearer token.
type LoginOutput struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// AccountUsecase defines registration and login.
type AccountUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*UserSummary, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
}
