// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in and author posts.
type User struct {
	ID           uuid.UUID // Generated by the application (UUIDv7) before insert.
	Username     string    // Unique login name, also the token subject.
	Email        string    // Unique contact address.
	PasswordHash string    // bcrypt hash, never the plaintext.
	CreatedAt    time.Time
}
