package entity

import (
	"time"

	"github.com/google/uuid"
)

// UnknownAuthor is rendered when a post's author cannot be resolved.
const UnknownAuthor = "unknown"

// Post is a short text entry. Title and Content are stored already HTML-escaped.
type Post struct {
	ID        int64
	Title     string
	Content   string
	AuthorID  uuid.UUID
	Author    *User // Resolved author, nil when not loaded or missing.
	CreatedAt time.Time
}

// AuthorName returns the author's username or UnknownAuthor.
func (p *Post) AuthorName() string {
	if p.Author == nil || p.Author.Username == "" {
		return UnknownAuthor
	}

	return p.Author.Username
}
