package repository

import (
	"context"

	"postboard/internal/domain/entity"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create inserts a post and fills in its generated ID and timestamp.
	Create(ctx context.Context, post *entity.Post) error

	// List returns posts in insertion order with their authors resolved.
	List(ctx context.Context, offset, limit int) ([]*entity.Post, error)
}
