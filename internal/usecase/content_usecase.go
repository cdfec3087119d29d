package usecase

import (
	"context"

	"postboard/internal/domain/service"
)

// ListPostsInput selects a page of posts. A non-positive Limit means the default page size.
type ListPostsInput struct {
	Offset int
	Limit  int
}

// CreatePostInput is the raw, unsanitized post submitted by a caller.
type CreatePostInput struct {
	Title   string `validate:"required,min=1,max=200"`
	Content string `validate:"required,min=1,max=10000"`
}

// PostSummary is a post as rendered to callers.
type PostSummary struct {
	ID      int64
	Title   string
	Content string
	Author  string
}

// ContentUsecase defines the post operations available to authenticated callers.
type ContentUsecase interface {
	ListPosts(ctx context.Context, identity service.Identity, input ListPostsInput) ([]*PostSummary, error)
	CreatePost(ctx context.Context, identity service.Identity, input CreatePostInput) (*PostSummary, error)
}
