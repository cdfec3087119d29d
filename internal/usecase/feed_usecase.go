package usecase

import (
	"context"
	"time"

	"postboard/internal/domain/service"
)

// FeedEntry is one post announcement kept by the feed worker.
type FeedEntry struct {
	PostID     int64
	Title      string
	Author     string
	CreatedAt  time.Time
	ReceivedAt time.Time
}

// FeedUsecase consumes post.created events and serves the most recent ones.
type FeedUsecase interface {
	// Record stores the event. Redeliveries of an already recorded post report false.
	Record(ctx context.Context, event *service.PostCreatedEvent) (bool, error)

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) []*FeedEntry
}
