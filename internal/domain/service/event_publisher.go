package service

import (
	"context"
	"time"
)

// PostCreatedEvent is published after a post is committed.
type PostCreatedEvent struct {
	RequestID string    `json:"request_id,omitempty"` // For distributed tracing
	PostID    int64     `json:"post_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishPostCreated publishes a post.created event
	PublishPostCreated(ctx context.Context, event *PostCreatedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
