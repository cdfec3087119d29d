package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"postboard/config"
	deliverycontext "postboard/internal/delivery/context"
	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/service"
	"postboard/internal/usecase"

	"go.uber.org/fx"
)

const fallbackFeedSize = 100

// feedService keeps a bounded ring of announcements in memory.
type feedService struct {
	mu      sync.RWMutex
	entries []*usecase.FeedEntry // ring buffer, next write at head
	head    int
	size    int
	seen    map[int64]struct{}
	now     func() time.Time
	logger  *slog.Logger
}

// FeedServiceParams holds dependencies for FeedService, injected by Fx.
type FeedServiceParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewFeedService is the constructor for feedService.
func NewFeedService(params FeedServiceParams) usecase.FeedUsecase {
	capacity := fallbackFeedSize
	if params.Config != nil && params.Config.Worker != nil && params.Config.Worker.FeedSize > 0 {
		capacity = params.Config.Worker.FeedSize
	}

	return newFeedService(capacity, time.Now, params.Logger)
}

func newFeedService(capacity int, now func() time.Time, logger *slog.Logger) *feedService {
	return &feedService{
		entries: make([]*usecase.FeedEntry, capacity),
		seen:    make(map[int64]struct{}, capacity),
		now:     now,
		logger:  logger,
	}
}

func (srv *feedService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Record adds the announcement unless the post was already recorded.
// The oldest entry is evicted once the ring is full.
func (srv *feedService) Record(ctx context.Context, event *service.PostCreatedEvent) (bool, error) {
	if event == nil || event.PostID <= 0 {
		return false, domainerrors.ErrValidationFailed.WithDetails("post_id must be positive")
	}

	author := event.Author
	if author == "" {
		author = entity.UnknownAuthor
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if _, dup := srv.seen[event.PostID]; dup {
		srv.log(ctx).Debug("Duplicate post.created delivery ignored", slog.Int64("postID", event.PostID))

		return false, nil
	}

	if evicted := srv.entries[srv.head]; evicted != nil {
		delete(srv.seen, evicted.PostID)
	}

	srv.entries[srv.head] = &usecase.FeedEntry{
		PostID:     event.PostID,
		Title:      event.Title,
		Author:     author,
		CreatedAt:  event.CreatedAt,
		ReceivedAt: srv.now(),
	}
	srv.seen[event.PostID] = struct{}{}
	srv.head = (srv.head + 1) % len(srv.entries)
	if srv.size < len(srv.entries) {
		srv.size++
	}

	return true, nil
}

// Recent returns up to limit entries, newest first. A non-positive limit returns everything kept.
func (srv *feedService) Recent(_ context.Context, limit int) []*usecase.FeedEntry {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	if limit <= 0 || limit > srv.size {
		limit = srv.size
	}

	out := make([]*usecase.FeedEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (srv.head - i + len(srv.entries)) % len(srv.entries)
		entry := *srv.entries[idx]
		out = append(out, &entry)
	}

	return out
}
