package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"postboard/config"
	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(id int64) *service.PostCreatedEvent {
	return &service.PostCreatedEvent{
		PostID:    id,
		Title:     "title",
		Author:    "alice",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestFeedService_Record(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	srv := newFeedService(3, func() time.Time { return fixed }, newDiscardLogger())
	ctx := context.Background()

	recorded, err := srv.Record(ctx, newEvent(1))
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = srv.Record(ctx, newEvent(1))
	require.NoError(t, err)
	assert.False(t, recorded, "redelivery must not duplicate the entry")

	entries := srv.Recent(ctx, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].PostID)
	assert.Equal(t, "alice", entries[0].Author)
	assert.True(t, entries[0].ReceivedAt.Equal(fixed))
}

func TestFeedService_Record_Invalid(t *testing.T) {
	srv := newFeedService(3, time.Now, newDiscardLogger())

	for _, event := range []*service.PostCreatedEvent{nil, {PostID: 0}, {PostID: -4}} {
		recorded, err := srv.Record(context.Background(), event)
		assert.False(t, recorded)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	}
}

func TestFeedService_Record_UnknownAuthor(t *testing.T) {
	srv := newFeedService(3, time.Now, newDiscardLogger())

	event := newEvent(9)
	event.Author = ""
	_, err := srv.Record(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, entity.UnknownAuthor, srv.Recent(context.Background(), 1)[0].Author)
}

func TestFeedService_Recent_EvictsOldest(t *testing.T) {
	srv := newFeedService(3, time.Now, newDiscardLogger())
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		_, err := srv.Record(ctx, newEvent(id))
		require.NoError(t, err)
	}

	entries := srv.Recent(ctx, 10)
	require.Len(t, entries, 3)
	assert.Equal(t, []int64{5, 4, 3}, []int64{entries[0].PostID, entries[1].PostID, entries[2].PostID})

	assert.Len(t, srv.Recent(ctx, 2), 2)

	// an evicted post can be recorded again
	recorded, err := srv.Record(ctx, newEvent(1))
	require.NoError(t, err)
	assert.True(t, recorded)
}

func TestFeedService_Recent_ReturnsCopies(t *testing.T) {
	srv := newFeedService(2, time.Now, newDiscardLogger())
	ctx := context.Background()
	_, err := srv.Record(ctx, newEvent(1))
	require.NoError(t, err)

	srv.Recent(ctx, 1)[0].Title = "changed"

	assert.Equal(t, "title", srv.Recent(ctx, 1)[0].Title)
}

func TestFeedService_ConcurrentRecord(t *testing.T) {
	srv := newFeedService(50, time.Now, newDiscardLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for id := int64(1); id <= 200; id++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = srv.Record(ctx, newEvent(id))
		}()
	}
	wg.Wait()

	assert.Len(t, srv.Recent(ctx, 0), 50)
}

func TestNewFeedService_UsesConfiguredSize(t *testing.T) {
	cfg := newTestConfig()
	cfg.Worker = &config.WorkerConfig{FeedSize: 2}

	srv := NewFeedService(FeedServiceParams{Config: cfg, Logger: newDiscardLogger()})
	for id := int64(1); id <= 3; id++ {
		_, err := srv.Record(context.Background(), newEvent(id))
		require.NoError(t, err)
	}

	assert.Len(t, srv.Recent(context.Background(), 0), 2)
}
