package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/repository"
	"postboard/internal/domain/service"
	mockRepo "postboard/internal/mocks/repository"
	mockSvc "postboard/internal/mocks/service"
	"postboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// contentServiceFixtures holds all test dependencies for content service tests.
type contentServiceFixtures struct {
	service   usecase.ContentUsecase
	txManager *mockRepo.MockTransactionManager
	postRepo  *mockRepo.MockPostRepository
	sanitizer *mockSvc.MockSanitizer
	publisher *mockSvc.MockEventPublisher
}

func createTestContentService(t *testing.T) contentServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	postRepo := mockRepo.NewMockPostRepository(t)
	sanitizer := mockSvc.NewMockSanitizer(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	svc := NewContentService(ContentServiceParams{
		TxManager: txManager,
		PostRepo:  postRepo,
		Sanitizer: sanitizer,
		Publisher: publisher,
		Config:    newTestConfig(),
		Logger:    newDiscardLogger(),
	})

	return contentServiceFixtures{
		service:   svc,
		txManager: txManager,
		postRepo:  postRepo,
		sanitizer: sanitizer,
		publisher: publisher,
	}
}

var alice = service.Identity{Subject: "alice"}

func TestContentService_ListPosts(t *testing.T) {
	fx := createTestContentService(t)
	ctx := context.Background()

	posts := []*entity.Post{
		{ID: 1, Title: "hi", Content: "first", Author: &entity.User{Username: "alice"}},
		{ID: 2, Title: "orphan", Content: "second"},
	}
	fx.postRepo.EXPECT().List(ctx, 0, 50).Return(posts, nil)

	output, err := fx.service.ListPosts(ctx, alice, usecase.ListPostsInput{})

	require.NoError(t, err)
	require.Len(t, output, 2)
	assert.Equal(t, &usecase.PostSummary{ID: 1, Title: "hi", Content: "first", Author: "alice"}, output[0])
	assert.Equal(t, entity.UnknownAuthor, output[1].Author)
}

func TestContentService_ListPosts_PageSize(t *testing.T) {
	testCases := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "zero uses default", limit: 0, wantLimit: 50},
		{name: "negative uses default", limit: -5, wantLimit: 50},
		{name: "within bounds", limit: 10, wantLimit: 10},
		{name: "clamped to max", limit: 1000, wantLimit: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fx := createTestContentService(t)
			ctx := context.Background()

			fx.postRepo.EXPECT().List(ctx, 3, tc.wantLimit).Return([]*entity.Post{}, nil)

			output, err := fx.service.ListPosts(ctx, alice, usecase.ListPostsInput{Offset: 3, Limit: tc.limit})

			require.NoError(t, err)
			assert.Empty(t, output)
		})
	}
}

func TestContentService_ListPosts_Rejections(t *testing.T) {
	fx := createTestContentService(t)
	ctx := context.Background()

	_, err := fx.service.ListPosts(ctx, service.Identity{}, usecase.ListPostsInput{})
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))

	_, err = fx.service.ListPosts(ctx, alice, usecase.ListPostsInput{Offset: -1})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestContentService_ListPosts_RepositoryFailure(t *testing.T) {
	fx := createTestContentService(t)
	ctx := context.Background()

	fx.postRepo.EXPECT().List(ctx, 0, 50).Return(nil, errors.New("connection reset"))

	output, err := fx.service.ListPosts(ctx, alice, usecase.ListPostsInput{})

	assert.Nil(t, output)
	assert.Error(t, err)
}

func expectIdentitySanitizer(fx contentServiceFixtures) {
	fx.sanitizer.EXPECT().Sanitize(mock.AnythingOfType("string")).RunAndReturn(func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(s, "<", "&lt;"), ">", "&gt;")
	})
}

func TestContentService_CreatePost_Success(t *testing.T) {
	fx := createTestContentService(t)
	ctx := context.Background()
	authorID := uuid.New()
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	expectIdentitySanitizer(fx)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockPostRepo := mockRepo.NewMockPostRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().PostRepo().Return(mockPostRepo)

			mockUserRepo.EXPECT().
				FindByUsername(ctx, "alice").
				Return(&entity.User{ID: authorID, Username: "alice"}, nil)

			mockPostRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Post")).
				Run(func(_ context.Context, post *entity.Post) {
					assert.Equal(t, authorID, post.AuthorID)
					post.ID = 7
					post.CreatedAt = createdAt
				}).
				Return(nil)

			return fn(mockFactory)
		})

	fx.publisher.EXPECT().
		PublishPostCreated(ctx, mock.AnythingOfType("*service.PostCreatedEvent")).
		Run(func(_ context.Context, event *service.PostCreatedEvent) {
			assert.Equal(t, int64(7), event.PostID)
			assert.Equal(t, "alice", event.Author)
			assert.Equal(t, createdAt, event.CreatedAt)
		}).
		Return(nil)

	output, err := fx.service.CreatePost(ctx, alice, usecase.CreatePostInput{
		Title:   "<b>hi</b>",
		Content: "<script>alert(1)</script>",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), output.ID)
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", output.Title)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", output.Content)
	assert.Equal(t, "alice", output.Author)
}

func TestContentService_CreatePost_AccountNotFound(t *testing.T) {
	fx := createTestContentService(t)
	ctx := context.Background()

	expectIdentitySanitizer(fx)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockUserRepo.EXPECT().FindByUsername(ctx, "alice").Return(nil, repository.ErrUserNotFound)

			return fn(mockFactory)
		})

	output, err := fx.service.CreatePost(ctx, alice, usecase.CreatePostInput{Title: "t", Content: "c"})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestContentService_CreatePost_PublishFailureIsIgnored(t *testing.T) {
	fx := createTestContentService(t)
	ctx := context.Background()

	expectIdentitySanitizer(fx)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockPostRepo := mockRepo.NewMockPostRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().PostRepo().Return(mockPostRepo)
			mockUserRepo.EXPECT().FindByUsername(ctx, "alice").Return(&entity.User{ID: uuid.New(), Username: "alice"}, nil)
			mockPostRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Post")).Return(nil)

			return fn(mockFactory)
		})

	fx.publisher.EXPECT().
		PublishPostCreated(ctx, mock.AnythingOfType("*service.PostCreatedEvent")).
		Return(errors.New("broker unavailable"))

	output, err := fx.service.CreatePost(ctx, alice, usecase.CreatePostInput{Title: "t", Content: "c"})

	require.NoError(t, err)
	assert.Equal(t, "alice", output.Author)
}

func TestContentService_CreatePost_ValidationFailed(t *testing.T) {
	testCases := []struct {
		name  string
		input usecase.CreatePostInput
	}{
		{name: "empty title", input: usecase.CreatePostInput{Title: "", Content: "c"}},
		{name: "empty content", input: usecase.CreatePostInput{Title: "t", Content: ""}},
		{name: "title too long", input: usecase.CreatePostInput{Title: strings.Repeat("t", 201), Content: "c"}},
		{name: "content too long", input: usecase.CreatePostInput{Title: "t", Content: strings.Repeat("c", 10001)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fx := createTestContentService(t)

			output, err := fx.service.CreatePost(context.Background(), alice, tc.input)

			assert.Nil(t, output)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestContentService_CreatePost_Unauthenticated(t *testing.T) {
	fx := createTestContentService(t)

	output, err := fx.service.CreatePost(context.Background(), service.Identity{}, usecase.CreatePostInput{Title: "t", Content: "c"})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUnauthenticated))
}

func TestContentService_CreatePost_WithoutPublisher(t *testing.T) {
	txManager := mockRepo.NewMockTransactionManager(t)
	sanitizer := mockSvc.NewMockSanitizer(t)
	svc := NewContentService(ContentServiceParams{
		TxManager: txManager,
		PostRepo:  mockRepo.NewMockPostRepository(t),
		Sanitizer: sanitizer,
		Config:    newTestConfig(),
		Logger:    newDiscardLogger(),
	})
	ctx := context.Background()

	sanitizer.EXPECT().Sanitize("t").Return("t")
	sanitizer.EXPECT().Sanitize("c").Return("c")
	txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(nil)

	output, err := svc.CreatePost(ctx, alice, usecase.CreatePostInput{Title: "t", Content: "c"})

	require.NoError(t, err)
	assert.Equal(t, entity.UnknownAuthor, output.Author)
}
