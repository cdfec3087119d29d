package impl

import (
	"context"
	"log/slog"

	"postboard/config"
	deliverycontext "postboard/internal/delivery/context"
	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/repository"
	"postboard/internal/domain/service"
	"postboard/internal/errors"
	"postboard/internal/infra/validation"
	"postboard/internal/usecase"

	"go.uber.org/fx"
)

const (
	fallbackPageSize    = 50
	fallbackMaxPageSize = 100
)

// contentService implements the ContentUsecase interface.
type contentService struct {
	txManager       repository.TransactionManager
	postRepo        repository.PostRepository
	sanitizer       service.Sanitizer
	publisher       service.EventPublisher
	validator       *validation.Validator
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
}

// ContentServiceParams holds dependencies for ContentService, injected by Fx.
type ContentServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	PostRepo  repository.PostRepository
	Sanitizer service.Sanitizer
	Publisher service.EventPublisher `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewContentService is the constructor for contentService.
func NewContentService(params ContentServiceParams) usecase.ContentUsecase {
	defaultPageSize, maxPageSize := fallbackPageSize, fallbackMaxPageSize
	if params.Config != nil && params.Config.Posts != nil {
		if params.Config.Posts.DefaultPageSize > 0 {
			defaultPageSize = params.Config.Posts.DefaultPageSize
		}
		if params.Config.Posts.MaxPageSize > 0 {
			maxPageSize = params.Config.Posts.MaxPageSize
		}
	}

	return &contentService{
		txManager:       params.TxManager,
		postRepo:        params.PostRepo,
		sanitizer:       params.Sanitizer,
		publisher:       params.Publisher,
		validator:       validation.New(),
		defaultPageSize: min(defaultPageSize, maxPageSize),
		maxPageSize:     maxPageSize,
		logger:          params.Logger,
	}
}

func (srv *contentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListPosts returns one page of posts in insertion order.
func (srv *contentService) ListPosts(ctx context.Context, identity service.Identity, input usecase.ListPostsInput) ([]*usecase.PostSummary, error) {
	if !identity.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthenticated
	}
	if input.Offset < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("offset must not be negative")
	}

	posts, err := srv.postRepo.List(ctx, input.Offset, srv.pageSize(input.Limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}

	summaries := make([]*usecase.PostSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, toPostSummary(post))
	}

	return summaries, nil
}

func (srv *contentService) pageSize(limit int) int {
	if limit <= 0 {
		return srv.defaultPageSize
	}

	return min(limit, srv.maxPageSize)
}

// CreatePost validates and sanitizes the post, then resolves the author and
// inserts the post in one transaction. A post.created event follows the commit.
func (srv *contentService) CreatePost(ctx context.Context, identity service.Identity, input usecase.CreatePostInput) (*usecase.PostSummary, error) {
	if !identity.IsAuthenticated() {
		return nil, domainerrors.ErrUnauthenticated
	}
	if err := srv.validator.Validate(input); err != nil {
		return nil, err
	}

	post := &entity.Post{
		Title:   srv.sanitizer.Sanitize(input.Title),
		Content: srv.sanitizer.Sanitize(input.Content),
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		author, err := repoFactory.UserRepo().FindByUsername(ctx, identity.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrAccountNotFound
			}

			return errors.Wrap(err, "failed to resolve author")
		}

		post.AuthorID = author.ID
		post.Author = author

		return repoFactory.PostRepo().Create(ctx, post)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			srv.log(ctx).Warn("Post rejected, author no longer exists", slog.String("subject", identity.Subject))

			return nil, err
		}
		srv.log(ctx).Error("Failed to create post", slog.String("subject", identity.Subject), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute create post transaction")
	}

	srv.publishCreated(ctx, post)

	return toPostSummary(post), nil
}

// publishCreated is best effort; the post is already committed.
func (srv *contentService) publishCreated(ctx context.Context, post *entity.Post) {
	if srv.publisher == nil {
		return
	}

	event := &service.PostCreatedEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		PostID:    post.ID,
		Title:     post.Title,
		Author:    post.AuthorName(),
		CreatedAt: post.CreatedAt,
	}
	if err := srv.publisher.PublishPostCreated(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish post.created event", slog.Int64("postID", post.ID), slog.Any("error", err))
	}
}

func toPostSummary(post *entity.Post) *usecase.PostSummary {
	return &usecase.PostSummary{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Author:  post.AuthorName(),
	}
}
