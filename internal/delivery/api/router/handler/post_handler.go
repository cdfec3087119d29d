package handler

import (
	"log/slog"
	"net/http"

	"postboard/internal/delivery/api/response"
	deliverycontext "postboard/internal/delivery/context"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PostHandlerParams holds dependencies for PostHandler, injected by Fx.
type PostHandlerParams struct {
	fx.In

	ContentUC usecase.ContentUsecase
	Logger    *slog.Logger
}

// PostHandler serves the protected post endpoints.
type PostHandler struct {
	contentUC usecase.ContentUsecase
	logger    *slog.Logger
}

// NewPostHandler is the constructor for PostHandler
func NewPostHandler(params PostHandlerParams) *PostHandler {
	return &PostHandler{
		contentUC: params.ContentUC,
		logger:    params.Logger,
	}
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostResponse is a post as returned to clients.
type PostResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// List handles GET /api/data?offset=&limit=
func (h *PostHandler) List(c echo.Context) error {
	identity, ok := deliverycontext.GetIdentity(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrUnauthenticated)
	}

	var input usecase.ListPostsInput
	if err := echo.QueryParamsBinder(c).
		Int("offset", &input.Offset).
		Int("limit", &input.Limit).
		BindError(); err != nil {
		return response.HandleAppError(c, domainerrors.ErrValidationFailed.WithDetails("offset and limit must be integers"))
	}

	posts, err := h.contentUC.ListPosts(c.Request().Context(), identity, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, toPostResponse(post))
	}

	return response.Success(c, http.StatusOK, out)
}

// Create handles POST /api/data
func (h *PostHandler) Create(c echo.Context) error {
	identity, ok := deliverycontext.GetIdentity(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrUnauthenticated)
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return response.HandleAppError(c, domainerrors.ErrValidationFailed.WithDetails("malformed request body"))
	}

	post, err := h.contentUC.CreatePost(c.Request().Context(), identity, usecase.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toPostResponse(post))
}

func toPostResponse(post *usecase.PostSummary) PostResponse {
	return PostResponse{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Author:  post.Author,
	}
}
