package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"postboard/config"
	"postboard/internal/delivery/api/response"
	deliverycontext "postboard/internal/delivery/context"
	"postboard/internal/domain/constants"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/service"
	"postboard/internal/errors"
	"postboard/internal/infra/auth"
	"postboard/internal/infra/pubsub"
	"postboard/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

const defaultFeedLimit = 20

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// tokenValidator matches idtoken.Validate.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushHandler consumes post.created push deliveries and serves the resulting feed.
type PushHandler struct {
	verifyPushAuth bool
	pushAudience   string
	validateToken  tokenValidator
	feed           usecase.FeedUsecase
	logger         *slog.Logger
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Feed   usecase.FeedUsecase
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	var audience string
	if params.Config.PubSub != nil {
		audience = params.Config.PubSub.PushAudience
	}

	return &PushHandler{
		verifyPushAuth: PushAuthRequired(params.Config),
		pushAudience:   audience,
		validateToken:  idtoken.Validate,
		feed:           params.Feed,
		logger:         params.Logger,
	}
}

// PushAuthRequired reports whether push deliveries must carry a Google OIDC token.
// Only real Pub/Sub deliveries outside develop carry one.
func PushAuthRequired(cfg *config.Config) bool {
	return cfg.PubSub != nil &&
		cfg.PubSub.Provider == constants.PubSubProviderGoogle &&
		cfg.Env.Env != constants.EnvDevelop
}

// HandlePush handles incoming Pub/Sub push messages.
// 2xx acknowledges the message; 503 asks Pub/Sub to redeliver.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	if eventType := pushMsg.Message.Attributes[pubsub.AttrEventType]; eventType != "" && eventType != constants.EventTypePostCreated {
		logger.Info("[Worker] Ignoring unsupported event type",
			slog.String("event_type", eventType),
			slog.String("message_id", pushMsg.Message.MessageID),
		)

		return c.NoContent(http.StatusOK)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.PostCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Error("[Worker] Failed to parse post.created event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Priority: message attributes > event field > existing context
	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	if err := h.processPostCreated(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process post.created event",
			slog.Int64("post_id", event.PostID),
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Non-retryable failures are acknowledged to prevent infinite redelivery
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// RecentPosts serves GET /feed?limit=
func (h *PushHandler) RecentPosts(c echo.Context) error {
	limit := defaultFeedLimit
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return response.HandleAppError(c, domainerrors.ErrValidationFailed.WithDetails("limit must be an integer"))
	}

	entries := h.feed.Recent(c.Request().Context(), limit)

	out := make([]FeedEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FeedEntryResponse{
			PostID:     entry.PostID,
			Title:      entry.Title,
			Author:     entry.Author,
			CreatedAt:  entry.CreatedAt,
			ReceivedAt: entry.ReceivedAt,
		})
	}

	return response.Success(c, http.StatusOK, out)
}

// FeedEntryResponse is one announcement as returned by GET /feed.
type FeedEntryResponse struct {
	PostID     int64     `json:"post_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
	ReceivedAt time.Time `json:"received_at"`
}

func (h *PushHandler) processPostCreated(ctx context.Context, event *service.PostCreatedEvent) error {
	recorded, err := h.feed.Record(ctx, event)
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) && appErr.Kind() != domainerrors.KindInternal {
			return err
		}

		return newRetryableError(err)
	}

	if recorded {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("[Worker] Post announced",
			slog.Int64("post_id", event.PostID),
			slog.String("author", event.Author),
		)
	}

	return nil
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *pubsub.PushMessage, event *service.PostCreatedEvent) string {
	if requestID := pushMsg.Message.Attributes[pubsub.AttrRequestID]; deliverycontext.AcceptRequestID(requestID) {
		return requestID
	}

	if deliverycontext.AcceptRequestID(event.RequestID) {
		return event.RequestID
	}

	// Set by RequestIDMiddleware from X-Request-Id
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return deliverycontext.NewRequestID()
}

// verifyPubSubToken verifies the OIDC token Google attaches to authenticated push requests.
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func (h *PushHandler) verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	token, ok := strings.CutPrefix(authHeader, auth.BearerScheme)
	if !ok {
		return errors.New("invalid authorization header format")
	}

	// Without a configured audience the push endpoint URL is expected
	audience := h.pushAudience
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
	}

	payload, err := h.validateToken(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
