package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"postboard/config"
	"postboard/internal/domain/constants"
	"postboard/internal/domain/service"
	"postboard/internal/errors"
	"postboard/internal/infra/pubsub"
	"postboard/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestHandler(t *testing.T, mutate func(cfg *config.Config)) *PushHandler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderLocal},
		Worker: &config.WorkerConfig{FeedSize: 10},
	}
	cfg.Env.Env = constants.EnvDevelop
	if mutate != nil {
		mutate(cfg)
	}

	return NewPushHandler(PushHandlerParams{
		Config: cfg,
		Logger: logger,
		Feed:   impl.NewFeedService(impl.FeedServiceParams{Config: cfg, Logger: logger}),
	})
}

func pushBody(t *testing.T, event any, attributes map[string]string) string {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var msg pubsub.PushMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "1"
	msg.Subscription = "projects/local/subscriptions/post-feed"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func push(t *testing.T, h *PushHandler, body, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandlePush(e.NewContext(req, rec)))

	return rec
}

func recentPosts(t *testing.T, h *PushHandler, query string) []FeedEntryResponse {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/feed"+query, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.RecentPosts(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []FeedEntryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Data
}

func TestPushHandler_HandlePush(t *testing.T) {
	h := newTestHandler(t, nil)
	event := &service.PostCreatedEvent{
		PostID:    7,
		Title:     "Hi",
		Author:    "alice",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	attrs := map[string]string{pubsub.AttrEventType: constants.EventTypePostCreated, pubsub.AttrPostID: "7"}

	rec := push(t, h, pushBody(t, event, attrs), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// redelivery is acknowledged and not duplicated
	rec = push(t, h, pushBody(t, event, attrs), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	entries := recentPosts(t, h, "")
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].PostID)
	assert.Equal(t, "alice", entries[0].Author)
	assert.True(t, entries[0].CreatedAt.Equal(event.CreatedAt))
}

func TestPushHandler_HandlePush_Rejections(t *testing.T) {
	h := newTestHandler(t, nil)

	testCases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "malformed envelope", body: `{"message":`, wantStatus: http.StatusBadRequest},
		{name: "data not base64", body: `{"message":{"data":"%%%"}}`, wantStatus: http.StatusBadRequest},
		{
			name:       "data not json",
			body:       `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("nope")) + `"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid event is acknowledged",
			body:       pushBody(t, &service.PostCreatedEvent{PostID: 0}, nil),
			wantStatus: http.StatusOK,
		},
		{
			name:       "other event type is acknowledged",
			body:       pushBody(t, &service.PostCreatedEvent{PostID: 3}, map[string]string{pubsub.AttrEventType: "post.deleted"}),
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := push(t, h, tc.body, "")
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}

	assert.Empty(t, recentPosts(t, h, ""))
}

func TestPushHandler_RecentPosts_Limit(t *testing.T) {
	h := newTestHandler(t, nil)
	for id := int64(1); id <= 5; id++ {
		rec := push(t, h, pushBody(t, &service.PostCreatedEvent{PostID: id, Author: "alice"}, nil), "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	entries := recentPosts(t, h, "?limit=2")
	require.Len(t, entries, 2)
	assert.Equal(t, int64(5), entries[0].PostID)
	assert.Equal(t, int64(4), entries[1].PostID)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/feed?limit=x", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.RecentPosts(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPushHandler_VerifiesGooglePushToken(t *testing.T) {
	h := newTestHandler(t, func(cfg *config.Config) {
		cfg.Env.Env = constants.EnvProduction
		cfg.PubSub.Provider = constants.PubSubProviderGoogle
		cfg.PubSub.PushAudience = "https://worker.example/push"
	})
	require.True(t, h.verifyPushAuth)

	var gotAudience string
	h.validateToken = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		gotAudience = audience
		switch token {
		case "good":
			return &idtoken.Payload{Issuer: "https://accounts.google.com", Claims: map[string]any{"email_verified": true}}, nil
		case "wrong-issuer":
			return &idtoken.Payload{Issuer: "https://evil.example"}, nil
		case "unverified":
			return &idtoken.Payload{Issuer: "accounts.google.com", Claims: map[string]any{"email_verified": false}}, nil
		default:
			return nil, errors.New("bad signature")
		}
	}

	body := pushBody(t, &service.PostCreatedEvent{PostID: 1, Author: "alice"}, nil)

	testCases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusUnauthorized},
		{name: "bad signature", header: "Bearer forged", wantStatus: http.StatusUnauthorized},
		{name: "wrong issuer", header: "Bearer wrong-issuer", wantStatus: http.StatusUnauthorized},
		{name: "unverified email", header: "Bearer unverified", wantStatus: http.StatusUnauthorized},
		{name: "valid", header: "Bearer good", wantStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := push(t, h, body, tc.header)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, "https://worker.example/push", gotAudience)
}

func TestPushAuthRequired(t *testing.T) {
	testCases := []struct {
		name     string
		env      string
		provider string
		want     bool
	}{
		{name: "google in production", env: constants.EnvProduction, provider: constants.PubSubProviderGoogle, want: true},
		{name: "google in develop", env: constants.EnvDevelop, provider: constants.PubSubProviderGoogle},
		{name: "local in production", env: constants.EnvProduction, provider: constants.PubSubProviderLocal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: tc.provider}}
			cfg.Env.Env = tc.env

			assert.Equal(t, tc.want, PushAuthRequired(cfg))
		})
	}

	assert.False(t, PushAuthRequired(&config.Config{}))
}

func TestPushHandler_ExtractRequestID(t *testing.T) {
	h := newTestHandler(t, nil)
	ctx := context.Background()

	var msg pubsub.PushMessage
	msg.Message.Attributes = map[string]string{pubsub.AttrRequestID: "from-attr"}
	assert.Equal(t, "from-attr", h.extractRequestID(ctx, &msg, &service.PostCreatedEvent{RequestID: "from-event"}))

	msg.Message.Attributes = nil
	assert.Equal(t, "from-event", h.extractRequestID(ctx, &msg, &service.PostCreatedEvent{RequestID: "from-event"}))

	assert.NotEmpty(t, h.extractRequestID(ctx, &msg, &service.PostCreatedEvent{}))
}

func TestRetryableError(t *testing.T) {
	cause := errors.New("db down")
	err := errors.Wrap(newRetryableError(cause), "record")

	assert.True(t, isRetryableError(err))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, isRetryableError(cause))
}
