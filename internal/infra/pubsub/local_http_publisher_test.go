package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postboard/internal/domain/constants"
	"postboard/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_PublishPostCreated(t *testing.T) {
	var received PushMessage
	var requestIDHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestIDHeader = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, newDiscardLogger())
	event := &service.PostCreatedEvent{
		RequestID: "req-1",
		PostID:    42,
		Title:     "hello",
		Author:    "alice",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	err := publisher.PublishPostCreated(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, "req-1", requestIDHeader)
	assert.Equal(t, localSubscription, received.Subscription)
	assert.Equal(t, constants.EventTypePostCreated, received.Message.Attributes[AttrEventType])
	assert.Equal(t, "42", received.Message.Attributes[AttrPostID])
	assert.NotEmpty(t, received.Message.MessageID)

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decoded service.PostCreatedEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.PostID, decoded.PostID)
	assert.Equal(t, event.Title, decoded.Title)
	assert.Equal(t, event.Author, decoded.Author)
	assert.Equal(t, event.RequestID, decoded.RequestID)
	assert.True(t, event.CreatedAt.Equal(decoded.CreatedAt))
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, newDiscardLogger())

	err := publisher.PublishPostCreated(context.Background(), &service.PostCreatedEvent{PostID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
