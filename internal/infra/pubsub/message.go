package pubsub

import (
	"encoding/json"
	"strconv"

	"postboard/internal/domain/constants"
	"postboard/internal/domain/service"

	"github.com/pkg/errors"
)

// Message attribute keys set on every published event.
const (
	AttrEventType = "event_type"
	AttrPostID    = "post_id"
	AttrRequestID = "request_id"
)

// PushMessage is the body Pub/Sub POSTs to push subscribers.
// The local publisher produces the same shape so the worker handles both.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

func encodePostCreated(event *service.PostCreatedEvent) ([]byte, map[string]string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	attributes := map[string]string{
		AttrEventType: constants.EventTypePostCreated,
		AttrPostID:    strconv.FormatInt(event.PostID, 10),
	}
	if event.RequestID != "" {
		attributes[AttrRequestID] = event.RequestID
	}

	return data, attributes, nil
}
