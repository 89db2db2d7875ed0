package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	EventRequestReceived = "connection_request.received"
	EventRequestAccepted = "connection_request.accepted"
	EventRequestDeclined = "connection_request.declined"
)

type ConnectionEvent struct {
	Type        string `json:"type"`
	RequestID   string `json:"request_id"`
	Counterpart string `json:"counterpart"`
	Timestamp   string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyConnectionEvent pushes a request-lifecycle event to the given
// user's open sockets. With no hub installed it is a no-op.
func NotifyConnectionEvent(userID uuid.UUID, eventType string, requestID uuid.UUID, counterpart string) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := ConnectionEvent{
		Type:        eventType,
		RequestID:   requestID.String(),
		Counterpart: counterpart,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.Deliver(userID, b)
}
