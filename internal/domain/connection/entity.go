package connection

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength bounds the optional note attached to a request.
const MaxMessageLength = 1000

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusDeclined  Status = "DECLINED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether no further transition is allowed out of s.
// PENDING is the sole initial state; every other status is terminal.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Request is a bilateral invitation between two members. At most one
// request per unordered (sender, receiver) pair may be PENDING or
// ACCEPTED at a time; the storage layer enforces this with a partial
// unique index so concurrent sends cannot both commit.
type Request struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	ReceiverID  uuid.UUID
	Message     string
	Status      Status
	CreatedAt   time.Time
	RespondedAt *time.Time
}
