package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap/internal/domain/connection"
	"skillswap/internal/repository"
	"skillswap/internal/ws"

	"github.com/google/uuid"
)

type ConnectionItem struct {
	ID          uuid.UUID
	Message     string
	Status      connection.Status
	CreatedAt   time.Time
	RespondedAt *time.Time
	Sender      ProfileSummary
	Receiver    ProfileSummary
}

type ConnectionUsecase interface {
	SendRequest(ctx context.Context, senderID, receiverID uuid.UUID, message string) (ConnectionItem, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]ConnectionItem, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]ConnectionItem, error)
	Accept(ctx context.Context, userID, requestID uuid.UUID) (ConnectionItem, error)
	Decline(ctx context.Context, userID, requestID uuid.UUID) (ConnectionItem, error)
	Cancel(ctx context.Context, userID, requestID uuid.UUID) (ConnectionItem, error)
}

type Connection struct {
	users    repository.UserRepository
	requests repository.ConnectionRepository
}

func NewConnectionUsecase(users repository.UserRepository, requests repository.ConnectionRepository) *Connection {
	return &Connection{users: users, requests: requests}
}

// SendRequest creates a PENDING request from sender to receiver. The
// duplicate check covers both directions of the pair: if B already has
// a live request toward A, A cannot open another one. The pre-check
// gives a clean Conflict; the partial unique index closes the race when
// two sends hit the pair at once.
func (u *Connection) SendRequest(ctx context.Context, senderID, receiverID uuid.UUID, message string) (ConnectionItem, error) {
	message = strings.TrimSpace(message)
	if len(message) > connection.MaxMessageLength {
		return ConnectionItem{}, ErrInvalidInput
	}

	sender, err := u.users.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ConnectionItem{}, ErrNotFound
		}
		return ConnectionItem{}, ErrInternal
	}
	if !sender.Active {
		return ConnectionItem{}, ErrNotFound
	}

	if senderID == receiverID {
		return ConnectionItem{}, ErrInvalidOperation
	}

	receiver, err := u.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ConnectionItem{}, ErrNotFound
		}
		return ConnectionItem{}, ErrInternal
	}
	if !receiver.IsProfilePublic || !receiver.Active {
		return ConnectionItem{}, ErrForbidden
	}

	exists, err := u.requests.ExistsActiveBetween(ctx, senderID, receiverID)
	if err != nil {
		return ConnectionItem{}, ErrInternal
	}
	if exists {
		return ConnectionItem{}, ErrConflict
	}

	created, err := u.requests.Create(ctx, connection.Request{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRequest) {
			return ConnectionItem{}, ErrConflict
		}
		return ConnectionItem{}, ErrInternal
	}

	item := ConnectionItem{
		ID:          created.ID,
		Message:     created.Message,
		Status:      created.Status,
		CreatedAt:   created.CreatedAt,
		RespondedAt: created.RespondedAt,
		Sender:      basicSummary(sender),
		Receiver:    basicSummary(receiver),
	}

	ws.NotifyConnectionEvent(receiverID, ws.EventRequestReceived, created.ID, sender.FullName())

	return item, nil
}

func (u *Connection) ListReceived(ctx context.Context, userID uuid.UUID) ([]ConnectionItem, error) {
	if err := u.requireActiveUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := u.requests.ListByReceiverAndStatus(ctx, userID, connection.StatusPending)
	if err != nil {
		return nil, ErrInternal
	}
	return u.resolveItems(ctx, reqs)
}

func (u *Connection) ListSent(ctx context.Context, userID uuid.UUID) ([]ConnectionItem, error) {
	if err := u.requireActiveUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := u.requests.ListBySenderAndStatus(ctx, userID, connection.StatusPending)
	if err != nil {
		return nil, ErrInternal
	}
	return u.resolveItems(ctx, reqs)
}

func (u *Connection) Accept(ctx context.Context, userID, requestID uuid.UUID) (ConnectionItem, error) {
	return u.respond(ctx, userID, requestID, connection.StatusAccepted, ws.EventRequestAccepted)
}

func (u *Connection) Decline(ctx context.Context, userID, requestID uuid.UUID) (ConnectionItem, error) {
	return u.respond(ctx, userID, requestID, connection.StatusDeclined, ws.EventRequestDeclined)
}

// respond applies the receiver-only PENDING -> ACCEPTED/DECLINED
// transition. The repository re-checks PENDING under a row lock, so a
// concurrent accept and decline cannot both win.
func (u *Connection) respond(ctx context.Context, userID, requestID uuid.UUID, to connection.Status, event string) (ConnectionItem, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return ConnectionItem{}, ErrNotFound
		}
		return ConnectionItem{}, ErrInternal
	}
	if req.ReceiverID != userID {
		return ConnectionItem{}, ErrForbidden
	}
	if req.Status != connection.StatusPending {
		return ConnectionItem{}, ErrInvalidOperation
	}

	now := time.Now().UTC()
	updated, err := u.requests.Transition(ctx, requestID, to, &now)
	if err != nil {
		return ConnectionItem{}, mapTransitionError(err)
	}

	item, err := u.resolveItem(ctx, updated)
	if err != nil {
		return ConnectionItem{}, err
	}

	ws.NotifyConnectionEvent(updated.SenderID, event, updated.ID, item.Receiver.FullName())

	return item, nil
}

// Cancel is the sender-side exit from PENDING. It leaves RespondedAt
// unset; the live-pair index ignores CANCELLED rows, so the pair is
// free for a fresh request afterwards.
func (u *Connection) Cancel(ctx context.Context, userID, requestID uuid.UUID) (ConnectionItem, error) {
	req, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return ConnectionItem{}, ErrNotFound
		}
		return ConnectionItem{}, ErrInternal
	}
	if req.SenderID != userID {
		return ConnectionItem{}, ErrForbidden
	}
	if req.Status != connection.StatusPending {
		return ConnectionItem{}, ErrInvalidOperation
	}

	updated, err := u.requests.Transition(ctx, requestID, connection.StatusCancelled, nil)
	if err != nil {
		return ConnectionItem{}, mapTransitionError(err)
	}

	return u.resolveItem(ctx, updated)
}

func (u *Connection) requireActiveUser(ctx context.Context, userID uuid.UUID) error {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	if !usr.Active {
		return ErrNotFound
	}
	return nil
}

func (u *Connection) resolveItems(ctx context.Context, reqs []connection.Request) ([]ConnectionItem, error) {
	out := make([]ConnectionItem, 0, len(reqs))
	for _, req := range reqs {
		item, err := u.resolveItem(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (u *Connection) resolveItem(ctx context.Context, req connection.Request) (ConnectionItem, error) {
	sender, err := u.users.GetByID(ctx, req.SenderID)
	if err != nil {
		return ConnectionItem{}, ErrInternal
	}
	receiver, err := u.users.GetByID(ctx, req.ReceiverID)
	if err != nil {
		return ConnectionItem{}, ErrInternal
	}

	return ConnectionItem{
		ID:          req.ID,
		Message:     req.Message,
		Status:      req.Status,
		CreatedAt:   req.CreatedAt,
		RespondedAt: req.RespondedAt,
		Sender:      basicSummary(sender),
		Receiver:    basicSummary(receiver),
	}, nil
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, repository.ErrRequestNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrRequestNotPending):
		return ErrInvalidOperation
	default:
		return ErrInternal
	}
}
