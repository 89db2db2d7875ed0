package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillswap/internal/domain/connection"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users map[uuid.UUID]user.User
	err   error

	found      []user.User
	total      int64
	searchErr  error
	lastFilter *repository.SearchFilter
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) error {
	if m.users == nil {
		m.users = map[uuid.UUID]user.User{}
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if m.err != nil {
		return user.User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, u user.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) SetEmailVerified(_ context.Context, id uuid.UUID) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.EmailVerified = true
	m.users[id] = u
	return nil
}

func (m *mockUserRepo) CountActiveVerified(context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, u := range m.users {
		if u.Active && u.EmailVerified {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) FindPublicProfiles(_ context.Context, limit, offset int) ([]user.User, int64, error) {
	if m.searchErr != nil {
		return nil, 0, m.searchErr
	}
	return slicePage(m.found, limit, offset), m.total, nil
}

func (m *mockUserRepo) SearchProfiles(_ context.Context, f repository.SearchFilter) ([]user.User, int64, error) {
	m.lastFilter = &f
	if m.searchErr != nil {
		return nil, 0, m.searchErr
	}
	return slicePage(m.found, f.Limit, f.Offset), m.total, nil
}

func slicePage(all []user.User, limit, offset int) []user.User {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

type mockConnectionRepo struct {
	reqs     map[uuid.UUID]connection.Request
	countErr error
}

func (m *mockConnectionRepo) Create(_ context.Context, req connection.Request) (connection.Request, error) {
	if m.reqs == nil {
		m.reqs = map[uuid.UUID]connection.Request{}
	}
	for _, existing := range m.reqs {
		if existing.Status != connection.StatusPending && existing.Status != connection.StatusAccepted {
			continue
		}
		samePair := (existing.SenderID == req.SenderID && existing.ReceiverID == req.ReceiverID) ||
			(existing.SenderID == req.ReceiverID && existing.ReceiverID == req.SenderID)
		if samePair {
			return connection.Request{}, repository.ErrDuplicateRequest
		}
	}
	req.Status = connection.StatusPending
	req.CreatedAt = time.Now().UTC()
	m.reqs[req.ID] = req
	return req, nil
}

func (m *mockConnectionRepo) GetByID(_ context.Context, id uuid.UUID) (connection.Request, error) {
	req, ok := m.reqs[id]
	if !ok {
		return connection.Request{}, repository.ErrRequestNotFound
	}
	return req, nil
}

func (m *mockConnectionRepo) ExistsActiveBetween(_ context.Context, a, b uuid.UUID) (bool, error) {
	for _, req := range m.reqs {
		if req.Status != connection.StatusPending && req.Status != connection.StatusAccepted {
			continue
		}
		if (req.SenderID == a && req.ReceiverID == b) || (req.SenderID == b && req.ReceiverID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockConnectionRepo) ListByReceiverAndStatus(_ context.Context, receiverID uuid.UUID, status connection.Status) ([]connection.Request, error) {
	var out []connection.Request
	for _, req := range m.reqs {
		if req.ReceiverID == receiverID && req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockConnectionRepo) ListBySenderAndStatus(_ context.Context, senderID uuid.UUID, status connection.Status) ([]connection.Request, error) {
	var out []connection.Request
	for _, req := range m.reqs {
		if req.SenderID == senderID && req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockConnectionRepo) Transition(_ context.Context, id uuid.UUID, to connection.Status, respondedAt *time.Time) (connection.Request, error) {
	req, ok := m.reqs[id]
	if !ok {
		return connection.Request{}, repository.ErrRequestNotFound
	}
	if req.Status != connection.StatusPending {
		return connection.Request{}, repository.ErrRequestNotPending
	}
	req.Status = to
	req.RespondedAt = respondedAt
	m.reqs[id] = req
	return req, nil
}

func (m *mockConnectionRepo) CountByStatus(_ context.Context, status connection.Status) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, req := range m.reqs {
		if req.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockConnectionRepo) CountAll(context.Context) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.reqs)), nil
}

func newMember(public bool) user.User {
	return user.User{
		ID:              uuid.New(),
		FirstName:       "Test",
		LastName:        "Member",
		Email:           uuid.NewString() + "@example.com",
		IsProfilePublic: public,
		Active:          true,
		EmailVerified:   true,
		Availability:    user.AvailabilityFlexible,
	}
}

func connectionFixture() (*mockUserRepo, *mockConnectionRepo, user.User, user.User) {
	sender := newMember(true)
	receiver := newMember(true)
	users := &mockUserRepo{users: map[uuid.UUID]user.User{
		sender.ID:   sender,
		receiver.ID: receiver,
	}}
	return users, &mockConnectionRepo{}, sender, receiver
}

func TestConnectionUsecase_SendRequest_Success(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	item, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "let's trade lessons")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if item.Status != connection.StatusPending {
		t.Fatalf("expected PENDING, got %s", item.Status)
	}
	if item.RespondedAt != nil {
		t.Fatalf("expected nil RespondedAt on a fresh request")
	}
	if item.Sender.ID != sender.ID || item.Receiver.ID != receiver.ID {
		t.Fatalf("unexpected participants")
	}
}

func TestConnectionUsecase_SendRequest_DuplicateEitherDirection(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	if _, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "hi"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if _, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "again"); !errors.Is(err, ErrConflict) {
		t.Fatalf("same direction: expected ErrConflict, got %v", err)
	}
	if _, err := uc.SendRequest(context.Background(), receiver.ID, sender.ID, "reverse"); !errors.Is(err, ErrConflict) {
		t.Fatalf("reverse direction: expected ErrConflict, got %v", err)
	}
}

func TestConnectionUsecase_SendRequest_Self(t *testing.T) {
	users, reqs, sender, _ := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	if _, err := uc.SendRequest(context.Background(), sender.ID, sender.ID, "me"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestConnectionUsecase_SendRequest_PrivateReceiver(t *testing.T) {
	sender := newMember(true)
	receiver := newMember(false)
	users := &mockUserRepo{users: map[uuid.UUID]user.User{sender.ID: sender, receiver.ID: receiver}}
	uc := NewConnectionUsecase(users, &mockConnectionRepo{})

	if _, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "hi"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestConnectionUsecase_SendRequest_UnknownReceiver(t *testing.T) {
	users, reqs, sender, _ := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	if _, err := uc.SendRequest(context.Background(), sender.ID, uuid.New(), "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConnectionUsecase_SendRequest_MessageTooLong(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	long := make([]byte, connection.MaxMessageLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, string(long)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConnectionUsecase_Accept_SetsRespondedAt(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	sent, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	item, err := uc.Accept(context.Background(), receiver.ID, sent.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if item.Status != connection.StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", item.Status)
	}
	if item.RespondedAt == nil {
		t.Fatalf("expected RespondedAt to be set")
	}
}

func TestConnectionUsecase_Accept_NotReceiver(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	sent, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := uc.Accept(context.Background(), sender.ID, sent.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestConnectionUsecase_Accept_AlreadyResolved(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	sent, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := uc.Decline(context.Background(), receiver.ID, sent.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}

	if _, err := uc.Accept(context.Background(), receiver.ID, sent.ID); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestConnectionUsecase_Cancel_SenderOnly(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	sent, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := uc.Cancel(context.Background(), receiver.ID, sent.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("receiver cancel: expected ErrForbidden, got %v", err)
	}

	item, err := uc.Cancel(context.Background(), sender.ID, sent.ID)
	if err != nil {
		t.Fatalf("sender cancel: %v", err)
	}
	if item.Status != connection.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", item.Status)
	}
	if item.RespondedAt != nil {
		t.Fatalf("cancel must not set RespondedAt")
	}
}

func TestConnectionUsecase_Cancel_FreesPairForNewRequest(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	uc := NewConnectionUsecase(users, reqs)

	sent, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "hi")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := uc.Cancel(context.Background(), sender.ID, sent.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := uc.SendRequest(context.Background(), receiver.ID, sender.ID, "my turn"); err != nil {
		t.Fatalf("expected fresh request after cancel, got %v", err)
	}
}

func TestConnectionUsecase_ListReceived_PendingOnly(t *testing.T) {
	users, reqs, sender, receiver := connectionFixture()
	third := newMember(true)
	users.users[third.ID] = third
	uc := NewConnectionUsecase(users, reqs)

	if _, err := uc.SendRequest(context.Background(), sender.ID, receiver.ID, "one"); err != nil {
		t.Fatalf("send: %v", err)
	}
	declined, err := uc.SendRequest(context.Background(), third.ID, receiver.ID, "two")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := uc.Decline(context.Background(), receiver.ID, declined.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}

	items, err := uc.ListReceived(context.Background(), receiver.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 pending item, got %d", len(items))
	}
	if items[0].Sender.ID != sender.ID {
		t.Fatalf("unexpected sender in list")
	}
}
