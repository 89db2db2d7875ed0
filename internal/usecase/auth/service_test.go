package auth

import (
	"context"
	"errors"
	"testing"

	"skillswap/internal/domain/user"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users map[uuid.UUID]user.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[uuid.UUID]user.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
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

func (m *mockUserRepo) CountActiveVerified(context.Context) (int64, error) { return 0, nil }

func (m *mockUserRepo) FindPublicProfiles(context.Context, int, int) ([]user.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) SearchProfiles(context.Context, repository.SearchFilter) ([]user.User, int64, error) {
	return nil, 0, nil
}

func register(t *testing.T, svc *Service, email string) user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	u := register(t, svc, "  Ada@Example.com ")
	if u.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash != "" {
		t.Fatalf("password hash leaked out of the service")
	}
	if !u.Active || !u.IsProfilePublic {
		t.Fatalf("new accounts start active and public")
	}
	if u.EmailVerified {
		t.Fatalf("new accounts start unverified")
	}

	stored := repo.users[u.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse" {
		t.Fatalf("expected stored hash, got %q", stored.PasswordHash)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := NewService(newMockUserRepo())
	register(t, svc, "ada@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Byron",
		Email:     "ADA@example.com",
		Password:  "another pass",
	})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestService_Register_ShortPassword(t *testing.T) {
	svc := NewService(newMockUserRepo())
	_, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "short",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Login(t *testing.T) {
	svc := NewService(newMockUserRepo())
	register(t, svc, "ada@example.com")

	u, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.PasswordHash != "" {
		t.Fatalf("password hash leaked out of the service")
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "correct horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_Login_DeactivatedAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	u := register(t, svc, "ada@example.com")

	stored := repo.users[u.ID]
	stored.Active = false
	repo.users[u.ID] = stored

	if _, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "correct horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_VerifyEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	u := register(t, svc, "ada@example.com")

	if err := svc.VerifyEmail(context.Background(), u.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !repo.users[u.ID].EmailVerified {
		t.Fatalf("expected verified flag to be set")
	}

	if err := svc.VerifyEmail(context.Background(), uuid.New()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown user: expected ErrInvalidInput, got %v", err)
	}
}
