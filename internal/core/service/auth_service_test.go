package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/order-service/internal/core/domain"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	calls  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.nextID++
	c := cloneUser(u)
	c.ID = r.nextID
	r.users[c.ID] = c
	return cloneUser(c)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls++
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	return r.add(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.calls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret")
	svc := NewAuthService(repo, tokens, discardLogger)
	svc.cost = bcrypt.MinCost
	return svc, tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	res, err := svc.Register(context.Background(), registerInput("Alice", " Alice@Example.com ", "pass123"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", res.User.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	p, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if p.UserID != res.User.ID || p.Email != "alice@example.com" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	for _, in := range [][3]string{{"", "a@b.c", "x"}, {"A", "", "x"}, {"A", "a@b.c", ""}} {
		if _, err := svc.Register(context.Background(), registerInput(in[0], in[1], in[2])); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Register(%v): expected ErrValidation, got %v", in, err)
		}
	}
}

func TestAuthService_PasswordTooLong(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	long := strings.Repeat("p", 73)

	if _, err := svc.Register(context.Background(), registerInput("A", "a@x.io", long)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Register: expected ErrValidation, got %v", err)
	}
	if _, err := svc.EnsureAdmin(context.Background(), "", "root@x.io", long); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("EnsureAdmin: expected ErrValidation, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user should be stored, got %d", len(repo.users))
	}

	if _, err := svc.Register(context.Background(), registerInput("A", "a@x.io", strings.Repeat("p", 72))); err != nil {
		t.Fatalf("72-byte password should be accepted: %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), registerInput("Bob", "bob@example.com", "pass"))
	if _, err := svc.Register(context.Background(), registerInput("Bob", "BOB@example.com", "pass2")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), registerInput("Carol", "carol@example.com", "s3cret")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User == nil || res.User.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if _, err := tokens.Verify(res.Token); err != nil {
		t.Fatalf("token invalid: %v", err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), registerInput("Dave", "dave@example.com", "goodpass"))
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	admin, err := svc.EnsureAdmin(context.Background(), "", "root@example.com", "rootpass")
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if !admin.IsAdmin() || admin.Name != "Administrator" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	again, err := svc.EnsureAdmin(context.Background(), "Root", "root@example.com", "other")
	if err != nil {
		t.Fatalf("second EnsureAdmin returned error: %v", err)
	}
	if again.ID != admin.ID || len(repo.users) != 1 {
		t.Fatalf("EnsureAdmin must be idempotent, got %d users", len(repo.users))
	}
}

func TestAuthService_Me(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	u := repo.add(&domain.User{Name: "Eve", Email: "eve@example.com", Role: domain.RoleUser, CreatedAt: time.Now()})

	got, err := svc.Me(context.Background(), domain.Principal{UserID: u.ID, Email: u.Email})
	if err != nil || got.ID != u.ID {
		t.Fatalf("Me returned %+v, %v", got, err)
	}

	if _, err := svc.Me(context.Background(), domain.Principal{UserID: 999}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
