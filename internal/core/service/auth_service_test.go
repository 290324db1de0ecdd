package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront-api/internal/core/domain"
	"github.com/shopfront/storefront-api/internal/core/ports"
	"github.com/shopfront/storefront-api/internal/infrastructure/security"
)

type stubUserRepo struct {
	users     map[string]*domain.User // keyed by email
	findErr   error
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubLimiter struct {
	failures map[string]int
	max      int
	err      error
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), max: max}
}

func (l *stubLimiter) Blocked(_ context.Context, email string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[email] >= l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures[email]++
	return l.err
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	delete(l.failures, email)
	return l.err
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) {
	return "", errors.Join(domain.ErrCodec, errors.New("entropy source unavailable"))
}
func (failingHasher) Verify(string, string) bool { return false }

func newAuthService(repo ports.UserRepository, limiter ports.LoginLimiter) (*AuthService, *security.TokenManager) {
	tokens := security.NewTokenManager("secret", time.Hour)
	return NewAuthService(repo, security.NewPasswordHasher(), tokens, limiter, zerolog.Nop()), tokens
}

func registerInput(email, password string) ports.RegisterInput {
	return ports.RegisterInput{Name: "Alice", Email: email, Password: password, Phone: "555-0100", Address: "1 Main St"}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo, nil)

	user, err := svc.Register(context.Background(), registerInput(" Alice@Example.com ", "pass123"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" || user.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}
	if !security.NewPasswordHasher().Verify("pass123", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if user.Role != domain.RoleBuyer {
		t.Fatalf("new users must be buyers, got %v", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newAuthService(newStubUserRepo(), nil)

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@example.com", Password: "p"},
		{Name: "A", Email: "", Password: "p"},
		{Name: "A", Email: "a@example.com", Password: ""},
		{Name: "A", Email: "not-an-email", Password: "p"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("input %+v: expected ErrValidation, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newAuthService(newStubUserRepo(), nil)

	_, _ = svc.Register(context.Background(), registerInput("bob@example.com", "pass"))
	if _, err := svc.Register(context.Background(), registerInput("bob@example.com", "pass2")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_HashFailureIsPropagated(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, failingHasher{}, security.NewTokenManager("secret", time.Hour), nil, zerolog.Nop())

	_, err := svc.Register(context.Background(), registerInput("carol@example.com", "pass"))
	if !errors.Is(err, domain.ErrCodec) {
		t.Fatalf("expected ErrCodec, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user must be stored when hashing fails")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens := newAuthService(newStubUserRepo(), nil)

	registered, err := svc.Register(context.Background(), registerInput("carol@example.com", "s3cret"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	uid, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if uid != registered.ID {
		t.Fatalf("token carries %q, want %q", uid, registered.ID)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(newStubUserRepo(), nil)
	_, _ = svc.Register(context.Background(), registerInput("dave@example.com", "goodpass"))

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("empty input: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StorageError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = domain.ErrStorageUnavailable
	svc, _ := newAuthService(repo, nil)

	if _, _, err := svc.Login(context.Background(), "erin@example.com", "pass"); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	limiter := newStubLimiter(2)
	svc, _ := newAuthService(newStubUserRepo(), limiter)
	_, _ = svc.Register(context.Background(), registerInput("frank@example.com", "right"))

	for i := 0; i < 2; i++ {
		if _, _, err := svc.Login(context.Background(), "frank@example.com", "wrong"); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	if _, _, err := svc.Login(context.Background(), "frank@example.com", "right"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts once the limit is reached, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsAttempts(t *testing.T) {
	limiter := newStubLimiter(3)
	svc, _ := newAuthService(newStubUserRepo(), limiter)
	_, _ = svc.Register(context.Background(), registerInput("gina@example.com", "right"))

	_, _, _ = svc.Login(context.Background(), "gina@example.com", "wrong")
	if _, _, err := svc.Login(context.Background(), "gina@example.com", "right"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if limiter.failures["gina@example.com"] != 0 {
		t.Fatalf("expected attempts to be reset, got %d", limiter.failures["gina@example.com"])
	}
}

func TestAuthService_Login_LimiterErrorsAreIgnored(t *testing.T) {
	limiter := newStubLimiter(1)
	limiter.err = errors.New("redis down")
	svc, _ := newAuthService(newStubUserRepo(), limiter)
	_, _ = svc.Register(context.Background(), registerInput("hank@example.com", "right"))

	if _, _, err := svc.Login(context.Background(), "hank@example.com", "right"); err != nil {
		t.Fatalf("limiter failure must not block login, got %v", err)
	}
}
