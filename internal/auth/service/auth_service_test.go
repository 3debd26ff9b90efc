package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rmelnikov/authgate/internal/auth/domain"
	"github.com/rmelnikov/authgate/internal/auth/repository"
	"github.com/rmelnikov/authgate/internal/auth/service"
	"github.com/rmelnikov/authgate/internal/common/clock"
	"github.com/rmelnikov/authgate/internal/common/logger"
	"github.com/rmelnikov/authgate/internal/token"
)

func setupAuthService(t *testing.T) (*service.AuthService, *mockRepo, *mockHasher, *mockTokens, *mockIDGenerator) {
	t.Helper()

	repo := &mockRepo{}
	hasher := &mockHasher{}
	tokens := &mockTokens{}
	idGen := &mockIDGenerator{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	svc := service.NewAuthService(service.Deps{
		Repo:        repo,
		Hasher:      hasher,
		Tokens:      tokens,
		IDGenerator: idGen,
		Clock:       mockClock,
		Log:         log,
	})

	return svc, repo, hasher, tokens, idGen
}

func TestRegister_Success(t *testing.T) {
	svc, repo, _, _, idGen := setupAuthService(t)

	idGen.newIDFunc = func() (string, error) { return "user-123", nil }

	var created domain.User
	repo.createFunc = func(_ context.Context, user domain.User) error {
		created = user
		return nil
	}

	err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if created.ID != "user-123" {
		t.Errorf("expected id user-123, got %s", created.ID)
	}
	if created.Username != "alice" {
		t.Errorf("expected username alice, got %s", created.Username)
	}
	if created.PasswordHash == "password123" {
		t.Error("stored hash equals plaintext password")
	}
	if created.PasswordHash == "" {
		t.Error("expected non-empty password hash")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	testCases := []struct {
		name     string
		username string
		password string
		wantMsg  string
	}{
		{"missing username", "", "password123", service.MsgInvalidUsername},
		{"missing password", "alice", "", service.MsgInvalidPassword},
		{"short password", "alice", "12345", service.MsgPasswordTooSmall},
		{"overlong password", "alice", string(make([]byte, 100)), service.MsgInvalidPassword},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Register(context.Background(), service.RegisterInput{
				Username: tc.username,
				Password: tc.password,
			})

			vErr, ok := service.AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if vErr.Error() != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, vErr.Error())
			}
		})
	}

	if repo.createCalls != 0 {
		t.Errorf("expected no store writes on validation failure, got %d", repo.createCalls)
	}
}

func TestRegister_SixCharPasswordAccepted(t *testing.T) {
	svc, _, _, _, _ := setupAuthService(t)

	err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "123456",
	})
	if err != nil {
		t.Fatalf("expected 6-character password to be accepted, got %v", err)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.createFunc = func(_ context.Context, _ domain.User) error {
		return repository.ErrUsernameAlreadyExists
	}

	err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegister_StoreFaultMappedToAuthError(t *testing.T) {
	svc, repo, _, _, _ := setupAuthService(t)

	repo.createFunc = func(_ context.Context, _ domain.User) error {
		return errors.New("connection reset")
	}

	err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "password123",
	})

	var authErr *service.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Code != "DB_ERROR" {
		t.Errorf("expected code DB_ERROR, got %s", authErr.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, repo, hasher, tokens, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, username string) (domain.User, error) {
		return domain.User{ID: "user-123", Username: "alice", PasswordHash: "stored-hash"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		if hash != "stored-hash" || password != "password123" {
			return errors.New("mismatch")
		}
		return nil
	}

	var signed token.Claims
	tokens.signFunc = func(claims token.Claims) (string, error) {
		signed = claims
		return "the-token", nil
	}

	tok, err := svc.Login(context.Background(), service.LoginInput{
		Username: "alice",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tok != "the-token" {
		t.Errorf("expected the-token, got %s", tok)
	}
	if signed.ID != "user-123" || signed.Username != "alice" {
		t.Errorf("unexpected claims: %+v", signed)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _, _, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Username: "nobody",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_WrongPasswordIsAnError(t *testing.T) {
	svc, repo, hasher, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(_ context.Context, _ string) (domain.User, error) {
		return domain.User{ID: "user-123", Username: "alice", PasswordHash: "stored-hash"}, nil
	}
	hasher.compareFunc = func(_, _ string) error {
		return errors.New("mismatch")
	}

	_, err := svc.Login(context.Background(), service.LoginInput{
		Username: "alice",
		Password: "wrongpassword",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword_Success(t *testing.T) {
	svc, repo, _, tokens, _ := setupAuthService(t)

	tokens.verifyFunc = func(_ string) (token.Claims, error) {
		return token.Claims{ID: "user-123", Username: "alice"}, nil
	}

	var updatedID domain.ID
	var updatedHash string
	repo.updatePasswordHashFunc = func(_ context.Context, id domain.ID, hash string) (int64, error) {
		updatedID = id
		updatedHash = hash
		return 1, nil
	}

	err := svc.ChangePassword(context.Background(), service.ChangePasswordInput{
		Token:       "valid-token",
		NewPassword: "newpassword1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updatedID != "user-123" {
		t.Errorf("expected update for user-123, got %s", updatedID)
	}
	if updatedHash == "newpassword1" {
		t.Error("stored hash equals plaintext password")
	}
}

func TestChangePassword_InvalidToken(t *testing.T) {
	svc, repo, _, tokens, _ := setupAuthService(t)

	tokens.verifyFunc = func(_ string) (token.Claims, error) {
		return token.Claims{}, token.ErrInvalidToken
	}

	err := svc.ChangePassword(context.Background(), service.ChangePasswordInput{
		Token:       "forged",
		NewPassword: "newpassword1",
	})
	if !errors.Is(err, token.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Errorf("expected no store writes for invalid token, got %d", repo.updateCalls)
	}
}

func TestChangePassword_ValidatesBeforeVerifyingToken(t *testing.T) {
	svc, repo, _, tokens, _ := setupAuthService(t)

	err := svc.ChangePassword(context.Background(), service.ChangePasswordInput{
		Token:       "whatever",
		NewPassword: "short",
	})

	vErr, ok := service.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Error() != service.MsgPasswordTooSmall {
		t.Errorf("expected %q, got %q", service.MsgPasswordTooSmall, vErr.Error())
	}
	if tokens.verifyCalls != 0 {
		t.Errorf("expected token not verified on validation failure, got %d calls", tokens.verifyCalls)
	}
	if repo.updateCalls != 0 {
		t.Errorf("expected no store writes, got %d", repo.updateCalls)
	}
}

func TestChangePassword_NoMatchingUserStillSucceeds(t *testing.T) {
	svc, repo, _, tokens, _ := setupAuthService(t)

	tokens.verifyFunc = func(_ string) (token.Claims, error) {
		return token.Claims{ID: "gone-user", Username: "ghost"}, nil
	}
	repo.updatePasswordHashFunc = func(_ context.Context, _ domain.ID, _ string) (int64, error) {
		return 0, nil
	}

	err := svc.ChangePassword(context.Background(), service.ChangePasswordInput{
		Token:       "valid-token",
		NewPassword: "newpassword1",
	})
	if err != nil {
		t.Fatalf("expected no error for vanished user, got %v", err)
	}
}
