package service_test

import (
	"context"

	"github.com/rmelnikov/authgate/internal/auth/domain"
	"github.com/rmelnikov/authgate/internal/auth/repository"
	"github.com/rmelnikov/authgate/internal/token"
)

type mockRepo struct {
	createFunc             func(ctx context.Context, user domain.User) error
	findByUsernameFunc     func(ctx context.Context, username string) (domain.User, error)
	updatePasswordHashFunc func(ctx context.Context, id domain.ID, hash string) (int64, error)

	createCalls int
	updateCalls int
}

func (m *mockRepo) Create(ctx context.Context, user domain.User) error {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockRepo) UpdatePasswordHash(ctx context.Context, id domain.ID, hash string) (int64, error) {
	m.updateCalls++
	if m.updatePasswordHashFunc != nil {
		return m.updatePasswordHashFunc(ctx, id, hash)
	}
	return 1, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type mockTokens struct {
	signFunc   func(claims token.Claims) (string, error)
	verifyFunc func(tokenString string) (token.Claims, error)

	verifyCalls int
}

func (m *mockTokens) Sign(claims token.Claims) (string, error) {
	if m.signFunc != nil {
		return m.signFunc(claims)
	}
	return "signed-token", nil
}

func (m *mockTokens) Verify(tokenString string) (token.Claims, error) {
	m.verifyCalls++
	if m.verifyFunc != nil {
		return m.verifyFunc(tokenString)
	}
	return token.Claims{}, token.ErrInvalidToken
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "id-1", nil
}
