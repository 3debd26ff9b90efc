package service

import (
	"context"
	"errors"

	"github.com/rmelnikov/authgate/internal/auth/domain"
	"github.com/rmelnikov/authgate/internal/auth/repository"
	"github.com/rmelnikov/authgate/internal/common/clock"
	"github.com/rmelnikov/authgate/internal/common/crypto"
	"github.com/rmelnikov/authgate/internal/common/logger"
	"github.com/rmelnikov/authgate/internal/token"
)

// TokenService is the part of the token package the auth flow needs.
type TokenService interface {
	Sign(claims token.Claims) (string, error)
	Verify(tokenString string) (token.Claims, error)
}

type AuthService struct {
	repo        repository.Repository
	hasher      crypto.PasswordHasher
	tokens      TokenService
	idGenerator crypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

type Deps struct {
	Repo        repository.Repository
	Hasher      crypto.PasswordHasher
	Tokens      TokenService
	IDGenerator crypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

func NewAuthService(deps Deps) *AuthService {
	return &AuthService{
		repo:        deps.Repo,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		idGenerator: deps.IDGenerator,
		clock:       deps.Clock,
		log:         deps.Log,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type ChangePasswordInput struct {
	Token       string
	NewPassword string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return &AuthError{Code: "HASH_ERROR", Message: "failed to hash password", Err: err}
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return &AuthError{Code: "ID_ERROR", Message: "failed to generate user id", Err: err}
	}

	user := domain.User{
		ID:           domain.ID(id),
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: username already exists")
			incrementRegistrationConflicts()
			return ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return &AuthError{Code: "DB_ERROR", Message: "failed to create user", Err: err}
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	incrementUsersRegistered()
	return nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			incrementLoginAttempts("not_found")
			return "", ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return "", &AuthError{Code: "DB_ERROR", Message: "failed to fetch user", Err: err}
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		incrementLoginAttempts("wrong_password")
		return "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Sign(token.Claims{
		ID:       string(user.ID),
		Username: user.Username,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_token_sign_failed",
		}).Errorf("login failed: token sign error: %v", err)
		return "", &AuthError{Code: "TOKEN_ERROR", Message: "failed to sign token", Err: err}
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	incrementLoginAttempts("success")
	incrementTokensIssued()
	return tokenString, nil
}

// ChangePassword trusts possession of a valid token; the old password is not
// re-checked. Tokens are not revoked, so a stale token keeps working until
// it expires.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	s.log.WithFields(ctx, logger.Fields{
		"action": "change_password_attempt",
	}).Info("change password attempt")

	if err := validateNewPassword(input.NewPassword); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "change_password_validation_failed",
		}).Warnf("change password validation failed: %v", err)
		return err
	}

	claims, err := s.tokens.Verify(input.Token)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "change_password_invalid_token",
		}).Warnf("change password failed: %v", err)
		return err
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": claims.ID,
			"action":  "change_password_hash_failed",
		}).Errorf("change password failed: password hash error: %v", err)
		return &AuthError{Code: "HASH_ERROR", Message: "failed to hash password", Err: err}
	}

	rows, err := s.repo.UpdatePasswordHash(ctx, domain.ID(claims.ID), hash)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": claims.ID,
			"action":  "change_password_update_failed",
		}).Errorf("change password failed: %v", err)
		return &AuthError{Code: "DB_ERROR", Message: "failed to update password", Err: err}
	}

	if rows == 0 {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": claims.ID,
			"action":  "change_password_no_match",
		}).Warn("change password matched no user")
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": claims.ID,
		"action":  "change_password_success",
	}).Info("change password success")

	incrementPasswordChanges()
	return nil
}
