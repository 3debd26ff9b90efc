// Package token signs and verifies the stateless bearer tokens issued at
// login. A token carries the user id and username and nothing else; there is
// no revocation list, so a token is valid until it expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ID       string
	Username string
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a signer/verifier around a shared secret. A zero ttl
// disables the expiry claim entirely.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Service) Sign(claims Claims) (string, error) {
	now := s.now()
	mapClaims := jwt.MapClaims{
		"sub": claims.ID,
		"usr": claims.Username,
		"iat": now.Unix(),
	}
	if s.ttl > 0 {
		mapClaims["exp"] = now.Add(s.ttl).Unix()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return t.SignedString(s.secret)
}

func (s *Service) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["usr"].(string)
	if sub == "" || username == "" {
		return Claims{}, fmt.Errorf("%w: missing sub or usr claims", ErrInvalidToken)
	}

	return Claims{ID: sub, Username: username}, nil
}
