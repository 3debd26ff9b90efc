package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username/password")
	ErrUsernameTaken      = errors.New("username already in use")
)

// AuthError wraps unexpected internal failures (store, hashing). The Message
// is safe for logs; clients only ever see a generic "internal error".
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
