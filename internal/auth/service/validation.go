package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const (
	MsgInvalidUsername  = "Invalid username"
	MsgInvalidPassword  = "Invalid password"
	MsgPasswordTooSmall = "Password too small. Should be at least 6 characters"
)

type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

var validate = validator.New()

type credentials struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required,min=6,max=72"`
}

type newPassword struct {
	Password string `validate:"required,min=6,max=72"`
}

func validateCredentials(username, password string) error {
	return mapFieldErrors(validate.Struct(credentials{Username: username, Password: password}))
}

func validateNewPassword(password string) error {
	return mapFieldErrors(validate.Struct(newPassword{Password: password}))
}

// mapFieldErrors translates validator output into the canonical client
// messages. First failing field wins, matching the original check order.
func mapFieldErrors(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{message: MsgInvalidUsername}
	}

	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Username":
			return &ValidationError{message: MsgInvalidUsername}
		case "Password":
			if fe.Tag() == "min" {
				return &ValidationError{message: MsgPasswordTooSmall}
			}
			return &ValidationError{message: MsgInvalidPassword}
		}
	}

	return &ValidationError{message: MsgInvalidUsername}
}
