package service

import (
	"errors"
	"net/http"
)

var (
	ErrUserNotFound    = errors.New("User not found!")
	ErrWrongPassword   = errors.New("Wrong password!")
	ErrCommentNotFound = errors.New("Comment not found")
	ErrContactNotFound = errors.New("Contact not found")
)

// ValidationError is a missing or malformed field in a request payload
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// ConflictError reports which unique field a write collided on
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	switch e.Field {
	case "username":
		return "Username is in use"
	case "email":
		return "E-mail address is in use"
	default:
		return "Username or e-mail address is in use"
	}
}

// HTTPStatus maps a service error to the status code and message exposed
// to clients. Unknown errors map to a 500 with a generic message, callers
// are expected to log them.
func HTTPStatus(err error) (int, string) {
	var ve *ValidationError
	var ce *ConflictError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg
	case errors.As(err, &ce):
		return http.StatusBadRequest, ce.Error()
	case errors.Is(err, ErrWrongPassword):
		return http.StatusUnauthorized, ErrWrongPassword.Error()
	}

	for _, nf := range []error{ErrUserNotFound, ErrCommentNotFound, ErrContactNotFound} {
		if errors.Is(err, nf) {
			return http.StatusNotFound, nf.Error()
		}
	}

	return http.StatusInternalServerError, "Internal server error"
}
