package service

import (
	"errors"
	"fmt"

	"collab-deck-backend/internal/logger"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrDeliveryFailure = errors.New("delivery failure")
	ErrInternal        = errors.New("internal error")
)

// Error pairs a taxonomy kind with a message safe to show the caller.
// errors.Is(err, ErrForbidden) and friends match on Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// internalError logs the underlying store or infra failure and hides it from
// the caller.
func internalError(method string, err error, args ...any) error {
	logger.ExitMethodWithError(method, err, args...)
	return &Error{Kind: ErrInternal, Message: "internal server error"}
}

// Message returns the caller-facing text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if errors.Is(err, ErrInternal) {
		return "internal server error"
	}
	return err.Error()
}
