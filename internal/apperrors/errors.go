// Package apperrors holds the error kinds shared by repositories, services
// and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service matches exactly one of these
// through errors.Is.
var (
	ErrNotFound        = errors.New("not_found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidInput    = errors.New("invalid_input")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid_state")
	ErrInternal        = errors.New("internal")
)

var kinds = []error{
	ErrNotFound,
	ErrForbidden,
	ErrUnauthenticated,
	ErrInvalidInput,
	ErrConflict,
	ErrInvalidState,
	ErrInternal,
}

// Error is a kind plus a message that is safe to show to clients.
type Error struct {
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.cause }

func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps cause for logging while exposing only msg.
func Wrap(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

func NotFound(msg string) *Error     { return New(ErrNotFound, msg) }
func Forbidden(msg string) *Error    { return New(ErrForbidden, msg) }
func InvalidInput(msg string) *Error { return New(ErrInvalidInput, msg) }
func Conflict(msg string) *Error     { return New(ErrConflict, msg) }

// KindOf returns the kind err belongs to, ErrInternal for foreign errors.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// Message returns the client facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && KindOf(err) != ErrInternal {
		return e.Message
	}
	return "internal server error"
}
