// Package apperror classifies failures so every action can be rendered
// into the same response envelope.
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindAuthFailure
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindAuthFailure:
		return "AUTH_FAILURE"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus: InvalidInput & Conflict share 400, AuthFailure & Unauthenticated share 401.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput, KindConflict:
		return fiber.StatusBadRequest
	case KindAuthFailure, KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string) *Error    { return New(KindInvalidInput, message) }
func AuthFailure(message string) *Error     { return New(KindAuthFailure, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf returns KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
