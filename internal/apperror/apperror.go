// Package apperror defines the application's error taxonomy.
//
// Every domain error wraps one of the sentinel errors below, so callers can
// classify with errors.Is regardless of how many times the error has been
// wrapped on the way up. The HTTP layer maps each sentinel to a status code
// in exactly one place (handler/response.go); nothing below the handlers
// knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AppError carries a sentinel for classification plus a human-readable
// message safe to return to clients.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable error message
	Field   string // optional: field causing the error
	Data    any    // optional: payload for the error response
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithData attaches a payload to the error response, for operations that
// report the current state back alongside a rejection (a duplicate list add
// returns the unchanged list).
func (e *AppError) WithData(data any) *AppError {
	e.Data = data
	return e
}

// NotFound reports that a resource does not exist. Maps to 404.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a missing or malformed input field. Maps to 400.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness or duplicate-entry violation. Maps to 409.
func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden reports that an authenticated caller lacks permission — the
// caller is known, but is neither the resource owner nor an admin. Maps to
// 403, distinct from Unauthenticated.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated reports a missing, invalid, or expired credential, or a
// token whose subject no longer resolves to a user. Maps to 401.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}
