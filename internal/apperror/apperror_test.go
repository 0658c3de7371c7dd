package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("mountain", "42"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("username", "username is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("user", "alice"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("not authorized to delete this mountain"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("invalid credentials"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated is not Forbidden",
			err:       Unauthenticated("invalid credentials"),
			target:    ErrForbidden,
			wantMatch: false,
		},
		{
			name:      "NotFound does not match ErrValidation",
			err:       NotFound("mountain", "42"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	// Services wrap on the way up; classification must survive the chain.
	err := fmt.Errorf("creating mountain: %w", Conflict("user", "alice"))
	if !errors.Is(err, ErrConflict) {
		t.Error("wrapped Conflict should still match ErrConflict")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As should extract the AppError from the chain")
	}
	if appErr.Message != "user conflict with id alice" {
		t.Errorf("Message = %q, want %q", appErr.Message, "user conflict with id alice")
	}
}

func TestWithData(t *testing.T) {
	err := NotFound("wishlist entry", "7").WithData([]int{1, 3})

	if !errors.Is(err, ErrNotFound) {
		t.Error("WithData should not change the error classification")
	}

	var appErr *AppError
	if !errors.As(error(err), &appErr) {
		t.Fatal("errors.As should extract the AppError")
	}
	data, ok := appErr.Data.([]int)
	if !ok {
		t.Fatalf("Data = %T, want []int", appErr.Data)
	}
	if len(data) != 2 || data[0] != 1 || data[1] != 3 {
		t.Errorf("Data = %v, want [1 3]", data)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("mountain", "42"),
			wantMessage: "mountain not found with id 42",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("height", "height must be a positive number of meters"),
			wantMessage: "height must be a positive number of meters",
		},
		{
			name:        "Forbidden uses custom message",
			err:         Forbidden("admin role required"),
			wantMessage: "admin role required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}
