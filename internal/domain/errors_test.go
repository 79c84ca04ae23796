package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"not found", &NotFoundError{Message: "record 9"}, ErrNotFound, http.StatusNotFound},
		{"validation", &ValidationError{Message: "id is required"}, ErrValidation, http.StatusBadRequest},
		{"unauthorized", &UnauthorizedError{Message: "no token"}, ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", &ForbiddenError{Message: "cannot edit"}, ErrForbidden, http.StatusForbidden},
		{"invalid path", &InvalidPathError{Path: "a/b", Message: "segment is a file"}, ErrInvalidPath, http.StatusUnprocessableEntity},
		{"conflict", &ConflictError{Message: "exists", ResourceType: "file", ResourceID: 3}, ErrConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service layer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", wrapped, tt.sentinel)
			}

			var httpErr HTTPError
			if !errors.As(wrapped, &httpErr) {
				t.Fatalf("errors.As did not find HTTPError in %v", wrapped)
			}
			if httpErr.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", httpErr.StatusCode(), tt.status)
			}
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if errors.Is(&ForbiddenError{}, ErrNotFound) {
		t.Error("ForbiddenError must not match ErrNotFound")
	}
	if errors.Is(&NotFoundError{}, ErrForbidden) {
		t.Error("NotFoundError must not match ErrForbidden")
	}
}
