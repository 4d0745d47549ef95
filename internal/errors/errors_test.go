package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrInternalServer, cause)

	if err.Code != ErrInternalServer.Code {
		t.Errorf("expected code %q, got %q", ErrInternalServer.Code, err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped error to unwrap to cause")
	}
	if err.Error() != ErrInternalServer.Message {
		t.Errorf("expected public message, got %q", err.Error())
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInvalidInput, "title is required")
	if err.Message != "title is required" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.StatusCode)
	}
	if ErrInvalidInput.Message != "Invalid input" {
		t.Error("sentinel must not be mutated")
	}
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel *AppError
		want     bool
	}{
		{"same sentinel", ErrTicketNotFound, ErrTicketNotFound, true},
		{"wrapped copy", Wrap(ErrUsernameTaken, stderrors.New("unique")), ErrUsernameTaken, true},
		{"fmt wrapped", fmt.Errorf("ctx: %w", ErrForbiddenTable), ErrForbiddenTable, true},
		{"different code", ErrUserNotFound, ErrTicketNotFound, false},
		{"plain error", stderrors.New("boom"), ErrInternalServer, false},
		{"nil", nil, ErrInternalServer, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.sentinel); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}
