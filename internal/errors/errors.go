// Package errors provides custom error types for the Xchange API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// HasCode reports whether err is an AppError (or wraps one) carrying the
// same code as sentinel.
func HasCode(err error, sentinel *AppError) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == sentinel.Code
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidAdminKey    = &AppError{Code: "INVALID_ADMIN_KEY", Message: "Invalid or missing admin key", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Ticket errors.
var (
	ErrTicketNotFound      = &AppError{Code: "TICKET_NOT_FOUND", Message: "Ticket not found", StatusCode: http.StatusNotFound}
	ErrAuditLogUnavailable = &AppError{Code: "AUDIT_LOG_UNAVAILABLE", Message: "Deletion could not be recorded; ticket was kept", StatusCode: http.StatusInternalServerError}
	ErrInvalidIndex        = &AppError{Code: "INVALID_INDEX", Message: "Invalid log index", StatusCode: http.StatusBadRequest}
)

// User errors.
var (
	ErrUserNotFound  = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrUsernameTaken = &AppError{Code: "USERNAME_TAKEN", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
)

// Admin table errors.
var (
	ErrForbiddenTable = &AppError{Code: "FORBIDDEN_TABLE", Message: "Table not allowed", StatusCode: http.StatusForbidden}
	ErrEmptyUpdate    = &AppError{Code: "EMPTY_UPDATE", Message: "No fields to update", StatusCode: http.StatusBadRequest}
	ErrUnknownColumn  = &AppError{Code: "UNKNOWN_COLUMN", Message: "Column cannot be edited", StatusCode: http.StatusBadRequest}
)
