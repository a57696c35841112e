package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason classifies an AppError for clients that branch on it.
type Reason string

const (
	ReasonValidation            Reason = "validation"
	ReasonLookupMiss            Reason = "lookup_miss"
	ReasonCapabilityUnavailable Reason = "capability_unavailable"
	ReasonSessionExpired        Reason = "session_expired"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Reason  Reason       `json:"reason,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid username or password"}
	ErrSessionExpired     = &AppError{Code: http.StatusUnauthorized, Message: "Session has expired", Reason: ReasonSessionExpired}
	ErrNoSession          = &AppError{Code: http.StatusUnauthorized, Message: "No active session"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Reason:  ReasonValidation,
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewLookupMiss reports a scanned code that matched nothing. The cart is left unchanged.
func NewLookupMiss(code string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("No product matches code %q", code),
		Reason:  ReasonLookupMiss,
	}
}

// NewCapabilityUnavailable reports an input device that could not be acquired.
func NewCapabilityUnavailable(capability string, cause error) *AppError {
	msg := capability + " is unavailable, use manual entry"
	if cause != nil {
		msg = capability + " is unavailable (" + cause.Error() + "), use manual entry"
	}
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Message: msg,
		Reason:  ReasonCapabilityUnavailable,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewForbiddenError creates a forbidden error with a custom message
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// HasReason reports whether err is an AppError with the given reason.
func HasReason(err error, reason Reason) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Reason == reason
}

// RemoteWriteError is a failed background write to the remote store.
// It is logged and counted, never returned to an HTTP caller.
type RemoteWriteError struct {
	Collection string
	Op         string
	IDs        []string
	Err        error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote %s on %s failed: %v", e.Op, e.Collection, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}
