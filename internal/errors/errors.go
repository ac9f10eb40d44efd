// Package errors defines the application error kinds surfaced by the intake engine
// and the HTTP status each one maps to.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the kind of failure
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypePersistence   ErrorType = "persistence_error"
	ErrorTypeQuotaExceeded ErrorType = "quota_exceeded"
	ErrorTypeBillingLedger ErrorType = "billing_ledger_error"
	ErrorTypeDispatch      ErrorType = "dispatch_target_error"
	ErrorTypeInternal      ErrorType = "internal_error"
)

// AppError carries a failure kind, a caller-facing message and the underlying cause.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func newError(t ErrorType, code int, message string, details []string) *AppError {
	return &AppError{Type: t, Message: message, Code: code, Details: strings.Join(details, "; ")}
}

// NewValidationError creates a missing/invalid field error
func NewValidationError(message string, details ...string) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates an error for a referenced entity that does not exist
func NewNotFoundError(message string, details ...string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewQuotaExceededError is only produced when the hard quota mode is enabled
func NewQuotaExceededError(message string, details ...string) *AppError {
	return newError(ErrorTypeQuotaExceeded, http.StatusConflict, message, details)
}

func NewInternalError(message string, details ...string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewPersistenceError wraps a failed write of a primary entity.
func NewPersistenceError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypePersistence, Message: message, Code: http.StatusInternalServerError, Err: cause}
}

// NewBillingLedgerError wraps a failed secondary ledger write. It is never returned to callers.
func NewBillingLedgerError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeBillingLedger, Message: message, Code: http.StatusInternalServerError, Err: cause}
}

// NewDispatchError records why a single fan-out target failed.
func NewDispatchError(target string, cause error) *AppError {
	return &AppError{Type: ErrorTypeDispatch, Message: "delivery to " + target + " failed", Code: http.StatusBadGateway, Err: cause}
}

// As returns the AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// StatusCode maps any error to an HTTP status, defaulting to 500.
func StatusCode(err error) int {
	if appErr, ok := As(err); ok && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
