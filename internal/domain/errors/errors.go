package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures across the governance domain
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeBusiness   ErrorType = "business"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeExternal   ErrorType = "external"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeDegraded   ErrorType = "degraded"
)

// AppError represents a structured application error
type AppError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Retryable bool                   `json:"retryable"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Error constructors
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

func NewBusinessError(code, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeBusiness,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:      ErrorTypeNotFound,
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("%s not found", resource),
		Retryable: false,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeConflict,
		Code:      "CONFLICT",
		Message:   message,
		Retryable: false,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:      ErrorTypeInternal,
		Code:      "INTERNAL_ERROR",
		Message:   message,
		Retryable: true,
	}
}

// NewExternalError marks a collaborator outage; dependent detectors degrade,
// the run continues.
func NewExternalError(collaborator, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeExternal,
		Code:      "COLLABORATOR_ERROR",
		Message:   fmt.Sprintf("%s collaborator error: %s", collaborator, message),
		Retryable: true,
		Details:   map[string]interface{}{"collaborator": collaborator},
	}
}

// NewDegradedError marks a run truncated by budget exhaustion rather than failed.
func NewDegradedError(reason, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeDegraded,
		Code:      "RUN_DEGRADED",
		Message:   message,
		Retryable: false,
		Details:   map[string]interface{}{"reason": reason},
	}
}

// Predefined common errors
var (
	ErrInvalidInput       = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrAssetNotFound      = NewNotFoundError("asset")
	ErrDocumentNotFound   = NewNotFoundError("document")
	ErrUnknownFramework   = NewValidationError("UNKNOWN_FRAMEWORK", "Unknown compliance framework")
	ErrNonPositiveTimeout = NewValidationError("NON_POSITIVE_TIMEOUT", "Execution time budget must be positive")
	ErrDuplicateAsset     = NewConflictError("Duplicate asset detected")
)

// Join combines independent check failures into one error; nil entries are
// dropped and an all-nil input yields nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Wrap wraps an error with a message using fmt.Errorf with %w
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsNotFound checks for not-found errors from any layer
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}
