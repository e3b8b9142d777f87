package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified error type of dataprep.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Stage is the lifecycle stage that raised the error.
	Stage Stage `json:"stage"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s [%s]: %s (cause: %v)", e.Code, e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Code, e.Stage, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError; the stage is derived from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Stage:      StageOf(code),
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Topology reports an illegal graph construction (rewiring a terminal node,
// linking after termination, ...).
func Topology(reason string) *AppError {
	return New(ErrCodeTopology, reason, http.StatusInternalServerError)
}

// Parse reports a read-side serialization failure.
func Parse(source string, cause error) *AppError {
	e := New(ErrCodeParse, fmt.Sprintf("Unable to read %s.", source), http.StatusBadRequest)
	e.Cause = cause
	return e.WithDetail("source", source)
}

// Write reports a write-side serialization failure.
func Write(target string, cause error) *AppError {
	e := New(ErrCodeWrite, fmt.Sprintf("Unable to write %s.", target), http.StatusInternalServerError)
	e.Cause = cause
	return e.WithDetail("target", target)
}

// Canceled reports an execution stopped by its caller.
func Canceled(cause error) *AppError {
	e := New(ErrCodeCanceled, "Execution canceled.", 499)
	e.Cause = cause
	return e
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("Invalid input: %s", reason), http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), http.StatusNotFound)
	e.WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource, id string) *AppError {
	e := New(ErrCodeAlreadyExists, fmt.Sprintf("A %s named %q already exists.", resource, id), http.StatusConflict)
	return e.WithDetail("resource", resource).WithDetail("id", id)
}

// Cache reports a content cache failure.
func Cache(key string, cause error) *AppError {
	e := New(ErrCodeCache, "Content cache operation failed.", http.StatusInternalServerError)
	e.Cause = cause
	return e.WithDetail("key", key)
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	e := New(ErrCodeInternal, "An unexpected error occurred.", http.StatusInternalServerError)
	e.Cause = cause
	return e
}
