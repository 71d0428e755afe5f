// Package errors provides the structured error taxonomy surfaced by the search API.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeVenueNotFound        ErrorCode = "VENUE_NOT_FOUND"
	ErrCodeDirectoryUnavailable ErrorCode = "DIRECTORY_UNAVAILABLE"
	ErrCodeExtractionDegraded   ErrorCode = "EXTRACTION_DEGRADED"
	ErrCodeValidationCorrected  ErrorCode = "VALIDATION_CORRECTED"
	ErrCodeCompletionFailed     ErrorCode = "COMPLETION_FAILED"
	ErrCodeCompletionTimeout    ErrorCode = "COMPLETION_TIMEOUT"
	ErrCodeSearchQueryFailed    ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrCodeTimeout              ErrorCode = "TIMEOUT"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewVenueNotFoundError is the terminal error for a query whose venue could not be resolved.
func NewVenueNotFoundError(cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return newError(ErrCodeVenueNotFound, "Venue could not be resolved from the query", details, false, cause)
}

// NewDirectoryUnavailableError reports a failed directory or store RPC.
func NewDirectoryUnavailableError(directory string, cause error) *StandardError {
	return newError(ErrCodeDirectoryUnavailable,
		fmt.Sprintf("Directory '%s' is unavailable", directory),
		errString(cause), true, cause)
}

func NewExtractionDegradedError(facet string, cause error) *StandardError {
	return newError(ErrCodeExtractionDegraded,
		fmt.Sprintf("Extraction for '%s' returned nothing usable", facet),
		errString(cause), false, cause)
}

func NewCompletionFailedError(cause error) *StandardError {
	return newError(ErrCodeCompletionFailed, "Completion service error", errString(cause), true, cause)
}

func NewCompletionTimeoutError() *StandardError {
	return newError(ErrCodeCompletionTimeout, "Completion service timeout",
		"call exceeded timeout threshold", true, context.DeadlineExceeded)
}

func NewSearchQueryFailedError(cause error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Restaurant search failed", errString(cause), true, cause)
}

func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid request", details, false, nil)
}

func NewInternalError(cause error) *StandardError {
	return newError(ErrCodeInternal, "Internal server error", errString(cause), false, cause)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// FromError classifies err into a StandardError. Errors that already carry a
// code are returned as-is.
func FromError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var std *StandardError
	if stderrors.As(err, &std) {
		return std
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return newError(ErrCodeTimeout, "Request timed out", err.Error(), true, err)
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the HTTP status returned at the API boundary.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeVenueNotFound:
		return http.StatusNotFound
	case ErrCodeDirectoryUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeTimeout, ErrCodeCompletionTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCompletionFailed, ErrCodeSearchQueryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether err is worth retrying by the caller.
func IsRetryable(err error) bool {
	std := FromError(err)
	return std != nil && std.Retryable
}
