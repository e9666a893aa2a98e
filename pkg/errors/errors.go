package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeExtraction  ErrorType = "extraction"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a typed failure from the HTTP collaborator or the profiler.
// Code carries the HTTP status when there was one, 0 otherwise.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	URL     string
}

func (e *Error) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s error (code %d) for %s: %s", e.Type, e.Code, e.URL, e.Message)
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New builds an Error without a status code
func New(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// FromStatus maps a non-success HTTP status to a typed error. It returns nil
// for 2xx and 3xx codes.
func FromStatus(statusCode int, url string) *Error {
	e := &Error{Code: statusCode, URL: url}
	switch {
	case statusCode < 400:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Type, e.Message = ErrorTypeAuth, "authentication required"
	case statusCode == http.StatusNotFound:
		e.Type, e.Message = ErrorTypeNotFound, "resource not found"
	case statusCode == http.StatusTooManyRequests:
		e.Type, e.Message = ErrorTypeRateLimit, "rate limit exceeded"
	case statusCode >= 500:
		e.Type, e.Message = ErrorTypeServerError, "server error"
	default:
		e.Type, e.Message = ErrorTypeUnknown, fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}
