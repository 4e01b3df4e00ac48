package crossref

import (
	"errors"
	"fmt"
	"time"
)

// ClientError represents different types of metadata client errors
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error
type ErrorType string

const (
	// TransportError covers network-layer failures not tied to an HTTP
	// status: connection resets, DNS failures, broken reads.
	TransportError ErrorType = "transport"
	// TimeoutError marks attempts aborted by the per-attempt deadline.
	TimeoutError ErrorType = "timeout"
	// HTTPError marks a terminal, non-retryable HTTP status.
	HTTPError ErrorType = "http"
	// DeserializeError marks a 2xx response whose body does not conform to
	// the expected schema.
	DeserializeError ErrorType = "deserialize"
	// RetryExhaustedError marks a retry budget consumed without a terminal
	// outcome; it wraps the last observed retryable cause.
	RetryExhaustedError ErrorType = "retry_exhausted"
)

type transportError struct {
	message string
	wrapped error
}

func (e *transportError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("transport error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("transport error: %s", e.message)
}

func (e *transportError) Type() ErrorType {
	return TransportError
}

func (e *transportError) Unwrap() error {
	return e.wrapped
}

type timeoutError struct {
	message string
	timeout time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %v)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType {
	return TimeoutError
}

type httpError struct {
	message    string
	statusCode int
	body       []byte
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status: %d)", e.message, e.statusCode)
}

func (e *httpError) Type() ErrorType {
	return HTTPError
}

func (e *httpError) StatusCode() int {
	return e.statusCode
}

func (e *httpError) Body() []byte {
	return e.body
}

type deserializeError struct {
	message string
	wrapped error
}

func (e *deserializeError) Error() string {
	return fmt.Sprintf("deserialize error: %s: %v", e.message, e.wrapped)
}

func (e *deserializeError) Type() ErrorType {
	return DeserializeError
}

func (e *deserializeError) Unwrap() error {
	return e.wrapped
}

type retryExhaustedError struct {
	attempts int
	last     error
}

func (e *retryExhaustedError) Error() string {
	return fmt.Sprintf("retry budget exhausted after %d attempts: %v", e.attempts, e.last)
}

func (e *retryExhaustedError) Type() ErrorType {
	return RetryExhaustedError
}

func (e *retryExhaustedError) Unwrap() error {
	return e.last
}

func (e *retryExhaustedError) Attempts() int {
	return e.attempts
}

// NewTransportError creates a new transport error
func NewTransportError(message string, wrapped error) ClientError {
	return &transportError{
		message: message,
		wrapped: wrapped,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{
		message: message,
		timeout: timeout,
	}
}

// NewHTTPError creates a new HTTP status error
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{
		message:    message,
		statusCode: statusCode,
		body:       body,
	}
}

// NewDeserializeError creates a new deserialize error
func NewDeserializeError(message string, wrapped error) ClientError {
	return &deserializeError{
		message: message,
		wrapped: wrapped,
	}
}

// NewRetryExhaustedError wraps the last retryable cause together with the
// total attempt count
func NewRetryExhaustedError(attempts int, last error) ClientError {
	return &retryExhaustedError{
		attempts: attempts,
		last:     last,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsHTTPStatusError checks if an error is an HTTP error with a specific status code
func IsHTTPStatusError(err error, statusCode int) bool {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode() == statusCode
	}
	return false
}

// ErrorAttempts returns the attempt count carried by a retry-exhausted
// error, or 0 when err is of another kind.
func ErrorAttempts(err error) int {
	var exhausted *retryExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Attempts()
	}
	return 0
}
