package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
)

// ClientError is implemented by every error the builder returns.
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error
type ErrorType string

const (
	// TransportErrorType is a network, TLS or timeout failure. It never carries a status code.
	TransportErrorType ErrorType = "transport"
	// DomainErrorType is a 4xx/5xx response from the remote service.
	DomainErrorType ErrorType = "domain"
	// UnsupportedMethodErrorType is a forward of a method outside GET, HEAD, POST, PUT, PATCH and DELETE.
	UnsupportedMethodErrorType ErrorType = "unsupported_method"
)

// TransportError reports that no usable response was received.
type TransportError struct {
	message string
	wrapped error
	timeout bool
}

// NewTransportError creates a transport error. Timeouts are detected from wrapped.
func NewTransportError(message string, wrapped error) *TransportError {
	return &TransportError{
		message: message,
		wrapped: wrapped,
		timeout: isTimeout(wrapped),
	}
}

func (e *TransportError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("transport error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("transport error: %s", e.message)
}

func (e *TransportError) Type() ErrorType { return TransportErrorType }

func (e *TransportError) Unwrap() error { return e.wrapped }

// Message returns the error message without the wrapped cause.
func (e *TransportError) Message() string { return e.message }

// Timeout reports whether the attempt failed because a deadline passed.
func (e *TransportError) Timeout() bool { return e.timeout }

// DomainError is a 4xx/5xx response turned into an error.
type DomainError struct {
	message    string
	statusCode int
	payload    any
	body       []byte
}

// NewDomainError creates a domain error. payload is the decoded response body, or nil.
func NewDomainError(message string, statusCode int, payload any, body []byte) *DomainError {
	return &DomainError{
		message:    message,
		statusCode: statusCode,
		payload:    payload,
		body:       body,
	}
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status: %d)", e.message, e.statusCode)
}

func (e *DomainError) Type() ErrorType { return DomainErrorType }

func (e *DomainError) Message() string { return e.message }

func (e *DomainError) StatusCode() int { return e.statusCode }

// Payload returns the decoded JSON body of the failed response, or nil.
func (e *DomainError) Payload() any { return e.payload }

// Body returns the raw body of the failed response.
func (e *DomainError) Body() []byte { return e.body }

// RenderBody is the JSON body a server should answer with: the payload when
// present, otherwise {message, status}.
func (e *DomainError) RenderBody() any {
	if e.payload != nil {
		return e.payload
	}
	return map[string]any{
		"message": e.message,
		"status":  e.statusCode,
	}
}

// UnsupportedMethodError reports a forward of a method the builder cannot replay.
type UnsupportedMethodError struct {
	method string
}

// NewUnsupportedMethodError creates an unsupported method error.
func NewUnsupportedMethodError(method string) *UnsupportedMethodError {
	return &UnsupportedMethodError{method: method}
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unknown HTTP method '%s'", e.method)
}

func (e *UnsupportedMethodError) Type() ErrorType { return UnsupportedMethodErrorType }

func (e *UnsupportedMethodError) Method() string { return e.method }

// StatusCode is always 500: forwarding an unknown method is a programming error.
func (e *UnsupportedMethodError) StatusCode() int { return nethttp.StatusInternalServerError }

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

// IsHTTPStatusError checks if an error is a domain error with a specific status code
func IsHTTPStatusError(err error, statusCode int) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.StatusCode() == statusCode
	}
	return false
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
