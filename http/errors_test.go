package http

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutError struct{}

func (timeoutError) Error() string { return "i/o timeout" }
func (timeoutError) Timeout() bool { return true }
func (timeoutError) Temporary() bool { return true }

func TestTransportError(t *testing.T) {
	cause := errors.New("dial failed")
	err := NewTransportError("request execution failed", cause)

	assert.Equal(t, "transport error: request execution failed: dial failed", err.Error())
	assert.Equal(t, "request execution failed", err.Message())
	assert.Equal(t, TransportErrorType, err.Type())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.Timeout())

	assert.Equal(t, "transport error: no response", NewTransportError("no response", nil).Error())
}

func TestTransportErrorTimeout(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  bool
	}{
		{name: "deadline", cause: context.DeadlineExceeded, want: true},
		{name: "wrapped_deadline", cause: fmt.Errorf("get: %w", context.DeadlineExceeded), want: true},
		{name: "net_timeout", cause: timeoutError{}, want: true},
		{name: "cancelled", cause: context.Canceled, want: false},
		{name: "nil", cause: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTransportError("x", tt.cause).Timeout())
		})
	}
}

func TestDomainError(t *testing.T) {
	err := NewDomainError("not found", nethttp.StatusNotFound, nil, []byte("nope"))

	assert.Equal(t, "HTTP error: not found (status: 404)", err.Error())
	assert.Equal(t, DomainErrorType, err.Type())
	assert.Equal(t, map[string]any{"message": "not found", "status": 404}, err.RenderBody())

	payload := map[string]any{"code": "E1"}
	withPayload := NewDomainError("bad", nethttp.StatusBadRequest, payload, nil)
	assert.Equal(t, payload, withPayload.RenderBody())
}

func TestUnsupportedMethodError(t *testing.T) {
	err := NewUnsupportedMethodError("TRACE")

	assert.Equal(t, "unknown HTTP method 'TRACE'", err.Error())
	assert.Equal(t, "TRACE", err.Method())
	assert.Equal(t, nethttp.StatusInternalServerError, err.StatusCode())
	assert.Equal(t, UnsupportedMethodErrorType, err.Type())
}

func TestIsErrorType(t *testing.T) {
	domain := NewDomainError("x", nethttp.StatusConflict, nil, nil)

	assert.True(t, IsErrorType(domain, DomainErrorType))
	assert.True(t, IsErrorType(fmt.Errorf("wrapped: %w", domain), DomainErrorType))
	assert.False(t, IsErrorType(domain, TransportErrorType))
	assert.False(t, IsErrorType(errors.New("plain"), DomainErrorType))
	assert.False(t, IsErrorType(nil, DomainErrorType))
}

func TestIsHTTPStatusError(t *testing.T) {
	err := NewDomainError("x", nethttp.StatusConflict, nil, nil)

	assert.True(t, IsHTTPStatusError(err, nethttp.StatusConflict))
	assert.False(t, IsHTTPStatusError(err, nethttp.StatusNotFound))
	assert.False(t, IsHTTPStatusError(NewTransportError("x", nil), nethttp.StatusConflict))
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(299))
	assert.False(t, IsSuccessStatus(199))
	assert.False(t, IsSuccessStatus(300))
}
