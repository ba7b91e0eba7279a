package http

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		handleErrors bool
		kind         OutcomeKind
	}{
		{name: "ok", status: nethttp.StatusOK, handleErrors: true, kind: OutcomeSuccess},
		{name: "no_content", status: nethttp.StatusNoContent, handleErrors: true, kind: OutcomeSuccess},
		{name: "redirect", status: nethttp.StatusFound, handleErrors: true, kind: OutcomeSuccess},
		{name: "upper_success_bound", status: 399, handleErrors: true, kind: OutcomeSuccess},
		{name: "bad_request", status: nethttp.StatusBadRequest, handleErrors: true, kind: OutcomeDomainError},
		{name: "upper_error_bound", status: 599, handleErrors: true, kind: OutcomeDomainError},
		{name: "passthrough_client_error", status: nethttp.StatusNotFound, handleErrors: false, kind: OutcomePassThrough},
		{name: "passthrough_server_error", status: nethttp.StatusInternalServerError, handleErrors: false, kind: OutcomePassThrough},
		{name: "success_without_handling", status: nethttp.StatusOK, handleErrors: false, kind: OutcomeSuccess},
		{name: "informational", status: nethttp.StatusSwitchingProtocols, handleErrors: true, kind: OutcomeSuccess},
		{name: "above_status_range", status: 600, handleErrors: true, kind: OutcomeTransportError},
		{name: "above_status_range_without_handling", status: 799, handleErrors: false, kind: OutcomeTransportError},
		{name: "below_status_range", status: 99, handleErrors: true, kind: OutcomeTransportError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &RawResponse{StatusCode: tt.status, Body: []byte(tt.body)}
			outcome := Classify(raw, nil, tt.handleErrors)

			assert.Equal(t, tt.kind, outcome.Kind)
			assert.Equal(t, tt.kind == OutcomeDomainError || tt.kind == OutcomeTransportError, outcome.Failed())
			if outcome.Failed() {
				assert.Nil(t, outcome.Response)
				require.NotNil(t, outcome.Err)
			} else {
				assert.Same(t, raw, outcome.Response)
				assert.Nil(t, outcome.Err)
			}
		})
	}
}

func TestClassifyDomainErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		payload any
	}{
		{
			name:    "message_field",
			status:  nethttp.StatusUnprocessableEntity,
			body:    `{"message":"invalid email","field":"email"}`,
			message: "invalid email",
			payload: map[string]any{"message": "invalid email", "field": "email"},
		},
		{
			name:    "no_message_field",
			status:  nethttp.StatusInternalServerError,
			body:    `{"error":"boom"}`,
			message: "HTTP request failed with status 500",
			payload: map[string]any{"error": "boom"},
		},
		{
			name:    "non_string_message",
			status:  nethttp.StatusBadRequest,
			body:    `{"message":42}`,
			message: "HTTP request failed with status 400",
			payload: map[string]any{"message": float64(42)},
		},
		{
			name:    "not_json",
			status:  nethttp.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			message: "HTTP request failed with status 502",
			payload: nil,
		},
		{
			name:    "empty_body",
			status:  nethttp.StatusServiceUnavailable,
			message: "HTTP request failed with status 503",
			payload: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Classify(&RawResponse{StatusCode: tt.status, Body: []byte(tt.body)}, nil, true)

			var domainErr *DomainError
			require.ErrorAs(t, outcome.Err, &domainErr)
			assert.Equal(t, tt.message, domainErr.Message())
			assert.Equal(t, tt.status, domainErr.StatusCode())
			assert.Equal(t, tt.payload, domainErr.Payload())
			assert.Equal(t, tt.body, string(domainErr.Body()))
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	t.Run("wraps_plain_error", func(t *testing.T) {
		cause := errors.New("connection refused")
		outcome := Classify(nil, cause, true)

		assert.Equal(t, OutcomeTransportError, outcome.Kind)
		assert.ErrorIs(t, outcome.Err, cause)
		assert.True(t, IsErrorType(outcome.Err, TransportErrorType))
	})

	t.Run("keeps_transport_error", func(t *testing.T) {
		te := NewTransportError("failed", context.DeadlineExceeded)
		outcome := Classify(nil, fmt.Errorf("attempt: %w", te), false)

		assert.Same(t, te, outcome.Err)
		assert.True(t, te.Timeout())
	})

	t.Run("missing_response", func(t *testing.T) {
		outcome := Classify(nil, nil, true)
		assert.Equal(t, OutcomeTransportError, outcome.Kind)
	})
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "passthrough", OutcomePassThrough.String())
	assert.Equal(t, "domain_error", OutcomeDomainError.String())
	assert.Equal(t, "transport_error", OutcomeTransportError.String())
	assert.Equal(t, "outcome(9)", OutcomeKind(9).String())
}
