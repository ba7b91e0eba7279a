package mocks

import (
	"context"
	"errors"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/httpkit/http"
)

func TestMockTransportExpectRequest(t *testing.T) {
	transport := &MockTransport{}
	transport.ExpectRequest(nethttp.MethodGet, "users", JSONResponse(nethttp.StatusOK, `[]`), nil)

	raw, err := transport.Execute(context.Background(), nethttp.MethodGet, "users", http.DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, raw.StatusCode)
	assert.Equal(t, "application/json", raw.Headers.Get("Content-Type"))
	transport.AssertExpectations(t)
}

func TestMockTransportNilResponse(t *testing.T) {
	transport := &MockTransport{}
	boom := errors.New("boom")
	transport.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	raw, err := transport.Execute(context.Background(), nethttp.MethodPost, "x", http.DefaultOptions())

	assert.Nil(t, raw)
	assert.ErrorIs(t, err, boom)
}
