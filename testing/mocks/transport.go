// Package mocks provides testify-based mocks of httpkit interfaces.
package mocks

import (
	"context"
	nethttp "net/http"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/httpkit/http"
)

var _ http.Transport = (*MockTransport)(nil)

// MockTransport provides a testify-based mock implementation of http.Transport.
//
// Example usage:
//
//	transport := &mocks.MockTransport{}
//	transport.On("Execute", mock.Anything, "GET", "users", mock.Anything).
//		Return(&http.RawResponse{StatusCode: 200}, nil)
type MockTransport struct {
	mock.Mock
}

// Execute implements http.Transport
func (m *MockTransport) Execute(ctx context.Context, method, rawURL string, opts *http.Options) (*http.RawResponse, error) {
	arguments := m.Called(ctx, method, rawURL, opts)
	var raw *http.RawResponse
	if r := arguments.Get(0); r != nil {
		raw = r.(*http.RawResponse)
	}
	return raw, arguments.Error(1)
}

// ExpectExecute sets up an expectation for any attempt.
func (m *MockTransport) ExpectExecute(raw *http.RawResponse, err error) *mock.Call {
	return m.On("Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(raw, err)
}

// ExpectStatus sets up every attempt to answer with status and a JSON body.
func (m *MockTransport) ExpectStatus(status int, body string) *mock.Call {
	return m.ExpectExecute(JSONResponse(status, body), nil)
}

// ExpectRequest sets up an expectation for attempts with a specific method and URL.
func (m *MockTransport) ExpectRequest(method, rawURL string, raw *http.RawResponse, err error) *mock.Call {
	return m.On("Execute", mock.Anything, method, rawURL, mock.Anything).Return(raw, err)
}

// JSONResponse builds a raw response with a JSON content type.
func JSONResponse(status int, body string) *http.RawResponse {
	return &http.RawResponse{
		StatusCode: status,
		Headers:    nethttp.Header{"Content-Type": {"application/json"}},
		Body:       []byte(body),
	}
}
