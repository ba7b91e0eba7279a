// Package fixtures provides pre-configured transports for common test scenarios.
package fixtures

import (
	"context"
	"errors"
	"sync"

	"github.com/gaborage/httpkit/http"
	"github.com/gaborage/httpkit/testing/mocks"
)

// ErrConnectionRefused is the default error of failing transports.
var ErrConnectionRefused = errors.New("dial tcp 127.0.0.1:1: connect: connection refused")

// NewStaticTransport creates a mock transport answering every attempt with
// status and a JSON body.
func NewStaticTransport(status int, body string) *mocks.MockTransport {
	transport := &mocks.MockTransport{}
	transport.ExpectStatus(status, body)
	return transport
}

// NewFailingTransport creates a mock transport failing every attempt with err,
// or ErrConnectionRefused when err is nil.
func NewFailingTransport(err error) *mocks.MockTransport {
	if err == nil {
		err = ErrConnectionRefused
	}
	transport := &mocks.MockTransport{}
	transport.ExpectExecute(nil, err)
	return transport
}

// NewFlakyTransport creates a mock transport whose first failures attempts
// fail at the transport level; later attempts return final.
func NewFlakyTransport(failures int, final *http.RawResponse) *mocks.MockTransport {
	transport := &mocks.MockTransport{}
	if failures > 0 {
		transport.ExpectExecute(nil, ErrConnectionRefused).Times(failures)
	}
	transport.ExpectExecute(final, nil)
	return transport
}

// Attempt is one call seen by a RecordingTransport.
type Attempt struct {
	Method  string
	URL     string
	Options *http.Options
}

// RecordingTransport records every attempt before delegating to Next.
type RecordingTransport struct {
	Next http.Transport

	mu       sync.Mutex
	attempts []Attempt
}

// NewRecordingTransport wraps next.
func NewRecordingTransport(next http.Transport) *RecordingTransport {
	return &RecordingTransport{Next: next}
}

// Execute implements http.Transport
func (r *RecordingTransport) Execute(ctx context.Context, method, rawURL string, opts *http.Options) (*http.RawResponse, error) {
	r.mu.Lock()
	r.attempts = append(r.attempts, Attempt{Method: method, URL: rawURL, Options: opts.Clone()})
	r.mu.Unlock()

	return r.Next.Execute(ctx, method, rawURL, opts)
}

// Attempts returns a copy of the recorded attempts.
func (r *RecordingTransport) Attempts() []Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Attempt(nil), r.attempts...)
}

// Last returns the most recent attempt. It panics when nothing was recorded.
func (r *RecordingTransport) Last() Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts[len(r.attempts)-1]
}
