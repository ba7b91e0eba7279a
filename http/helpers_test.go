package http

import (
	"context"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gaborage/httpkit/formdata"
	"github.com/gaborage/httpkit/logger"
)

// Test constants to avoid string duplication
const (
	testContentTypeHdr = "Content-Type"
	testJSONType       = "application/json"
	testBaseURL        = "https://api.example.com/"
	testUsersPath      = "api/users"
)

// createTestLogger creates a logger that outputs to stdout for testing
func createTestLogger() logger.Logger {
	return logger.New("info", false)
}

func newIPv4TestServer(t *testing.T, handler nethttp.Handler) *httptest.Server {
	t.Helper()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: unable to bind IPv4 listener: %v", err)
		return &httptest.Server{}
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &nethttp.Server{Handler: handler},
	}
	server.Start()
	return server
}

type roundTripperFunc func(*nethttp.Request) (*nethttp.Response, error)

func (f roundTripperFunc) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	return f(req)
}

type recordedCall struct {
	method string
	url    string
	opts   *Options
}

type scriptedResult struct {
	raw *RawResponse
	err error
}

func respond(status int, body string) scriptedResult {
	return scriptedResult{raw: &RawResponse{
		StatusCode: status,
		Headers:    nethttp.Header{testContentTypeHdr: {testJSONType}},
		Body:       []byte(body),
	}}
}

func fail(err error) scriptedResult {
	return scriptedResult{err: err}
}

// scriptedTransport replays results in order, repeating the last one.
type scriptedTransport struct {
	mu      sync.Mutex
	results []scriptedResult
	calls   []recordedCall
}

func newScriptedTransport(results ...scriptedResult) *scriptedTransport {
	return &scriptedTransport{results: results}
}

func (s *scriptedTransport) Execute(_ context.Context, method, rawURL string, opts *Options) (*RawResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, recordedCall{method: method, url: rawURL, opts: opts.Clone()})
	idx := len(s.calls) - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	r := s.results[idx]
	return r.raw, r.err
}

func (s *scriptedTransport) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedTransport) lastCall() recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

// newTestBuilder returns a builder whose retry sleeps are recorded instead of slept.
func newTestBuilder(transport Transport) (*Builder, *[]time.Duration) {
	var sleeps []time.Duration
	b := NewBuilder(createTestLogger(), transport)
	b.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return b, &sleeps
}

type fakeInbound struct {
	method      string
	path        string
	headers     nethttp.Header
	query       url.Values
	contentType string
	input       formdata.Value
	files       []formdata.FileGroup
}

func (f *fakeInbound) Method() string { return f.method }
func (f *fakeInbound) Path() string { return f.path }
func (f *fakeInbound) Headers() nethttp.Header { return f.headers }
func (f *fakeInbound) Query() url.Values { return f.query }
func (f *fakeInbound) ContentType() string { return f.contentType }
func (f *fakeInbound) Input() formdata.Value { return f.input }
func (f *fakeInbound) Files() []formdata.FileGroup { return f.files }
