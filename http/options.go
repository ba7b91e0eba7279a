package http

import (
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/gaborage/httpkit/formdata"
)

const (
	// DefaultTimeout is the default per-attempt timeout
	DefaultTimeout = 30 * time.Second

	// DefaultRetryDelay is the fixed delay between attempts
	DefaultRetryDelay = 1 * time.Second
)

// BodyKind identifies which body representation is set. They are mutually exclusive.
type BodyKind uint8

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyRaw
	BodyMultipart
)

// Body is the request payload. Only the member matching Kind is meaningful.
type Body struct {
	Kind   BodyKind
	JSON   any
	Raw    string
	Fields []formdata.Field
}

// Options accumulates the configuration of one logical request.
type Options struct {
	BaseURL string
	// Headers are keyed canonically; a later write for the same name replaces the earlier one.
	Headers nethttp.Header
	Query   url.Values
	Body    Body

	VerifyTLS       bool
	FollowRedirects bool
	// Timeout bounds each attempt. Zero means no timeout.
	Timeout time.Duration

	// RetryCount is the number of additional attempts after the first failure.
	RetryCount int
	RetryDelay time.Duration

	// HandleErrors turns 4xx/5xx responses into DomainErrors.
	HandleErrors bool

	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
}

// DefaultOptions returns options with TLS verification, redirect following
// and error handling enabled, and request id propagation installed.
func DefaultOptions() *Options {
	return &Options{
		Headers:              make(nethttp.Header),
		Query:                make(url.Values),
		VerifyTLS:            true,
		FollowRedirects:      true,
		Timeout:              DefaultTimeout,
		RetryDelay:           DefaultRetryDelay,
		HandleErrors:         true,
		RequestInterceptors:  []RequestInterceptor{RequestIDInterceptor},
		ResponseInterceptors: []ResponseInterceptor{},
	}
}

// Clone returns a deep copy of the header and query maps; body contents are shared.
func (o *Options) Clone() *Options {
	c := *o
	c.Headers = o.Headers.Clone()
	if c.Headers == nil {
		c.Headers = make(nethttp.Header)
	}
	c.Query = make(url.Values, len(o.Query))
	for k, v := range o.Query {
		c.Query[k] = append([]string(nil), v...)
	}
	c.RequestInterceptors = append([]RequestInterceptor(nil), o.RequestInterceptors...)
	c.ResponseInterceptors = append([]ResponseInterceptor(nil), o.ResponseInterceptors...)
	if o.Body.Fields != nil {
		c.Body.Fields = append([]formdata.Field(nil), o.Body.Fields...)
	}
	return &c
}
