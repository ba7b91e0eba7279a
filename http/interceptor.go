package http

import (
	"context"

	"github.com/gaborage/httpkit/trace"
)

// RequestInterceptor runs before every attempt and may adjust that attempt's
// options. An error fails the attempt.
type RequestInterceptor func(ctx context.Context, method, rawURL string, opts *Options) error

// ResponseInterceptor runs after every attempt that produced a response,
// before it is classified. An error fails the attempt.
type ResponseInterceptor func(ctx context.Context, method, rawURL string, raw *RawResponse) error

// RequestIDInterceptor repeats the request id carried by ctx as X-Request-ID
// unless the header was set explicitly. Builders install it by default.
func RequestIDInterceptor(ctx context.Context, _, _ string, opts *Options) error {
	if id, ok := trace.RequestIDFromContext(ctx); ok && opts.Headers.Get(trace.HeaderXRequestID) == "" {
		opts.Headers.Set(trace.HeaderXRequestID, id)
	}
	return nil
}

// runRequestInterceptors executes all request interceptors
func runRequestInterceptors(ctx context.Context, method, rawURL string, opts *Options) error {
	for _, interceptor := range opts.RequestInterceptors {
		if err := interceptor(ctx, method, rawURL, opts); err != nil {
			return err
		}
	}
	return nil
}

// runResponseInterceptors executes all response interceptors
func runResponseInterceptors(ctx context.Context, method, rawURL string, opts *Options, raw *RawResponse) error {
	for _, interceptor := range opts.ResponseInterceptors {
		if err := interceptor(ctx, method, rawURL, raw); err != nil {
			return err
		}
	}
	return nil
}
