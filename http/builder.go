package http

import (
	"context"
	"encoding/base64"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gaborage/httpkit/formdata"
	"github.com/gaborage/httpkit/logger"
)

const defaultTokenType = "Bearer"

// Builder accumulates the configuration of one logical request and executes
// it with retries. A Builder is not safe for concurrent use; create one per request.
type Builder struct {
	opts      *Options
	transport Transport
	logger    logger.Logger
	limiter   *rate.Limiter
	sleep     func(time.Duration)
}

// NewBuilder creates a builder with default options. A nil transport
// falls back to a new NetTransport.
func NewBuilder(log logger.Logger, transport Transport) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	if transport == nil {
		transport = NewNetTransport()
	}
	return &Builder{
		opts:      DefaultOptions(),
		transport: transport,
		logger:    log,
		sleep:     time.Sleep,
	}
}

// WithTransport replaces the transport that executes attempts.
func (b *Builder) WithTransport(t Transport) *Builder {
	b.transport = t
	return b
}

// WithBaseURL sets the URL relative request paths are resolved against.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.opts.BaseURL = baseURL
	return b
}

// WithHeaders sets each header, replacing any earlier value for the same name.
func (b *Builder) WithHeaders(headers map[string]string) *Builder {
	for key, value := range headers {
		b.opts.Headers.Set(key, value)
	}
	return b
}

// WithHeader sets a single header, replacing any earlier value.
func (b *Builder) WithHeader(key, value string) *Builder {
	b.opts.Headers.Set(key, value)
	return b
}

func (b *Builder) withHeaderValues(headers nethttp.Header) *Builder {
	for key, values := range headers {
		b.opts.Headers[nethttp.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	return b
}

// WithToken sets the Authorization header. The token type defaults to Bearer.
func (b *Builder) WithToken(token string, tokenType ...string) *Builder {
	kind := defaultTokenType
	if len(tokenType) > 0 {
		kind = tokenType[0]
	}
	return b.WithHeader("Authorization", strings.TrimSpace(kind+" "+token))
}

// WithBasicAuth sets a Basic Authorization header.
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return b.WithToken(credentials, "Basic")
}

// WithoutTLSVerification accepts any server certificate.
func (b *Builder) WithoutTLSVerification() *Builder {
	b.opts.VerifyTLS = false
	return b
}

// WithoutRedirecting returns 3xx responses instead of following them.
func (b *Builder) WithoutRedirecting() *Builder {
	b.opts.FollowRedirects = false
	return b
}

// WithTimeout bounds each attempt.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.opts.Timeout = timeout
	return b
}

// WithQuery replaces the query parameters.
func (b *Builder) WithQuery(query url.Values) *Builder {
	b.opts.Query = make(url.Values, len(query))
	for key, values := range query {
		b.opts.Query[key] = append([]string(nil), values...)
	}
	return b
}

// WithJSONBody sends body encoded as JSON. It replaces any other body.
func (b *Builder) WithJSONBody(body any) *Builder {
	b.opts.Body = Body{Kind: BodyJSON, JSON: body}
	return b
}

// WithRawBody sends body verbatim with Content-Type application/json.
func (b *Builder) WithRawBody(body string) *Builder {
	b.opts.Body = Body{Kind: BodyRaw, Raw: body}
	return b.WithHeader("Content-Type", "application/json")
}

// WithMultipartBody sends fields as multipart/form-data. See formdata.Build.
func (b *Builder) WithMultipartBody(fields []formdata.Field) *Builder {
	b.opts.Body = Body{Kind: BodyMultipart, Fields: append([]formdata.Field(nil), fields...)}
	return b
}

// WithRetries allows n additional attempts after the first failure.
// Negative values are treated as zero.
func (b *Builder) WithRetries(n int) *Builder {
	if n < 0 {
		n = 0
	}
	b.opts.RetryCount = n
	return b
}

// WithRetryDelay sets the fixed pause between attempts.
func (b *Builder) WithRetryDelay(delay time.Duration) *Builder {
	b.opts.RetryDelay = delay
	return b
}

// WithoutErrorHandling returns 4xx/5xx responses instead of DomainErrors.
func (b *Builder) WithoutErrorHandling() *Builder {
	b.opts.HandleErrors = false
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.opts.RequestInterceptors = append(b.opts.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.opts.ResponseInterceptors = append(b.opts.ResponseInterceptors, interceptor)
	return b
}

// WithRateLimiter paces every attempt through l.
func (b *Builder) WithRateLimiter(l *rate.Limiter) *Builder {
	b.limiter = l
	return b
}

// Options returns a copy of the accumulated options.
func (b *Builder) Options() *Options {
	return b.opts.Clone()
}

func (b *Builder) Get(ctx context.Context, rawURL string) (*Response, error) {
	return b.Send(ctx, nethttp.MethodGet, rawURL)
}

func (b *Builder) Head(ctx context.Context, rawURL string) (*Response, error) {
	return b.Send(ctx, nethttp.MethodHead, rawURL)
}

// Post sends a POST. An unset body is sent as an empty JSON object.
func (b *Builder) Post(ctx context.Context, rawURL string) (*Response, error) {
	return b.Send(ctx, nethttp.MethodPost, rawURL)
}

func (b *Builder) Put(ctx context.Context, rawURL string) (*Response, error) {
	return b.Send(ctx, nethttp.MethodPut, rawURL)
}

func (b *Builder) Patch(ctx context.Context, rawURL string) (*Response, error) {
	return b.Send(ctx, nethttp.MethodPatch, rawURL)
}

func (b *Builder) Delete(ctx context.Context, rawURL string) (*Response, error) {
	return b.Send(ctx, nethttp.MethodDelete, rawURL)
}

// Send executes the request, making up to RetryCount+1 attempts.
// It returns the first successful or passthrough response, or the error of the last attempt.
func (b *Builder) Send(ctx context.Context, method, rawURL string) (*Response, error) {
	method = strings.ToUpper(method)
	opts := b.prepare(method)
	start := time.Now()

	for attempt := 1; ; attempt++ {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				terr := NewTransportError("rate limiter wait failed", err)
				b.logFailure(method, rawURL, attempt, terr)
				return nil, terr
			}
		}

		outcome := b.attempt(ctx, method, rawURL, attempt, opts)
		if !outcome.Failed() {
			resp := NewResponse(outcome.Response, Stats{Attempts: attempt, ElapsedTime: time.Since(start)})
			b.logResponse(method, rawURL, outcome, resp)
			return resp, nil
		}

		if attempt > opts.RetryCount {
			b.logFailure(method, rawURL, attempt, outcome.Err)
			return nil, outcome.Err
		}

		b.logRetry(method, rawURL, attempt, opts.RetryDelay, outcome.Err)
		if opts.RetryDelay > 0 {
			b.sleep(opts.RetryDelay)
		}
	}
}

// attempt runs the interceptors around one transport call and classifies the result.
func (b *Builder) attempt(ctx context.Context, method, rawURL string, attempt int, opts *Options) Outcome {
	if err := runRequestInterceptors(ctx, method, rawURL, opts); err != nil {
		return Outcome{Kind: OutcomeTransportError, Err: NewTransportError("request interceptor failed", err)}
	}

	b.logRequest(method, rawURL, attempt, opts)

	attemptStart := time.Now()
	raw, err := b.transport.Execute(ctx, method, rawURL, opts)
	logger.IncrementOutboundCounter(ctx)
	logger.AddOutboundElapsed(ctx, time.Since(attemptStart).Nanoseconds())

	if err == nil && raw != nil {
		if ierr := runResponseInterceptors(ctx, method, rawURL, opts, raw); ierr != nil {
			return Outcome{Kind: OutcomeTransportError, Err: NewTransportError("response interceptor failed", ierr)}
		}
	}
	return Classify(raw, err, opts.HandleErrors)
}

// prepare snapshots the options for one Send so later setter calls cannot
// change attempts in flight.
func (b *Builder) prepare(method string) *Options {
	opts := b.opts.Clone()
	if opts.Body.Kind == BodyNone && sendsDefaultJSON(method) {
		opts.Body = Body{Kind: BodyJSON, JSON: map[string]any{}}
	}
	return opts
}

func sendsDefaultJSON(method string) bool {
	switch method {
	case nethttp.MethodPost, nethttp.MethodPut, nethttp.MethodPatch:
		return true
	default:
		return false
	}
}

func (b *Builder) logRequest(method, rawURL string, attempt int, opts *Options) {
	b.logger.Debug().
		Str("method", method).
		Str("url", rawURL).
		Str("base_url", opts.BaseURL).
		Int("attempt", attempt).
		Interface("headers", opts.Headers).
		Interface("query", opts.Query).
		Msg("Outbound request")
}

func (b *Builder) logResponse(method, rawURL string, outcome Outcome, resp *Response) {
	b.logger.Info().
		Str("method", method).
		Str("url", rawURL).
		Int("status", resp.StatusCode()).
		Str("outcome", outcome.Kind.String()).
		Int("attempts", resp.Stats().Attempts).
		Dur("elapsed", resp.Stats().ElapsedTime).
		Msg("Outbound request completed")
}

func (b *Builder) logRetry(method, rawURL string, attempt int, delay time.Duration, err error) {
	b.logger.Warn().
		Err(err).
		Str("method", method).
		Str("url", rawURL).
		Int("attempt", attempt).
		Dur("delay", delay).
		Msg("Outbound request failed, retrying")
}

func (b *Builder) logFailure(method, rawURL string, attempts int, err error) {
	b.logger.Error().
		Err(err).
		Str("method", method).
		Str("url", rawURL).
		Int("attempts", attempts).
		Msg("Outbound request failed")
}
