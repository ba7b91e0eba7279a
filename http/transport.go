package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/gaborage/httpkit/formdata"
)

// Transport executes a single attempt. Implementations must not retry.
type Transport interface {
	Execute(ctx context.Context, method, rawURL string, opts *Options) (*RawResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, method, rawURL string, opts *Options) (*RawResponse, error)

func (f TransportFunc) Execute(ctx context.Context, method, rawURL string, opts *Options) (*RawResponse, error) {
	return f(ctx, method, rawURL, opts)
}

// NetTransport executes attempts with net/http. One instance is meant to be
// shared by all builders so connections are pooled.
type NetTransport struct {
	verified nethttp.RoundTripper
	insecure nethttp.RoundTripper
}

// NewNetTransport creates a transport backed by clones of http.DefaultTransport.
func NewNetTransport() *NetTransport {
	verified := nethttp.DefaultTransport.(*nethttp.Transport).Clone()
	insecure := verified.Clone()
	insecure.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opted into per request
	return &NetTransport{verified: verified, insecure: insecure}
}

// NewNetTransportWith uses rt for every request, ignoring Options.VerifyTLS.
func NewNetTransportWith(rt nethttp.RoundTripper) *NetTransport {
	return &NetTransport{verified: rt, insecure: rt}
}

// Execute performs one request. Bodies are not sent for GET and HEAD.
func (t *NetTransport) Execute(ctx context.Context, method, rawURL string, opts *Options) (*RawResponse, error) {
	target, err := ResolveURL(opts.BaseURL, rawURL, opts.Query)
	if err != nil {
		return nil, NewTransportError("invalid request URL", err)
	}

	body, contentType, err := encodeBody(method, opts.Body)
	if err != nil {
		return nil, NewTransportError("failed to encode request body", err)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, NewTransportError("failed to create HTTP request", err)
	}
	for key, values := range opts.Headers {
		req.Header[key] = append([]string(nil), values...)
	}
	if contentType != "" && (opts.Body.Kind == BodyMultipart || req.Header.Get("Content-Type") == "") {
		req.Header.Set("Content-Type", contentType)
	}
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}

	resp, err := t.client(opts).Do(req)
	if err != nil {
		return nil, NewTransportError("request execution failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError("failed to read response body", err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}

func (t *NetTransport) client(opts *Options) *nethttp.Client {
	rt := t.verified
	if !opts.VerifyTLS {
		rt = t.insecure
	}
	c := &nethttp.Client{Transport: rt, Timeout: opts.Timeout}
	if !opts.FollowRedirects {
		c.CheckRedirect = func(*nethttp.Request, []*nethttp.Request) error {
			return nethttp.ErrUseLastResponse
		}
	}
	return c
}

// ResolveURL resolves ref against base and merges query into it. Keys in
// query replace the same keys already present in ref.
func ResolveURL(base, ref string, query url.Values) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", ref, err)
	}
	if base != "" {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("failed to parse base URL %q: %w", base, err)
		}
		u = b.ResolveReference(u)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("URL %q is not absolute", u.String())
	}

	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			q.Del(key)
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(method string, body Body) (io.Reader, string, error) {
	if method == nethttp.MethodGet || method == nethttp.MethodHead {
		return nil, "", nil
	}

	switch body.Kind {
	case BodyJSON:
		data, err := json.Marshal(body.JSON)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	case BodyRaw:
		return strings.NewReader(body.Raw), "", nil
	case BodyMultipart:
		buf, contentType, err := formdata.Encode(body.Fields)
		if err != nil {
			return nil, "", err
		}
		return buf, contentType, nil
	default:
		return nil, "", nil
	}
}
