package http

import (
	"context"
	"mime"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/gaborage/httpkit/formdata"
)

// InboundRequest is the view of a received request that Forward replays.
type InboundRequest interface {
	Method() string
	// Path is relative, without a leading slash, so it resolves under the base URL.
	Path() string
	Headers() nethttp.Header
	Query() url.Values
	ContentType() string
	// Input is the decoded form or JSON body.
	Input() formdata.Value
	// Files are the uploaded files grouped by field name.
	Files() []formdata.FileGroup
}

// hopHeaders are never copied from an inbound request.
var hopHeaders = []string{
	"Host",
	"Content-Length",
	"Content-Type",
	"Connection",
	"Keep-Alive",
	"Proxy-Connection",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Forward replays in against the builder's base URL. Headers and query
// are copied; POST, PUT, PATCH and DELETE re-encode the input as multipart
// when the inbound request was multipart/form-data and as JSON otherwise.
// Any other method fails with an UnsupportedMethodError.
func (b *Builder) Forward(ctx context.Context, in InboundRequest) (*Response, error) {
	method := strings.ToUpper(in.Method())
	switch method {
	case nethttp.MethodGet, nethttp.MethodHead:
	case nethttp.MethodPost, nethttp.MethodPut, nethttp.MethodPatch, nethttp.MethodDelete:
		if IsMultipart(in.ContentType()) {
			b.WithMultipartBody(formdata.Build(in.Input(), in.Files()))
		} else {
			b.WithJSONBody(in.Input())
		}
	default:
		return nil, NewUnsupportedMethodError(in.Method())
	}

	b.withHeaderValues(ForwardableHeaders(in.Headers()))
	if q := in.Query(); len(q) > 0 {
		b.WithQuery(q)
	}
	return b.Send(ctx, method, in.Path())
}

// ForwardableHeaders returns a copy of h without hop-by-hop and body framing headers.
func ForwardableHeaders(h nethttp.Header) nethttp.Header {
	out := h.Clone()
	if out == nil {
		return make(nethttp.Header)
	}
	for _, name := range hopHeaders {
		out.Del(name)
	}
	return out
}

// IsMultipart reports whether contentType is multipart/form-data.
func IsMultipart(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "multipart/form-data"
}
