package http

import (
	"encoding/json"
	"fmt"
	"mime"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// RawResponse is what a Transport hands back for one attempt.
type RawResponse struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Stats describes the request that produced a Response.
type Stats struct {
	Attempts    int
	ElapsedTime time.Duration
}

// Response is the read-only result of a request. None of its accessors fail:
// malformed JSON yields empty values.
type Response struct {
	statusCode int
	headers    nethttp.Header
	body       []byte
	stats      Stats
}

// NewResponse wraps a raw response.
func NewResponse(raw *RawResponse, stats Stats) *Response {
	r := &Response{stats: stats, headers: make(nethttp.Header)}
	if raw == nil {
		return r
	}
	r.statusCode = raw.StatusCode
	r.body = raw.Body
	if raw.Headers != nil {
		r.headers = raw.Headers.Clone()
	}
	return r
}

func (r *Response) StatusCode() int { return r.statusCode }

// Headers returns a copy of the response headers.
func (r *Response) Headers() nethttp.Header { return r.headers.Clone() }

// Header returns the first value for key, or "".
func (r *Response) Header(key string) string { return r.headers.Get(key) }

// ContentType returns the Content-Type header, or "" when absent.
func (r *Response) ContentType() string { return r.headers.Get("Content-Type") }

func (r *Response) Body() []byte { return r.body }

func (r *Response) String() string { return string(r.body) }

func (r *Response) Stats() Stats { return r.stats }

func (r *Response) IsSuccessful() bool { return IsSuccessStatus(r.statusCode) }

func (r *Response) IsRedirect() bool { return r.statusCode >= 300 && r.statusCode < 400 }

func (r *Response) ClientErrorOccurred() bool { return r.statusCode >= 400 && r.statusCode < 500 }

func (r *Response) ServerErrorOccurred() bool { return r.statusCode >= 500 && r.statusCode < 600 }

// ErrorOccurred reports a 4xx or 5xx status.
func (r *Response) ErrorOccurred() bool { return r.statusCode >= 400 }

// ContainsJSON reports whether the response declares a JSON media type.
func (r *Response) ContainsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.ContentType())
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// ToObject decodes the body as a JSON object. It returns an empty map when
// the body is not a JSON object.
func (r *Response) ToObject() map[string]any {
	out := make(map[string]any)
	if err := json.Unmarshal(r.body, &out); err != nil || out == nil {
		return make(map[string]any)
	}
	return out
}

// ToArray decodes the body as a JSON object or array, yielding a
// map[string]any or a []any. Any other body yields an empty map.
func (r *Response) ToArray() any {
	var out any
	if err := json.Unmarshal(r.body, &out); err != nil {
		return make(map[string]any)
	}
	switch v := out.(type) {
	case map[string]any:
		return v
	case []any:
		return v
	default:
		return make(map[string]any)
	}
}

// ToList decodes the body as a JSON array. It returns an empty slice when
// the body is not a JSON array.
func (r *Response) ToList() []any {
	var out []any
	if err := json.Unmarshal(r.body, &out); err != nil || out == nil {
		return []any{}
	}
	return out
}

// Decode unmarshals the JSON body into dst.
func (r *Response) Decode(dst any) error {
	if err := json.Unmarshal(r.body, dst); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Get queries the JSON body with a gjson path, e.g. "data.items.0.id".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.body, path)
}

// SchemaError lists the violations found by ValidateSchema.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response does not match schema: %s", strings.Join(e.Violations, "; "))
}

// ValidateSchema checks the JSON body against a JSON Schema document.
func (r *Response) ValidateSchema(schema string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(r.body),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &SchemaError{Violations: violations}
}
