package http

import (
	nethttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponse(status int, contentType, body string) *Response {
	headers := nethttp.Header{}
	if contentType != "" {
		headers.Set(testContentTypeHdr, contentType)
	}
	return NewResponse(&RawResponse{StatusCode: status, Headers: headers, Body: []byte(body)}, Stats{Attempts: 2, ElapsedTime: time.Second})
}

func TestResponseStatusPredicates(t *testing.T) {
	tests := []struct {
		status                         int
		success, redirect, client, srv bool
	}{
		{status: 200, success: true},
		{status: 301, redirect: true},
		{status: 404, client: true},
		{status: 503, srv: true},
	}

	for _, tt := range tests {
		resp := newTestResponse(tt.status, "", "")
		assert.Equal(t, tt.success, resp.IsSuccessful(), "status %d", tt.status)
		assert.Equal(t, tt.redirect, resp.IsRedirect(), "status %d", tt.status)
		assert.Equal(t, tt.client, resp.ClientErrorOccurred(), "status %d", tt.status)
		assert.Equal(t, tt.srv, resp.ServerErrorOccurred(), "status %d", tt.status)
		assert.Equal(t, tt.client || tt.srv, resp.ErrorOccurred(), "status %d", tt.status)
	}
}

func TestResponseAccessors(t *testing.T) {
	resp := newTestResponse(nethttp.StatusOK, "application/json; charset=utf-8", `{"id":7}`)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode())
	assert.Equal(t, "application/json; charset=utf-8", resp.ContentType())
	assert.Equal(t, "application/json; charset=utf-8", resp.Header("content-type"))
	assert.Equal(t, `{"id":7}`, resp.String())
	assert.Equal(t, []byte(`{"id":7}`), resp.Body())
	assert.Equal(t, Stats{Attempts: 2, ElapsedTime: time.Second}, resp.Stats())

	headers := resp.Headers()
	headers.Set("X-Changed", "1")
	assert.Empty(t, resp.Header("X-Changed"))
}

func TestResponseContentTypeAbsent(t *testing.T) {
	resp := newTestResponse(nethttp.StatusOK, "", "plain")

	assert.Empty(t, resp.ContentType())
	assert.False(t, resp.ContainsJSON())
}

func TestResponseContainsJSON(t *testing.T) {
	assert.True(t, newTestResponse(200, testJSONType, "").ContainsJSON())
	assert.True(t, newTestResponse(200, "application/problem+json", "").ContainsJSON())
	assert.False(t, newTestResponse(200, "text/html", "").ContainsJSON())
	assert.False(t, newTestResponse(200, ";;;", "").ContainsJSON())
}

func TestResponseToObject(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{name: "object", body: `{"a":"b","n":1}`, want: map[string]any{"a": "b", "n": float64(1)}},
		{name: "malformed", body: `{"a":`, want: map[string]any{}},
		{name: "array", body: `[1,2]`, want: map[string]any{}},
		{name: "null", body: `null`, want: map[string]any{}},
		{name: "empty", body: ``, want: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newTestResponse(200, testJSONType, tt.body).ToObject())
		})
	}
}

func TestResponseToArray(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{name: "object", body: `{"a":1,"b":"x"}`, want: map[string]any{"a": float64(1), "b": "x"}},
		{name: "array", body: `[1,"two"]`, want: []any{float64(1), "two"}},
		{name: "scalar", body: `42`, want: map[string]any{}},
		{name: "null", body: `null`, want: map[string]any{}},
		{name: "malformed", body: `not json`, want: map[string]any{}},
		{name: "empty", body: ``, want: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newTestResponse(200, testJSONType, tt.body).ToArray())
		})
	}
}

func TestResponseToList(t *testing.T) {
	assert.Equal(t, []any{float64(1), "two"}, newTestResponse(200, testJSONType, `[1,"two"]`).ToList())
	assert.Equal(t, []any{}, newTestResponse(200, testJSONType, `{"a":1}`).ToList())
	assert.Equal(t, []any{}, newTestResponse(200, testJSONType, `not json`).ToList())
}

func TestResponseDecode(t *testing.T) {
	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, newTestResponse(200, testJSONType, `{"id":3,"name":"x"}`).Decode(&out))
	assert.Equal(t, 3, out.ID)
	assert.Equal(t, "x", out.Name)

	assert.Error(t, newTestResponse(200, testJSONType, `oops`).Decode(&out))
}

func TestResponseGet(t *testing.T) {
	resp := newTestResponse(200, testJSONType, `{"data":{"items":[{"id":1},{"id":2}]}}`)

	assert.Equal(t, int64(2), resp.Get("data.items.1.id").Int())
	assert.Equal(t, int64(2), resp.Get("data.items.#").Int())
	assert.False(t, resp.Get("data.missing").Exists())
}

func TestResponseValidateSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["id"],
		"properties": {"id": {"type": "integer"}}
	}`

	assert.NoError(t, newTestResponse(200, testJSONType, `{"id":1}`).ValidateSchema(schema))

	err := newTestResponse(200, testJSONType, `{"id":"one"}`).ValidateSchema(schema)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.Violations)

	assert.Error(t, newTestResponse(200, testJSONType, `{"id":1}`).ValidateSchema(`{not a schema`))
}

func TestNewResponseNil(t *testing.T) {
	resp := NewResponse(nil, Stats{})

	assert.Equal(t, 0, resp.StatusCode())
	assert.Empty(t, resp.Body())
	assert.NotNil(t, resp.Headers())
}
