package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaborage/httpkit/config"
	httpkit "github.com/gaborage/httpkit/http"
	"github.com/gaborage/httpkit/logger"
)

const (
	testJSONType  = "application/json"
	testUsersPath = "/api/users"
)

func newIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: unable to bind IPv4 listener: %v", err)
		return &httptest.Server{}
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	return server
}

func newTestConfig(upstream string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "httpkit-test", Version: "v0.0.0", Env: "development"},
		Log: config.LogConfig{Level: "debug"},
		Client: config.ClientConfig{
			BaseURL:         upstream,
			VerifyTLS:       true,
			FollowRedirects: true,
			HandleErrors:    true,
		},
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
			Path: config.PathConfig{Health: "/health", Proxy: "/"},
		},
	}
}

func newTestFactory(transport httpkit.Transport, baseURL string) *httpkit.Factory {
	cfg := newTestConfig(baseURL).Client
	return httpkit.NewFactory(&cfg, transport, logger.Nop())
}

// multipartBody encodes fields and a single file into a multipart body.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename, contents string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
