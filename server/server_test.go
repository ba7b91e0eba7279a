package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/httpkit/logger"
	"github.com/gaborage/httpkit/testing/fixtures"
)

func TestNormalizeRoutePath(t *testing.T) {
	assert.Equal(t, "/health", normalizeRoutePath("", "/health"))
	assert.Equal(t, "/status", normalizeRoutePath("status", "/health"))
	assert.Equal(t, "/ready", normalizeRoutePath("/ready", "/health"))
}

func TestProxyPattern(t *testing.T) {
	assert.Equal(t, "/*", proxyPattern("/"))
	assert.Equal(t, "/proxy/*", proxyPattern("/proxy"))
	assert.Equal(t, "/proxy/*", proxyPattern("/proxy/"))
}

func TestServerHealth(t *testing.T) {
	cfg := newTestConfig("https://upstream.example.com/")
	s := New(cfg, logger.Nop(), newTestFactory(fixtures.NewStaticTransport(http.StatusOK, `{}`), cfg.Client.BaseURL))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServerForwardsUnderPrefix(t *testing.T) {
	cfg := newTestConfig("https://upstream.example.com/")
	cfg.Server.Path.Proxy = "/proxy"
	recorder := fixtures.NewRecordingTransport(fixtures.NewStaticTransport(http.StatusOK, `{"ok":true}`))
	s := New(cfg, logger.Nop(), newTestFactory(recorder, cfg.Client.BaseURL))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proxy/api/users?page=2", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.NotEmpty(t, rec.Header().Get(HeaderXResponseTime))

	attempt := recorder.Last()
	assert.Equal(t, "api/users", attempt.URL)
	assert.Equal(t, "2", attempt.Options.Query.Get("page"))
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), attempt.Options.Headers.Get(echo.HeaderXRequestID))
}

func TestServerRateLimitsProxyRoute(t *testing.T) {
	cfg := newTestConfig("https://upstream.example.com/")
	cfg.Server.RateLimit = 1
	s := New(cfg, logger.Nop(), newTestFactory(fixtures.NewStaticTransport(http.StatusOK, `{}`), cfg.Client.BaseURL))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, testUsersPath, http.NoBody))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerRecoversPanics(t *testing.T) {
	cfg := newTestConfig("https://upstream.example.com/")
	s := New(cfg, logger.Nop(), newTestFactory(fixtures.NewStaticTransport(http.StatusOK, `{}`), cfg.Client.BaseURL))
	s.Echo().GET("/panic", func(echo.Context) error { panic("boom") })

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServerShutdownTimeout(t *testing.T) {
	cfg := newTestConfig("")
	s := New(cfg, logger.Nop(), newTestFactory(nil, ""))
	assert.Equal(t, DefaultShutdownTimeout, s.ShutdownTimeout())

	cfg.Server.Timeout.Shutdown = 3 * time.Second
	assert.Equal(t, 3*time.Second, s.ShutdownTimeout())
}

func TestServerStartAndShutdown(t *testing.T) {
	cfg := newTestConfig("")
	cfg.Server.Port = 0
	s := New(cfg, logger.Nop(), newTestFactory(nil, ""))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	require.Eventually(t, func() bool {
		return s.Echo().ListenerAddr() != nil
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestServerStartAppliesTimeouts(t *testing.T) {
	cfg := newTestConfig("")
	cfg.Server.Port = 0
	cfg.Server.Timeout.Read = 3 * time.Second
	s := New(cfg, logger.Nop(), newTestFactory(nil, ""))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	require.Eventually(t, func() bool {
		return s.Echo().ListenerAddr() != nil
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
	assert.Equal(t, 3*time.Second, s.Echo().Server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, s.Echo().Server.WriteTimeout)
}
