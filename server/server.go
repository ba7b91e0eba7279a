// Package server exposes the request builder over HTTP using the Echo framework:
// it adapts inbound echo requests for forwarding, renders downstream errors,
// and runs a forwarding server with a health route.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/httpkit/config"
	"github.com/gaborage/httpkit/logger"
)

// Server is a forwarding HTTP server. Every request under the proxy path is
// replayed against the configured client base URL.
type Server struct {
	echo        *echo.Echo
	cfg         *config.Config
	logger      logger.Logger
	healthRoute string
	proxyRoute  string
}

// normalizeRoutePath ensures a route path starts with "/" and handles empty paths
func normalizeRoutePath(route, defaultRoute string) string {
	if route == "" {
		route = defaultRoute
	}

	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}

	return route
}

// proxyPattern turns a prefix into an echo wildcard route.
func proxyPattern(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/*"
}

// New creates a server forwarding through builders from source.
func New(cfg *config.Config, log logger.Logger, source BuilderSource) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = newErrorHandler(log)

	SetupMiddlewares(e, log, cfg)

	s := &Server{
		echo:        e,
		cfg:         cfg,
		logger:      log,
		healthRoute: normalizeRoutePath(cfg.Server.Path.Health, "/health"),
		proxyRoute:  proxyPattern(normalizeRoutePath(cfg.Server.Path.Proxy, "/")),
	}

	e.GET(s.healthRoute, s.healthCheck)
	e.Any(s.proxyRoute, ProxyHandler(source))

	log.Debug().
		Str("health_path", s.healthRoute).
		Str("proxy_path", s.proxyRoute).
		Str("upstream", cfg.Client.BaseURL).
		Msg("Server paths configured")

	return s
}

// Echo returns the underlying Echo instance for route registration.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server and begins accepting requests.
// It blocks until the server is shut down or encounters an error.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.logger.Info().
		Str("service", s.cfg.App.Name).
		Str("version", s.cfg.App.Version).
		Str("env", s.cfg.App.Env).
		Str("address", addr).
		Str("upstream", s.cfg.Client.BaseURL).
		Msg("Starting server...")

	// Shutdown only closes echo's own server, so configure it in place.
	s.echo.Server.ReadTimeout = orDefault(s.cfg.Server.Timeout.Read, DefaultReadTimeout)
	s.echo.Server.WriteTimeout = orDefault(s.cfg.Server.Timeout.Write, DefaultWriteTimeout)

	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server with the given context.
// It waits for existing connections to finish within the context timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ShutdownTimeout returns the configured graceful shutdown window.
func (s *Server) ShutdownTimeout() time.Duration {
	return orDefault(s.cfg.Server.Timeout.Shutdown, DefaultShutdownTimeout)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
