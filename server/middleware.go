package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gaborage/httpkit/config"
	"github.com/gaborage/httpkit/logger"
)

// SetupMiddlewares registers the middleware chain of the forwarding server.
func SetupMiddlewares(e *echo.Echo, log logger.Logger, cfg *config.Config) {
	// Request ID
	e.Use(middleware.RequestID())

	// Request ID and outbound counters for builders used by handlers
	e.Use(RequestContext())

	// Logger middleware with zerolog
	e.Use(Logger(log, cfg.Server.Path.Health))

	// Recovery
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Bytes("stack", stack).
				Msg("Panic recovered")
			return err
		},
	}))

	// Rate limiting per client IP, health checks exempt
	healthPath := cfg.Server.Path.Health
	e.Use(RateLimit(cfg.Server.RateLimit, func(c echo.Context) bool {
		return c.Request().URL.Path == healthPath
	}))

	// Body limit
	e.Use(middleware.BodyLimit(DefaultBodyLimit))

	// Timing
	e.Use(Timing())
}
