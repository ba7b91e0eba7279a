package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/httpkit/logger"
)

// LoggerConfig configures the request logging middleware.
type LoggerConfig struct {
	// HealthPath specifies the health probe endpoint to exclude from logging
	HealthPath string

	// SlowRequestThreshold marks requests slower than this with result_code="WARN".
	// Zero disables slow request detection.
	SlowRequestThreshold time.Duration
}

// Logger returns a request logging middleware with a one second slow request threshold.
func Logger(log logger.Logger, healthPath string) echo.MiddlewareFunc {
	return LoggerWithConfig(log, LoggerConfig{
		HealthPath:           healthPath,
		SlowRequestThreshold: 1 * time.Second,
	})
}

// LoggerWithConfig returns a request logging middleware that emits one summary
// per request, including the outbound attempts it made.
func LoggerWithConfig(log logger.Logger, cfg LoggerConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			if path == cfg.HealthPath {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// Render now so the logged status is the one sent.
				c.Error(err)
			}
			logRequestSummary(c, log, cfg, time.Since(start), err)
			return nil
		}
	}
}

func logRequestSummary(c echo.Context, log logger.Logger, cfg LoggerConfig, latency time.Duration, err error) {
	ctx := c.Request().Context()
	status := c.Response().Status
	level, resultCode := determineSeverity(status, latency, cfg.SlowRequestThreshold, err)

	event := createLogEvent(log.WithContext(ctx), level)
	if err != nil {
		event = event.Err(err)
	}

	method := c.Request().Method
	uri := c.Request().URL.Path

	event.
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("method", method).
		Str("path", uri).
		Str("route", c.Path()).
		Int("status", status).
		Dur("latency", latency).
		Str("client_ip", c.RealIP()).
		Str("user_agent", c.Request().UserAgent()).
		Str("result_code", resultCode).
		Int64("outbound_requests", logger.GetOutboundCounter(ctx)).
		Dur("outbound_elapsed", time.Duration(logger.GetOutboundElapsed(ctx))).
		Msg(createActionMessage(method, uri, latency, status))
}

// determineSeverity returns the log level and result_code for a finished request.
func determineSeverity(status int, latency, threshold time.Duration, err error) (logLevel, resultCode string) {
	const (
		levelError = "error"
		levelWarn  = "warn"
		levelInfo  = "info"
		codeError  = "ERROR"
		codeWarn   = "WARN"
		codeInfo   = "INFO"
	)

	if status >= 500 || (err != nil && status == 0) {
		return levelError, codeError
	}
	if status >= 400 {
		return levelWarn, codeWarn
	}
	// Slow requests keep INFO level but are flagged for filtering.
	if threshold > 0 && latency > threshold {
		return levelInfo, codeWarn
	}
	return levelInfo, codeInfo
}

func createLogEvent(log logger.Logger, level string) logger.LogEvent {
	switch level {
	case "error":
		return log.Error()
	case "warn":
		return log.Warn()
	default:
		return log.Info()
	}
}

// createActionMessage renders e.g. "GET /api/users completed in 12ms with status 200".
func createActionMessage(method, path string, latency time.Duration, status int) string {
	return method + " " + path + " completed in " + latency.String() + " with status " + strconv.Itoa(status)
}
