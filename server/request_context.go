package server

import (
	"github.com/labstack/echo/v4"

	"github.com/gaborage/httpkit/logger"
	"github.com/gaborage/httpkit/trace"
)

// RequestContext copies the request ID into the request context and starts
// the outbound counters, so builders used by handlers repeat the ID and the
// request logger can report how many outbound attempts were made.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = req.Header.Get(echo.HeaderXRequestID)
			}
			if requestID == "" {
				requestID = trace.EnsureRequestID(req.Context())
			}

			ctx := trace.WithRequestID(req.Context(), requestID)
			ctx = logger.WithOutboundCounter(ctx)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
