package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	BurstMultiplier  = 2
	RateLimitCleanup = time.Minute * 3
)

// RateLimit limits inbound requests per client IP before they are forwarded.
// A requestsPerSecond of zero or less disables limiting.
func RateLimit(requestsPerSecond int, skipper middleware.Skipper) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}

	deny := func(c echo.Context, msg string) error {
		return c.JSON(http.StatusTooManyRequests, ErrorBody{
			Message: msg,
			Status:  http.StatusTooManyRequests,
		})
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: skipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(requestsPerSecond),
				Burst:     requestsPerSecond * BurstMultiplier,
				ExpiresIn: RateLimitCleanup,
			},
		),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return deny(c, "Rate limit exceeded")
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return deny(c, "Too many requests")
		},
	})
}
