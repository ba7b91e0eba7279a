package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	httpkit "github.com/gaborage/httpkit/http"
	"github.com/gaborage/httpkit/logger"
)

// ErrorBody is the JSON body rendered for errors without a downstream payload.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorStatus maps an error to the status code it is rendered with.
//   - *httpkit.DomainError: the downstream status
//   - *httpkit.TransportError: 504 on timeout, 502 otherwise
//   - *httpkit.UnsupportedMethodError: 500
//   - *echo.HTTPError: its code
func ErrorStatus(err error) int {
	var (
		domainErr      *httpkit.DomainError
		transportErr   *httpkit.TransportError
		unsupportedErr *httpkit.UnsupportedMethodError
		he             *echo.HTTPError
	)
	switch {
	case errors.As(err, &domainErr):
		return domainErr.StatusCode()
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &unsupportedErr):
		return unsupportedErr.StatusCode()
	case errors.As(err, &he):
		return he.Code
	default:
		return http.StatusInternalServerError
	}
}

// RenderError writes err as a JSON response. A DomainError carrying a
// downstream payload is rendered with that payload verbatim.
func RenderError(c echo.Context, err error) error {
	status := ErrorStatus(err)

	var domainErr *httpkit.DomainError
	if errors.As(err, &domainErr) {
		return c.JSON(status, domainErr.RenderBody())
	}

	msg := http.StatusText(status)
	var (
		transportErr   *httpkit.TransportError
		unsupportedErr *httpkit.UnsupportedMethodError
		he             *echo.HTTPError
	)
	switch {
	case errors.As(err, &transportErr):
		msg = transportErr.Message()
	case errors.As(err, &unsupportedErr):
		msg = unsupportedErr.Error()
	case errors.As(err, &he):
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		}
	}
	return c.JSON(status, ErrorBody{Message: msg, Status: status})
}

func newErrorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			log.WithContext(c.Request().Context()).Error().
				Err(err).
				Int("status", status).
				Str("path", c.Request().URL.Path).
				Msg("Request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = RenderError(c, err)
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to render error response")
		}
	}
}
