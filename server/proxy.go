package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpkit "github.com/gaborage/httpkit/http"
)

// BuilderSource hands out a fresh builder per forwarded request.
// *httpkit.Factory implements it.
type BuilderSource interface {
	New() *httpkit.Builder
}

// ProxyHandler forwards every request it receives to the builder's base URL.
// The route must end in a wildcard; its match becomes the downstream path.
// Errors are returned to echo and rendered by the server's error handler.
func ProxyHandler(source BuilderSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		in, err := NewInbound(c, c.Param("*"))
		if err != nil {
			return err
		}

		resp, err := source.New().Forward(c.Request().Context(), in)
		if err != nil {
			return err
		}
		return RenderResponse(c, resp)
	}
}

// responseHeaderSkip lists headers RenderResponse never copies back.
var responseHeaderSkip = map[string]struct{}{
	"Connection":        {},
	"Content-Length":    {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},
	"Upgrade":           {},
	"Trailer":           {},
}

// RenderResponse writes a downstream response back to the inbound caller
// with its status, headers and body.
func RenderResponse(c echo.Context, resp *httpkit.Response) error {
	header := c.Response().Header()
	for key, values := range resp.Headers() {
		if _, skip := responseHeaderSkip[http.CanonicalHeaderKey(key)]; skip {
			continue
		}
		header.Del(key)
		for _, v := range values {
			header.Add(key, v)
		}
	}

	if c.Request().Method == http.MethodHead || len(resp.Body()) == 0 {
		return c.NoContent(resp.StatusCode())
	}
	contentType := resp.ContentType()
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(resp.StatusCode(), contentType, resp.Body())
}
