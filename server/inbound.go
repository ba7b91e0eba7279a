package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/httpkit/formdata"
	httpkit "github.com/gaborage/httpkit/http"
)

var _ httpkit.InboundRequest = (*Inbound)(nil)

// Inbound exposes an echo request as an httpkit.InboundRequest. The body is
// decoded once, when the Inbound is created.
type Inbound struct {
	req   *http.Request
	path  string
	input formdata.Value
	files []formdata.FileGroup
}

// NewInbound decodes the request body of c. path is the downstream path
// the request should be forwarded to; a leading slash is dropped.
//
// Form and multipart bodies become bracket-nested input, JSON bodies are
// decoded in document order, anything else yields empty input.
func NewInbound(c echo.Context, path string) (*Inbound, error) {
	req := c.Request()
	in := &Inbound{
		req:   req,
		path:  strings.TrimPrefix(path, "/"),
		input: formdata.Map(),
	}

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	switch {
	case mediaType == echo.MIMEMultipartForm:
		form, err := readMultipart(req)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed multipart body").SetInternal(err)
		}
		in.input = form.Input()
		in.files = form.Files()
	case mediaType == echo.MIMEApplicationForm:
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable request body").SetInternal(err)
		}
		pairs, err := formdata.ParseURLEncoded(string(data))
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed form body").SetInternal(err)
		}
		in.input = formdata.ParsePairs(pairs)
	case isJSONMediaType(mediaType):
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable request body").SetInternal(err)
		}
		input, err := formdata.FromJSON(data)
		if err != nil {
			if errors.Is(err, formdata.ErrInvalidJSON) {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed JSON body").SetInternal(err)
			}
			return nil, err
		}
		in.input = input
	}
	return in, nil
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == echo.MIMEApplicationJSON || strings.HasSuffix(mediaType, "+json")
}

// readMultipart streams the parts of req in body order. Uploads are buffered
// in memory; BodyLimit bounds their size.
func readMultipart(req *http.Request) (*formdata.Form, error) {
	mr, err := req.MultipartReader()
	if err != nil {
		return nil, err
	}

	form := formdata.NewForm()
	for {
		part, err := mr.NextPart()
		if err == io.EOF { //nolint:errorlint // Only the closing boundary yields a bare io.EOF; truncated bodies wrap it.
			return form, nil
		}
		if err != nil {
			return nil, err
		}

		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}
		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, err
		}

		if filename := part.FileName(); filename != "" {
			form.AddFile(name, formdata.FileFromBytes(filename, data))
			continue
		}
		form.AddValue(name, string(data))
	}
}

func (i *Inbound) Method() string { return i.req.Method }

func (i *Inbound) Path() string { return i.path }

func (i *Inbound) Headers() http.Header { return i.req.Header }

func (i *Inbound) Query() url.Values { return i.req.URL.Query() }

func (i *Inbound) ContentType() string { return i.req.Header.Get(echo.HeaderContentType) }

func (i *Inbound) Input() formdata.Value { return i.input }

func (i *Inbound) Files() []formdata.FileGroup { return i.files }
