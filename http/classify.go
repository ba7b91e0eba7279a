package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// OutcomeKind tags the result of one attempt.
type OutcomeKind uint8

const (
	// OutcomeSuccess is a response below 400.
	OutcomeSuccess OutcomeKind = iota
	// OutcomePassThrough is a 4xx/5xx response returned as-is because error handling is disabled.
	OutcomePassThrough
	// OutcomeDomainError is a 4xx/5xx response with error handling enabled.
	OutcomeDomainError
	// OutcomeTransportError is a failure to obtain any response.
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomePassThrough:
		return "passthrough"
	case OutcomeDomainError:
		return "domain_error"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(k))
	}
}

// Outcome is the classified result of one attempt. Response is set for
// success and passthrough, Err for the two error kinds.
type Outcome struct {
	Kind     OutcomeKind
	Response *RawResponse
	Err      ClientError
}

// Failed reports whether the attempt should be retried or surfaced as an error.
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeDomainError || o.Kind == OutcomeTransportError
}

// Classify maps one transport result to an Outcome.
//
//   - err != nil: transport error, regardless of handleErrors
//   - status outside [100, 600): transport error, the response is malformed
//   - status < 400: success
//   - status >= 400 and !handleErrors: passthrough
//   - status >= 400: domain error carrying the body's "message" field when present
func Classify(raw *RawResponse, err error, handleErrors bool) Outcome {
	if err != nil {
		var te *TransportError
		if !errors.As(err, &te) {
			te = NewTransportError("request execution failed", err)
		}
		return Outcome{Kind: OutcomeTransportError, Err: te}
	}
	if raw == nil {
		return Outcome{Kind: OutcomeTransportError, Err: NewTransportError("no response received", nil)}
	}

	if raw.StatusCode < 100 || raw.StatusCode >= 600 {
		return Outcome{
			Kind: OutcomeTransportError,
			Err:  NewTransportError(fmt.Sprintf("invalid response status %d", raw.StatusCode), nil),
		}
	}
	if raw.StatusCode < 400 {
		return Outcome{Kind: OutcomeSuccess, Response: raw}
	}
	if !handleErrors {
		return Outcome{Kind: OutcomePassThrough, Response: raw}
	}
	return Outcome{Kind: OutcomeDomainError, Err: domainErrorFrom(raw)}
}

func domainErrorFrom(raw *RawResponse) *DomainError {
	message := fmt.Sprintf("HTTP request failed with status %d", raw.StatusCode)
	if m := gjson.GetBytes(raw.Body, "message"); m.Type == gjson.String && m.Str != "" {
		message = m.Str
	}

	var payload any
	if len(raw.Body) > 0 && json.Valid(raw.Body) {
		if err := json.Unmarshal(raw.Body, &payload); err != nil {
			payload = nil
		}
	}
	return NewDomainError(message, raw.StatusCode, payload, raw.Body)
}
