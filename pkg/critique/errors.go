package critique

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the backend answers without content.
var ErrEmptyResponse = errors.New("empty response from model")

// ErrRetriesExhausted wraps the last error once every attempt has failed.
var ErrRetriesExhausted = errors.New("critique retries exhausted")

// MalformedCritiqueError reports a payload that is not the expected JSON shape.
type MalformedCritiqueError struct {
	Payload string
	Reason  string
	Err     error
}

func (e *MalformedCritiqueError) Error() string {
	payload := e.Payload
	if len(payload) > 300 {
		payload = payload[:300] + "..."
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed critique (%s): %v: %s", e.Reason, e.Err, payload)
	}
	return fmt.Sprintf("malformed critique (%s): %s", e.Reason, payload)
}

func (e *MalformedCritiqueError) Unwrap() error { return e.Err }

// TransportError reports a failed exchange with the model backend.
type TransportError struct {
	Backend    string
	StatusCode int
	Body       string
	Err        error
	// Permanent marks failures that retrying cannot fix, such as a bad
	// API key or an unknown model.
	Permanent bool
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Backend, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Backend, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Backend, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsPermanent reports whether err should not be retried.
func IsPermanent(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr) && tErr.Permanent
}

// permanentStatus reports whether an HTTP status is not worth retrying.
func permanentStatus(code int) bool {
	if code == 408 || code == 429 {
		return false
	}
	return code >= 400 && code < 500
}
