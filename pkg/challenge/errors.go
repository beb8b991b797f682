package challenge

import (
	"errors"
	"fmt"
)

var (
	ErrMissingConfig      = errors.New("challenge config is required")
	ErrInvalidIdentity    = errors.New("invalid identity request")
	ErrMissingCredentials = errors.New("webhook response is missing credentials")
	ErrInvalidWebhookURL  = errors.New("invalid webhook URL")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrEmptyQuery         = errors.New("final query is empty")
)

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	Step       string
	StatusCode int
	Status     string
	// Body is truncated to maxErrBodyLogBytes.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: status=%d body=%s", e.Step, e.StatusCode, e.Body)
}

func newStatusError(step string, ex exchange) *StatusError {
	return &StatusError{
		Step:       step,
		StatusCode: ex.StatusCode,
		Status:     ex.Status,
		Body:       snippet(ex.Body),
	}
}
