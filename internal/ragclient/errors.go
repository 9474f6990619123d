package ragclient

import (
	"errors"
	"fmt"
)

// ErrTimeout marks an outbound call that exceeded its deadline. Wrapped
// errors can be matched with errors.Is.
var ErrTimeout = errors.New("rag request timed out")

// StatusError is returned when the RAG service replies with an HTTP error
// status. The body is kept for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("rag request failed with status %d", e.Code)
	}
	return fmt.Sprintf("rag request failed with status %d: %s", e.Code, e.Body)
}

// DecodeError is returned when the service declared a JSON response but the
// body did not parse.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rag response decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
