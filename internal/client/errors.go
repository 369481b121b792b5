package client

import (
	"errors"
	"fmt"
	"net/http"
)

// User-facing messages for failed operations.
const (
	MsgFetchFailed  = "Unable to fetch tasks. Please try again."
	MsgAddFailed    = "Unable to add task. Please try again."
	MsgUpdateFailed = "Unable to update task. Please try again."
	MsgDeleteFailed = "Unable to delete task. Please try again."
)

// Error is returned by every Client operation. Error() yields a short
// message fit for display; Unwrap exposes the cause for logging.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusError is the cause recorded when the service answers with a
// non-2xx status.
type StatusError struct {
	StatusCode int
	// Message is the "error" field of the response body, if any.
	Message string
	TraceID string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// StatusCode returns the HTTP status behind err, or 0 if the request never
// got a response.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
