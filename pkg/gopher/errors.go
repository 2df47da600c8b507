package gopher

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the initiation endpoint answers
// with a success status but the body carries no job uuid.
var ErrMalformedResponse = errors.New("invalid API response (no uuid)")

// InitiationError reports a non-success transport status from the
// search initiation endpoint.
type InitiationError struct {
	StatusCode int
	Body       string
}

func (e *InitiationError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// APIError reports an error field carried inside an otherwise successful
// initiation response body.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s", e.Message)
}

// NetworkError wraps a transport-level fault (timeout, DNS, refused
// connection). It aborts the whole search immediately and is never
// retried by the polling loop.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError is returned when the poll loop exhausts its retry budget
// while the job still reports no results.
type TimeoutError struct {
	JobID string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("search %s still processing after retry budget", e.JobID)
}

// PollExhaustedError is returned when the final poll attempt still gets a
// non-success transport status.
type PollExhaustedError struct {
	Attempts   int
	LastStatus int
}

func (e *PollExhaustedError) Error() string {
	return fmt.Sprintf("failed to get results after %d attempts (last status %d)", e.Attempts, e.LastStatus)
}

// SearchFailedError is an API-reported failure for a running job; the
// reason is surfaced to the user verbatim.
type SearchFailedError struct {
	Reason string
}

func (e *SearchFailedError) Error() string {
	return fmt.Sprintf("search failed: %s", e.Reason)
}
