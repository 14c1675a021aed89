package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for catalog requests.
var (
	ErrNotFound        = errors.New("catalog resource not found")
	ErrInvalidResponse = errors.New("invalid catalog response")
)

// StatusError is returned when the catalog answers with an unexpected status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned status %d for %s", e.StatusCode, e.URL)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// isRetryable classifies an attempt error.
// Transport failures and temporary statuses are retried; everything else is final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidResponse) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}

	var transportErr *transportError
	return errors.As(err, &transportErr)
}

// transportError marks failures that happened before a response was read.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}
