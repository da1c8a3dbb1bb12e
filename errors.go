package analyst

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network call when no API
	// key is configured.
	ErrMissingCredential = errors.New(
		"API key is missing, set API_KEY in the environment or .env file",
	)
	// ErrInvalidCredential is returned when the API rejects the key.
	ErrInvalidCredential = errors.New(
		"invalid or missing API key, check the API_KEY setting",
	)
	// ErrRetryable marks rate limiting and server-side faults.
	ErrRetryable = errors.New("server error or rate limit exceeded")
	// ErrRetriesExhausted wraps the error of the final attempt once the
	// attempt budget is spent.
	ErrRetriesExhausted = errors.New("max retries reached")
	// ErrBusy is returned when a question is asked while another one is
	// still being processed.
	ErrBusy = errors.New("a previous request is still being processed")
	// ErrNothingToAsk is returned when either the report or the question is
	// missing.
	ErrNothingToAsk = errors.New(
		"please ensure a file is loaded and a question is entered",
	)
)

// HTTPError is a non-retryable error response from the API.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error, status: %d", e.StatusCode)
}

func retryableStatusError(status int) error {
	return fmt.Errorf("%w (status: %d)", ErrRetryable, status)
}

// IsFatal reports whether err stops a retry chain on first occurrence.
func IsFatal(err error) bool {
	var httpErr *HTTPError
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrInvalidCredential) ||
		errors.As(err, &httpErr)
}
