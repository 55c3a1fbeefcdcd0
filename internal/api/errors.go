package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// APIError is a non-2xx response from the profile server.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// DecodeError is a 2xx response whose body was not the expected JSON.
type DecodeError struct {
	Method string
	URL    string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected API response format for %s %s (JSON decode failed): %v", e.Method, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFoundError reports whether err is a 404 from the server.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsDecodeError reports whether err is a response decoding failure.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// IsTimeoutError reports whether err is a deadline or network timeout.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsCanceledError reports whether err stems from the caller canceling the
// context.
func IsCanceledError(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

// IsNetworkError reports whether err is a transport failure: the request
// never produced an HTTP response. Cancellation is not a network failure.
func IsNetworkError(err error) bool {
	if err == nil || IsCanceledError(err) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
