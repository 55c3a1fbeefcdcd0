package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 404, Body: "Profile not found"}
	if err.Error() != "API error (status 404): Profile not found" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestDecodeError_Unwrap(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := fmt.Errorf("get: %w", &DecodeError{Method: "GET", URL: "http://x/1", Err: inner})
	if !IsDecodeError(err) {
		t.Error("IsDecodeError should return true")
	}
	if !errors.Is(err, inner) {
		t.Error("DecodeError should unwrap to its cause")
	}
}

func TestIsNotFoundError(t *testing.T) {
	if !IsNotFoundError(fmt.Errorf("wrapped: %w", &APIError{StatusCode: 404})) {
		t.Error("expected 404 to be not found")
	}
	if IsNotFoundError(&APIError{StatusCode: 500}) {
		t.Error("500 is not a not-found error")
	}
	if IsNotFoundError(errors.New("404")) {
		t.Error("plain errors are never not-found errors")
	}
}

func TestIsTimeoutError(t *testing.T) {
	if !IsTimeoutError(fmt.Errorf("request failed: %w", context.DeadlineExceeded)) {
		t.Error("deadline exceeded should be a timeout")
	}
	if IsTimeoutError(context.Canceled) {
		t.Error("cancellation is not a timeout")
	}
	if IsTimeoutError(nil) {
		t.Error("nil is not a timeout")
	}
}

func TestIsCanceledError(t *testing.T) {
	if !IsCanceledError(&url.Error{Op: "Get", URL: "u", Err: context.Canceled}) {
		t.Error("a canceled request should be a canceled error")
	}
	if IsCanceledError(context.DeadlineExceeded) {
		t.Error("a deadline is not a cancellation")
	}
	if IsCanceledError(nil) {
		t.Error("nil is not canceled")
	}
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"url error", &url.Error{Op: "Get", URL: "u", Err: errors.New("connection refused")}, true},
		{"canceled", fmt.Errorf("x: %w", context.Canceled), false},
		{"canceled url error", &url.Error{Op: "Get", URL: "u", Err: context.Canceled}, false},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), true},
		{"api error", &APIError{StatusCode: 502}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.want {
				t.Errorf("IsNetworkError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
