package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/takeme/profilectl/internal/api"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "not found",
			err:  &api.APIError{StatusCode: 404, Body: "Profile not found", RequestID: "req-1"},
			want: []string{"API error (HTTP 404): Profile not found", "No profile exists", "Request ID: req-1"},
		},
		{
			name: "bad request mentioning role",
			err:  &api.APIError{StatusCode: 400, Body: "Invalid role"},
			want: []string{"HTTP 400", "The role must be RIDER or DRIVER"},
		},
		{
			name: "server error",
			err:  fmt.Errorf("update: %w", &api.APIError{StatusCode: 500, Body: "boom"}),
			want: []string{"HTTP 500", "Server error"},
		},
		{
			name: "decode",
			err:  &api.DecodeError{Method: "GET", URL: "http://x/api/profile/1", Err: errors.New("unexpected EOF")},
			want: []string{"Unexpected response from GET http://x/api/profile/1", "--base-url"},
		},
		{
			name: "validation",
			err:  api.NewValidationError("role", "ADMIN", api.RoleNames()),
			want: []string{"Error:", "Use one of: RIDER, DRIVER"},
		},
		{
			name: "timeout",
			err:  fmt.Errorf("request failed: %w", context.DeadlineExceeded),
			want: []string{"Request timed out", "--timeout"},
		},
		{
			name: "canceled",
			err:  fmt.Errorf("request failed: %w", context.Canceled),
			want: []string{"Canceled."},
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"),
			want: []string{"Connection refused", "profile server is running"},
		},
		{
			name: "dns",
			err:  errors.New("dial tcp: lookup nohost: no such host"),
			want: []string{"DNS resolution failed"},
		},
		{
			name: "generic",
			err:  errors.New("boom"),
			want: []string{"Error: boom"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleError(tt.err)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}

	if HandleError(nil) != "" {
		t.Error("HandleError(nil) should be empty")
	}
}

func TestSuggestionsForStatusCode_Default(t *testing.T) {
	got := suggestionsForStatusCode(418, "")
	if !strings.Contains(got, "--debug") {
		t.Errorf("unexpected suggestions: %q", got)
	}
}
