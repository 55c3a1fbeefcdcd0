package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

const (
	// ErrBadRequest indicates a malformed request (HTTP 400).
	ErrBadRequest ErrorCode = "bad_request"
	// ErrNotFound indicates no profile for the given key and role (HTTP 404).
	ErrNotFound ErrorCode = "not_found"
	// ErrConflict indicates a conflict with current state (HTTP 409).
	ErrConflict ErrorCode = "conflict"
	// ErrValidation indicates input validation failed (HTTP 422 or a bad flag value).
	ErrValidation ErrorCode = "validation_failed"
	// ErrServerError indicates a server-side failure (HTTP 5xx).
	ErrServerError ErrorCode = "server_error"
	// ErrTimeout indicates the request timed out.
	ErrTimeout ErrorCode = "timeout"
	// ErrNetwork indicates the server could not be reached.
	ErrNetwork ErrorCode = "network"
	// ErrCanceled indicates the caller canceled the request.
	ErrCanceled ErrorCode = "canceled"
	// ErrDecode indicates the response body was not the expected JSON.
	ErrDecode ErrorCode = "decode_failed"
	// ErrUnknown indicates an unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable reports whether the same request may succeed later. The client
// itself never retries; this is advice for the caller.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrServerError, ErrTimeout, ErrNetwork:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable hint for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrNotFound:
		return "Verify the user ID or email and the role"
	case ErrValidation:
		return "Check the input values"
	case ErrBadRequest:
		return "Check the request format and parameters"
	case ErrConflict:
		return "The profile changed on the server; fetch it and retry"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrTimeout:
		return "The request timed out; check the server and --timeout"
	case ErrNetwork:
		return "Check that the profile server is running and --base-url is correct"
	case ErrDecode:
		return "The server answered with something other than JSON; check --base-url"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 422:
		return ErrValidation
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// StructuredError is the machine-readable rendering of any client error.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Retryable     bool           `json:"retryable"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements json.Marshaler.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type alias StructuredError
	return json.Marshal((*alias)(e))
}

// NewStructuredError creates a StructuredError from a code and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// NewValidationError reports an invalid input value together with the values
// that would have been accepted.
func NewValidationError(field string, got string, allowed []string) *StructuredError {
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, strings.Join(allowed, ", ")),
		Suggestion:    fmt.Sprintf("Use one of: %s", strings.Join(allowed, ", ")),
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

// StructuredErrorFromAPIError converts an APIError to a StructuredError.
func StructuredErrorFromAPIError(apiErr *APIError) *StructuredError {
	code := ErrorCodeFromStatus(apiErr.StatusCode)
	ctx := map[string]any{
		"status_code": apiErr.StatusCode,
	}
	if apiErr.Method != "" {
		ctx["method"] = apiErr.Method
	}
	if apiErr.URL != "" {
		ctx["url"] = apiErr.URL
	}
	if apiErr.RequestID != "" {
		ctx["request_id"] = apiErr.RequestID
	}
	return &StructuredError{
		Code:       code,
		Message:    apiErr.Body,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
		Context:    ctx,
	}
}

// StructuredErrorFromError classifies any error.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return StructuredErrorFromAPIError(apiErr)
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		se := NewStructuredError(ErrDecode, decodeErr.Error())
		se.Context = map[string]any{"method": decodeErr.Method, "url": decodeErr.URL}
		return se
	}

	if IsCanceledError(err) {
		return NewStructuredError(ErrCanceled, err.Error())
	}
	if IsTimeoutError(err) {
		return NewStructuredError(ErrTimeout, err.Error())
	}
	if IsNetworkError(err) {
		return NewStructuredError(ErrNetwork, err.Error())
	}

	return NewStructuredError(ErrUnknown, err.Error())
}
