package api

import (
	"context"
	"net/url"
)

// Requester is the request surface ProfileService depends on: URL
// construction against the base path and JSON request execution.
//
// Tests substitute it to exercise ProfileService without a network.
type Requester interface {
	// resourceURL returns the absolute URL for path under the base URL.
	// Example: resourceURL("/1", role=RIDER) -> "http://host/api/profile/1?role=RIDER"
	resourceURL(path string, query url.Values) string

	// do executes a request, marshaling body to JSON when non-nil and
	// unmarshaling the response into result when non-nil.
	do(ctx context.Context, method, url string, body any, result any) error
}
