package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/takeme/profilectl/internal/debug"
)

const (
	// DefaultBaseURL is the profile resource root of a local server.
	DefaultBaseURL = "http://localhost:8080/api/profile"

	// DefaultTimeout of zero means requests never time out on their own;
	// cancellation comes from the caller's context.
	DefaultTimeout time.Duration = 0
)

// Client is the profile API client.
//
// A Client is safe for concurrent use once configured. Every operation is a
// single HTTP round trip; there is no retry.
type Client struct {
	BaseURL       string
	HTTP          *http.Client
	UserAgent     string
	RequestIDFunc func() string // generates X-Request-Id; nil disables the header
	Cache         ProfileCache  // optional read-through cache for profile reads
}

var _ Requester = (*Client)(nil)

// New creates a profile API client rooted at baseURL (for example
// "http://localhost:8080/api/profile"). An empty baseURL selects DefaultBaseURL.
func New(baseURL string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		RequestIDFunc: uuid.NewString,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// Profiles returns the profile resource operations.
func (c *Client) Profiles() ProfileService {
	return ProfileService{Requester: c, cache: c.Cache, cacheScope: cacheScope(c.BaseURL)}
}

// resourceURL joins path onto the base URL and appends the encoded query.
// Path segments are used verbatim.
func (c *Client) resourceURL(path string, query url.Values) string {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs an HTTP request and decodes the response into result.
func (c *Client) do(ctx context.Context, method, url string, body any, result any) error {
	respBody, _, _, err := c.executeRequest(ctx, method, url, body)
	if err != nil {
		return err
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &DecodeError{Method: method, URL: url, Err: err}
		}
	}
	return nil
}

// executeRequest marshals body as JSON and performs a single request.
// It returns the response body, headers, and status code.
func (c *Client) executeRequest(ctx context.Context, method, url string, body any) ([]byte, http.Header, int, error) {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var bodyReader io.Reader
	if jsonBody != nil {
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ""
	if c.RequestIDFunc != nil {
		requestID = c.RequestIDFunc()
		req.Header.Set("X-Request-Id", requestID)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", method, "url", url, "request_id", requestID, "error", err)
		}
		return nil, nil, 0, fmt.Errorf("request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", method, "url", url, "status", resp.StatusCode, "request_id", requestID, "duration", time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if id := requestIDFromHeader(resp.Header); id != "" {
			requestID = id
		}
		return respBody, resp.Header, resp.StatusCode, &APIError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       sanitizeErrorBody(respBody),
			RequestID:  requestID,
		}
	}

	return respBody, resp.Header, resp.StatusCode, nil
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get("X-Request-Id")
}

const maxErrorBody = 512

// sanitizeErrorBody extracts a readable message from an error response.
// The profile server answers errors as plain text; JSON error envelopes are
// also understood.
func sanitizeErrorBody(body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response body"
	}
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return text
}
