// Test helpers for running commands against a mock profile server.
//
// A typical test routes the endpoints it needs, points the CLI at the
// server and captures what the command prints:
//
//	handler := newRouteHandler().
//	    On("GET", "/api/profile/1", jsonResponse(200, `{"id": 1}`))
//	setupTestEnvWithHandler(t, handler)
//
//	output := captureStdout(t, func() {
//	    err := Execute(context.Background(), []string{"profile", "get", "1", "-r", "RIDER"})
//	    require.NoError(t, err)
//	})
package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/takeme/profilectl/internal/config"
)

// captureStdout executes fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr executes fn and returns what it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureOutput captures stdout and stderr of fn.
func captureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	stderr = captureStderr(t, func() {
		stdout = captureStdout(t, fn)
	})
	return stdout, stderr
}

// isolateEnv clears every profilectl variable and runs the test in an empty
// directory with private config and cache dirs.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		config.EnvBaseURL, config.EnvTimeout, config.EnvUserAgent, config.EnvCache,
		config.EnvCacheTTL, config.EnvCacheDir, config.EnvRedisAddr,
		config.EnvRedisPassword, config.EnvRedisDB, config.EnvOutput, config.EnvConfig,
	} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir+"/config")
	t.Setenv("XDG_CACHE_HOME", dir+"/cache")
	t.Chdir(dir)
	return dir
}

type testEnv struct {
	server *httptest.Server
	dir    string
}

// baseURL is the profile resource root on the mock server.
func (e *testEnv) baseURL() string {
	return e.server.URL + "/api/profile"
}

// setupTestEnvWithHandler starts a mock server and points PROFILECTL_BASE_URL
// at its /api/profile root.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	dir := isolateEnv(t)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	env := &testEnv{server: server, dir: dir}
	t.Setenv(config.EnvBaseURL, env.baseURL())
	return env
}

// recordedRequest is a request seen by a routeHandler.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// routeHandler routes "METHOD /path" to a handler and records every request.
type routeHandler struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []recordedRequest
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers a handler for method and path (without the query string).
func (h *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	h.routes[method+" "+path] = handler
	return h
}

func (h *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	h.mu.Lock()
	h.requests = append(h.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
	})
	handler, ok := h.routes[r.Method+" "+r.URL.Path]
	h.mu.Unlock()

	if !ok {
		http.Error(w, "not found: "+r.Method+" "+r.URL.Path, http.StatusNotFound)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	handler(w, r)
}

// Requests returns a copy of the recorded requests.
func (h *routeHandler) Requests() []recordedRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]recordedRequest(nil), h.requests...)
}

// jsonResponse answers with status and body as application/json.
func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// textResponse answers with a plain-text body, as the server does for errors.
func textResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("invalid JSON output %q: %v", s, err)
	}
}
