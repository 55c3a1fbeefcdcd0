package examples

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takeme/profilectl/internal/api"
)

type recorded struct {
	Line string
	Body map[string]any
}

type fakeServer struct {
	mu       sync.Mutex
	requests []recorded
	status   int
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{Line: r.Method + " " + r.URL.Path + "?" + r.URL.RawQuery}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	if f.status != 0 {
		http.Error(w, "Internal error", f.status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/exists") {
		_, _ = w.Write([]byte(`{"exists":true}`))
		return
	}
	_, _ = w.Write([]byte(`{"id":1,"username":"john_doe"}`))
}

func newTestRunner(t *testing.T, status int) (*Runner, *fakeServer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	fake := &fakeServer{status: status}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	var logs, out bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	client := api.New(srv.URL + "/api/profile")
	return New(client.Profiles(), logger, &out), fake, &logs, &out
}

func TestRun_IssuesCallsInOrder(t *testing.T) {
	r, fake, logs, out := newTestRunner(t, 0)

	r.Run(context.Background())

	var lines []string
	for _, req := range fake.requests {
		lines = append(lines, req.Line)
	}
	assert.Equal(t, []string{
		"GET /api/profile/1?role=RIDER",
		"GET /api/profile/1?role=DRIVER",
		"PUT /api/profile/1?role=RIDER",
		"PUT /api/profile/1?role=DRIVER",
		"PATCH /api/profile/1?role=RIDER",
		"GET /api/profile/1/exists?role=RIDER",
		"GET /api/profile/1/exists?role=DRIVER",
		"GET /api/profile/email/john@example.com?role=RIDER",
	}, lines)

	assert.Equal(t, "john_doe_updated", fake.requests[2].Body["username"])
	assert.Equal(t, float64(26), fake.requests[2].Body["age"])
	assert.Equal(t, "Jane Smith", fake.requests[3].Body["name"])
	assert.Equal(t, "ONLINE", fake.requests[3].Body["status"])
	assert.Equal(t, map[string]any{"phone": "+9876543210", "location": "Los Angeles"}, fake.requests[4].Body)

	assert.True(t, strings.HasPrefix(out.String(), "=== Profile Management API Examples ===\n"))
	for _, header := range []string{
		"1. Getting Rider Profile:",
		"5. Partial Update (Rider):",
		"7. Getting Profile by Email:",
	} {
		assert.Contains(t, out.String(), "\n"+header+"\n")
	}

	assert.NotContains(t, logs.String(), `"level":"ERROR"`)
	assert.Contains(t, logs.String(), `"msg":"Rider Profile"`)
	assert.Contains(t, logs.String(), `"msg":"Updated Driver Profile"`)
	assert.Contains(t, logs.String(), `"msg":"Profile exists for user 1 with role DRIVER"`)
}

func TestRun_FailuresAreLoggedAndSwallowed(t *testing.T) {
	r, fake, logs, _ := newTestRunner(t, http.StatusInternalServerError)

	r.Run(context.Background())

	assert.Len(t, fake.requests, 8, "a failure must not stop the remaining calls")
	assert.Equal(t, 8, strings.Count(logs.String(), `"level":"ERROR"`))
	assert.Contains(t, logs.String(), `"msg":"Error getting rider profile"`)
	assert.Contains(t, logs.String(), `"msg":"Error updating driver profile"`)
	assert.Contains(t, logs.String(), `"code":"server_error"`)
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	r, fake, logs, _ := newTestRunner(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.Run(ctx)

	assert.Empty(t, fake.requests)
	assert.Contains(t, logs.String(), "examples interrupted")
}

func TestRunnerFunctions_ReturnValues(t *testing.T) {
	ctx := context.Background()

	ok, _, _, _ := newTestRunner(t, 0)
	p := ok.GetProfile(ctx, 1, api.RoleRider)
	require.NotNil(t, p)
	assert.Equal(t, "john_doe", p["username"])

	exists, valid := ok.CheckProfileExists(ctx, 1, api.RoleRider)
	assert.True(t, exists)
	assert.True(t, valid)

	bad, _, logs, _ := newTestRunner(t, http.StatusNotFound)
	assert.Nil(t, bad.GetProfile(ctx, 999, api.RoleDriver))
	assert.Nil(t, bad.UpdateProfile(ctx, 999, api.RoleDriver, SampleDriverUpdate()))
	assert.Nil(t, bad.PartialUpdateProfile(ctx, 999, api.RoleRider, SamplePartialRiderUpdate()))
	assert.Nil(t, bad.GetProfileByEmail(ctx, "nobody@example.com", api.RoleRider))
	exists, valid = bad.CheckProfileExists(ctx, 999, api.RoleRider)
	assert.False(t, exists)
	assert.False(t, valid)
	assert.Equal(t, 5, strings.Count(logs.String(), `"code":"not_found"`))
}

type stubProfiles struct {
	ProfileAPI
	exists bool
	err    error
}

func (s stubProfiles) Exists(context.Context, api.UserID, api.Role) (bool, error) {
	return s.exists, s.err
}

func TestCheckProfileExists_FalseIsValid(t *testing.T) {
	var logs bytes.Buffer
	r := New(stubProfiles{exists: false}, slog.New(slog.NewTextHandler(&logs, nil)), nil)

	exists, ok := r.CheckProfileExists(context.Background(), 1000, api.RoleDriver)
	assert.False(t, exists)
	assert.True(t, ok)
	assert.Contains(t, logs.String(), "exists=false")
}

func TestCheckProfileExists_DecodeError(t *testing.T) {
	var logs bytes.Buffer
	err := &api.DecodeError{Method: "GET", URL: "u", Err: errors.New("unexpected end of JSON input")}
	r := New(stubProfiles{err: err}, slog.New(slog.NewTextHandler(&logs, nil)), nil)

	exists, ok := r.CheckProfileExists(context.Background(), 1, api.RoleRider)
	assert.False(t, exists)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "code=decode_failed")
}

func TestTitleLabel(t *testing.T) {
	assert.Equal(t, "Rider", titleLabel(api.RoleRider))
	assert.Equal(t, "Driver", titleLabel(api.RoleDriver))
	assert.Equal(t, "", titleLabel(""))
}

func TestSamples_ReturnFreshMaps(t *testing.T) {
	first := SamplePartialRiderUpdate()
	first["phone"] = "changed"
	assert.Equal(t, "+9876543210", SamplePartialRiderUpdate()["phone"])

	assert.Equal(t, "john_doe_updated", SampleRiderUpdate()["username"])
	assert.Equal(t, "ONLINE", SampleDriverUpdate()["status"])
}
