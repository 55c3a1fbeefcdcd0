package update

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, status int, release any) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(release)
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, HTTP: srv.Client()}
}

func TestNormalizeVersion(t *testing.T) {
	tests := map[string]string{
		"1.0.0":     "v1.0.0",
		"v1.0.0":    "v1.0.0",
		"v10.20.30": "v10.20.30",
		"":          "v",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeVersion(in), in)
	}
}

func TestCheck_DevVersionSkipped(t *testing.T) {
	c := &Checker{URL: "http://127.0.0.1:0"}
	for _, v := range []string{"dev", ""} {
		res, err := c.Check(context.Background(), v)
		assert.NoError(t, err)
		assert.Nil(t, res)
	}
}

func TestCheck_UpdateAvailable(t *testing.T) {
	c := releaseServer(t, http.StatusOK, Release{
		TagName: "v1.3.0",
		HTMLURL: "https://github.com/takeme/profilectl/releases/tag/v1.3.0",
	})

	res, err := c.Check(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.True(t, res.UpdateAvailable)
	assert.Equal(t, "1.3.0", res.LatestVersion)
	assert.Equal(t, "1.2.0", res.CurrentVersion)
	assert.Contains(t, res.UpdateURL, "v1.3.0")
}

func TestCheck_UpToDate(t *testing.T) {
	c := releaseServer(t, http.StatusOK, Release{TagName: "v1.2.0"})

	res, err := c.Check(context.Background(), "v1.2.0")
	require.NoError(t, err)
	assert.False(t, res.UpdateAvailable)
}

func TestCheck_PrereleaseIgnored(t *testing.T) {
	c := releaseServer(t, http.StatusOK, Release{TagName: "v2.0.0-rc.1"})

	res, err := c.Check(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.False(t, res.UpdateAvailable)

	c = releaseServer(t, http.StatusOK, Release{TagName: "v2.0.0", Prerelease: true})
	res, err = c.Check(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.False(t, res.UpdateAvailable)
}

func TestCheck_InvalidVersions(t *testing.T) {
	c := releaseServer(t, http.StatusOK, Release{TagName: "latest"})

	res, err := c.Check(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.False(t, res.UpdateAvailable)
}

func TestCheck_Errors(t *testing.T) {
	c := releaseServer(t, http.StatusNotFound, map[string]string{"message": "Not Found"})
	_, err := c.Check(context.Background(), "1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()
	_, err = (&Checker{URL: srv.URL}).Check(context.Background(), "1.0.0")
	require.Error(t, err)
}
