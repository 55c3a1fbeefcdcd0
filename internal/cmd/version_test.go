package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takeme/profilectl/internal/update"
)

func stubUpdateCheck(t *testing.T, result *update.CheckResult, err error) *int {
	t.Helper()
	calls := 0
	orig := checkForUpdate
	checkForUpdate = func(_ context.Context, _ string) (*update.CheckResult, error) {
		calls++
		return result, err
	}
	t.Cleanup(func() { checkForUpdate = orig })
	return &calls
}

func TestVersion(t *testing.T) {
	isolateEnv(t)
	stubUpdateCheck(t, nil, nil)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"version"}))
	})
	assert.Equal(t, "profilectl version dev\n", output)
}

func TestVersion_UpdateAvailable(t *testing.T) {
	isolateEnv(t)
	stubUpdateCheck(t, &update.CheckResult{
		CurrentVersion:  "v1.0.0",
		LatestVersion:   "v1.1.0",
		UpdateURL:       "https://example.com/release",
		UpdateAvailable: true,
	}, nil)

	stdout, stderr := captureOutput(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"version"}))
	})
	assert.Contains(t, stdout, "profilectl version")
	assert.Contains(t, stderr, "Update available: v1.0.0 -> v1.1.0")
	assert.Contains(t, stderr, "https://example.com/release")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"version", "-j"}))
	})
	var got map[string]any
	decodeJSON(t, output, &got)
	assert.Equal(t, "dev", got["version"])
	assert.Equal(t, true, got["update"].(map[string]any)["update_available"])
}

func TestVersion_CheckFailureIsIgnored(t *testing.T) {
	isolateEnv(t)
	stubUpdateCheck(t, nil, errors.New("offline"))

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"version"}))
	})
	assert.Equal(t, "profilectl version dev\n", output)
}

func TestVersion_NoCheck(t *testing.T) {
	isolateEnv(t)
	calls := stubUpdateCheck(t, nil, nil)

	captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"version", "--no-check"}))
	})
	assert.Zero(t, *calls)
}
