package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/takeme/profilectl/internal/config"
)

func TestConfigShow_MergesSources(t *testing.T) {
	dir := isolateEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profilectl.yaml"), []byte(strings.Join([]string{
		"base_url: http://file.example/api/profile",
		"timeout: 10s",
		"cache:",
		"  backend: redis",
		"  redis:",
		"    addr: localhost:6379",
		"    password: hunter2",
	}, "\n")), 0o600))
	t.Setenv(config.EnvTimeout, "3s")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"config", "show", "--base-url", "http://flag.example/api/profile"}))
	})

	require.True(t, strings.HasPrefix(output, "# profilectl.yaml\n"), output)
	var f config.File
	require.NoError(t, yaml.Unmarshal([]byte(output), &f))
	assert.Equal(t, "http://flag.example/api/profile", f.BaseURL)
	assert.Equal(t, "3s", f.Timeout)
	assert.Equal(t, "redis", f.Cache.Backend)
	assert.Equal(t, "********", f.Cache.Redis.Password)
	assert.NotContains(t, output, "hunter2")
}

func TestConfigShow_EnvFile(t *testing.T) {
	dir := isolateEnv(t)
	envFile := filepath.Join(dir, "staging.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PROFILECTL_BASE_URL=http://staging/api/profile\n"), 0o600))

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"config", "show", "--env-file", envFile, "-j"}))
	})
	var got map[string]any
	decodeJSON(t, output, &got)
	assert.Equal(t, "http://staging/api/profile", got["base_url"])
	assert.Equal(t, "", got["path"])
}

func TestConfigInit(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "nested", "profilectl.yaml")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"config", "init", path}))
	})
	assert.Equal(t, "Wrote "+path+"\n", output)

	f, err := config.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/profile", f.BaseURL)

	var initErr error
	stderr := captureStderr(t, func() {
		initErr = Execute(context.Background(), []string{"config", "init", path})
	})
	require.Error(t, initErr)
	assert.Contains(t, stderr, "--force")

	captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"config", "init", path, "--force"}))
	})
}

func TestConfigInit_DefaultLocation(t *testing.T) {
	dir := isolateEnv(t)

	captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"config", "init"}))
	})
	_, err := os.Stat(filepath.Join(dir, "config", "profilectl", "profilectl.yaml"))
	assert.NoError(t, err)
}

func TestConfigPath_Flag(t *testing.T) {
	isolateEnv(t)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"config", "path", "--config", "/tmp/custom.yaml"}))
	})
	assert.Equal(t, "/tmp/custom.yaml\n", output)
}
