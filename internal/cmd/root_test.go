package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Help(t *testing.T) {
	isolateEnv(t)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"--help"}))
	})
	for _, want := range []string{"profile", "vehicle-types", "examples", "config", "cache", "version"} {
		assert.Contains(t, output, want)
	}
}

func TestExecute_UnknownCommandSuggests(t *testing.T) {
	isolateEnv(t)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"profle"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, `Did you mean "profile"?`)
}

func TestExecute_UnknownFlagSuggests(t *testing.T) {
	isolateEnv(t)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"vehicle-types", "--only-availble"})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, `Did you mean "--only-available"?`)
	assert.Contains(t, stderr, `Run "profilectl vehicle-types --help"`)
}

func TestExecute_OutputFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"json conflicts with text", []string{"version", "--no-check", "--json", "-o", "text"}, "--json conflicts with --output text"},
		{"query needs json", []string{"version", "--no-check", "-o", "text", "-q", ".version"}, "--query must be used with"},
		{"bad output", []string{"version", "--no-check", "-o", "yaml"}, "invalid output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			var err error
			stderr := captureStderr(t, func() {
				err = Execute(context.Background(), tt.args)
			})
			require.Error(t, err)
			assert.Contains(t, stderr, tt.wantErr)
			assert.Equal(t, exitUsage, ExitCode(err))
		})
	}
}

func TestExecute_QueryImpliesJSON(t *testing.T) {
	isolateEnv(t)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"version", "--no-check", "-q", ".version"}))
	})
	assert.Equal(t, "\"dev\"\n", output)
}

func TestExecute_OutputFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PROFILECTL_OUTPUT", "json")

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"config", "show", "--compact-json"}))
	})
	assert.True(t, strings.HasPrefix(output, `{"base_url":"http://localhost:8080/api/profile"`), output)
}

func TestExecute_BrokenConfigFile(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "profilectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unterminated\n"), 0o600))

	var err error
	captureStderr(t, func() {
		err = Execute(context.Background(), []string{"config", "show"})
	})
	require.Error(t, err)

	// config path does not load settings, so it still works.
	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"config", "path"}))
	})
	assert.Equal(t, "profilectl.yaml\n", output)
}

func TestExecute_QuietSuppressesText(t *testing.T) {
	isolateEnv(t)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"version", "--no-check", "--quiet"}))
	})
	assert.Empty(t, output)
}

func TestExecute_GroupWithoutSubcommandShowsHelp(t *testing.T) {
	isolateEnv(t)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"cache"}))
	})
	assert.Contains(t, output, "clear")
	assert.Contains(t, output, "prune")
}

func TestExtractFlag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"unknown flag: --rol", "--rol"},
		{"unknown shorthand flag: 'x' in -x", "-x"},
		{"something else", ""},
	}
	for _, tt := range tests {
		if got := extractFlag(tt.in); got != tt.want {
			t.Errorf("extractFlag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractQuoted(t *testing.T) {
	if got := extractQuoted(`unknown command "prof" for "profilectl"`); got != "prof" {
		t.Errorf("extractQuoted = %q", got)
	}
	if got := extractQuoted("no quotes"); got != "" {
		t.Errorf("extractQuoted = %q, want empty", got)
	}
}
