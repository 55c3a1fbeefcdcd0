package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takeme/profilectl/internal/api"
	"github.com/takeme/profilectl/internal/iocontext"
	"github.com/takeme/profilectl/internal/outfmt"
	"github.com/takeme/profilectl/internal/resolve"
)

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if isJSON(cmd) {
			if structured := api.StructuredErrorFromError(err); structured != nil {
				_ = printJSONErr(cmd, structured)
			}
		} else {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		}
		// The original error stays reachable for tests via Error().
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// groupRunE reports stray arguments on a command that only groups
// subcommands, so they get did-you-mean handling.
func groupRunE(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return cmd.Help()
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

func formatter(cmd *cobra.Command) *outfmt.Formatter {
	streams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), streams.Out, streams.ErrOut)
}

// printJSON outputs data as JSON with the --query filter applied.
func printJSON(cmd *cobra.Command, v any) error {
	return formatter(cmd).Output(v)
}

func printJSONErr(cmd *cobra.Command, v any) error {
	return outfmt.WriteJSON(iocontext.GetIO(cmd.Context()).ErrOut, v)
}

// printIfNotQuiet prints to stdout only if not in quiet mode
func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if flags.Quiet {
		return
	}
	_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).Out, format, args...)
}

func parseUserID(s string) (api.UserID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID %q: must be an integer", s)
	}
	return api.UserID(id), nil
}

// parseUserIDs accepts ids as separate arguments and/or comma separated.
func parseUserIDs(args []string) ([]api.UserID, error) {
	var ids []api.UserID
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseUserID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one user ID is required")
	}
	return ids, nil
}

func addRoleFlag(cmd *cobra.Command, role *string) {
	cmd.Flags().StringVarP(role, "role", "r", "", "Profile role: RIDER|DRIVER (USER is an alias for RIDER)")
	_ = cmd.MarkFlagRequired("role")
}

func parseRoleFlag(value string) (api.Role, error) {
	return resolve.Role(value)
}

// readProfileData loads a JSON object from --data. The value may be inline
// JSON, "@path" to read a file, or "-" to read stdin.
func readProfileData(cmd *cobra.Command, value string) (api.Profile, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	var data []byte
	switch {
	case value == "-":
		b, err := io.ReadAll(iocontext.GetIO(cmd.Context()).In)
		if err != nil {
			return nil, fmt.Errorf("failed to read --data from stdin: %w", err)
		}
		data = b
	case strings.HasPrefix(value, "@"):
		path := strings.TrimPrefix(value, "@")
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read --data file %q: %w", path, err)
		}
		data = b
	default:
		data = []byte(value)
	}

	var profile api.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("invalid --data: must be a JSON object: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("invalid --data: must be a JSON object, got null")
	}
	return profile, nil
}

// applySetFlags merges key=value pairs into profile. Values that parse as
// JSON (numbers, booleans, null, objects) keep their type; anything else is
// a string.
func applySetFlags(profile api.Profile, pairs []string) (api.Profile, error) {
	if len(pairs) == 0 {
		return profile, nil
	}
	if profile == nil {
		profile = api.Profile{}
	}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: must be key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		profile[key] = v
	}
	return profile, nil
}
