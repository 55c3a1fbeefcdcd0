package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/takeme/profilectl/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

// checkForUpdate is replaced in tests.
var checkForUpdate = func(ctx context.Context, current string) (*update.CheckResult, error) {
	return update.NewChecker().Check(ctx, current)
}

func newVersionCmd() *cobra.Command {
	var noCheck bool
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		Annotations: map[string]string{
			skipSettings: "true",
		},
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var result *update.CheckResult
			if !noCheck {
				var err error
				// Update checks never fail the command.
				result, err = checkForUpdate(cmd.Context(), version)
				if err != nil {
					slog.Debug("update check failed", "error", err)
				}
			}

			if isJSON(cmd) {
				payload := map[string]any{"version": version}
				if result != nil {
					payload["update"] = result
				}
				return printJSON(cmd, payload)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "profilectl version %s\n", version)
			if result != nil && result.UpdateAvailable {
				errOut := cmd.ErrOrStderr()
				_, _ = fmt.Fprintf(errOut, "\nUpdate available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", result.UpdateURL)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "Skip the check for a newer release")
	return cmd
}
