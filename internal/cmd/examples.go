package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/takeme/profilectl/internal/debug"
	"github.com/takeme/profilectl/internal/examples"
	"github.com/takeme/profilectl/internal/iocontext"
)

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Run every profile operation against the server with sample data",
		Long: `Run a fixed walkthrough of the profile API: get, update, partial update,
existence check and lookup by email, for both riders and drivers.

Each result is logged. A failing call is logged and the walkthrough continues.`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, closeClient, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeClient()

			out := iocontext.GetIO(cmd.Context()).Out
			level := slog.LevelInfo
			if debug.IsEnabled(cmd.Context()) {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

			examples.New(client.Profiles(), logger, out).Run(cmd.Context())
			return nil
		}),
	}
}
