package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/takeme/profilectl/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Inspect and create the configuration file",
		RunE:    groupRunE,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved settings",
		Long: `Show the settings profilectl runs with after merging the config file,
.env, environment variables and flags. The redis password is masked.`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			settings := settingsFrom(cmd.Context())
			file := settings.File()

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{
					"path":       settings.Path,
					"base_url":   file.BaseURL,
					"timeout":    file.Timeout,
					"user_agent": file.UserAgent,
					"output":     file.Output,
					"cache": map[string]any{
						"backend": file.Cache.Backend,
						"ttl":     file.Cache.TTL,
						"dir":     file.Cache.Dir,
						"redis": map[string]any{
							"addr":     file.Cache.Redis.Addr,
							"password": file.Cache.Redis.Password,
							"db":       file.Cache.Redis.DB,
						},
					},
				})
			}

			if settings.Path != "" {
				printIfNotQuiet(cmd, "# %s\n", settings.Path)
			} else {
				printIfNotQuiet(cmd, "# no config file found; showing defaults and environment\n")
			}
			data, err := yaml.Marshal(file)
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(data)
			return nil
		}),
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			skipSettings: "true",
		},
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			path, _ := config.Path(flags.ConfigPath)
			if path == "" {
				return fmt.Errorf("could not determine config file location")
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"path": path})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}),
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Example: `  profilectl config init
  profilectl config init ./profilectl.yaml --force`,
		Args: cobra.MaximumNArgs(1),
		Annotations: map[string]string{
			skipSettings: "true",
		},
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return fmt.Errorf("could not determine config file location: %w", err)
				}
			}
			if err := config.Init(path, force); err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"path": path})
			}
			printIfNotQuiet(cmd, "Wrote %s\n", path)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
