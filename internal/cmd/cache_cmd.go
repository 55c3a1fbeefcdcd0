package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/takeme/profilectl/internal/cache"
	"github.com/takeme/profilectl/internal/cli"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Manage the profile cache",
		RunE:    groupRunE,
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePruneCmd())
	return cmd
}

// openCache opens the configured store. It fails when caching is disabled
// so "cache clear" never silently does nothing.
func openCache(cmd *cobra.Command) (cache.Store, error) {
	settings := settingsFrom(cmd.Context())
	store, err := cache.Open(settings.Cache)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("profile cache is disabled: must be enabled with --cache file|redis or PROFILECTL_CACHE")
	}
	return store, nil
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			backend := settingsFrom(cmd.Context()).Cache.Backend
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"backend": backend, "cleared": true})
			}
			printIfNotQuiet(cmd, "Cache cleared (%s)\n", backend)
			return nil
		}),
	}
}

func newCachePruneCmd() *cobra.Command {
	var olderThan string
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached profiles older than an age",
		Example: `  profilectl cache prune --cache file --older-than 30m
  profilectl cache prune --older-than 2d
  profilectl cache prune --older-than yesterday`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			age, err := cli.ParseAge(olderThan, time.Now())
			if err != nil {
				return fmt.Errorf("invalid --older-than: %w", err)
			}
			store, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			removed, err := store.Prune(cmd.Context(), age)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"removed": removed})
			}
			printIfNotQuiet(cmd, "Removed %d cached profile(s)\n", removed)
			return nil
		}),
	}
	cmd.Flags().StringVar(&olderThan, "older-than", "1h", "Age threshold: a duration (30m, 2d, 1w), weekday or date")
	return cmd
}
