package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/takeme/profilectl/internal/config"
	"github.com/takeme/profilectl/internal/debug"
	"github.com/takeme/profilectl/internal/dryrun"
	"github.com/takeme/profilectl/internal/iocontext"
	"github.com/takeme/profilectl/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output     string
	JSON       bool
	Query      string
	Compact    bool
	Debug      bool
	Quiet      bool
	Timeout    time.Duration
	BaseURL    string
	Cache      string
	ConfigPath string
	EnvFile    string
	DryRun     bool
}

// flags holds the global command flags. It is reset at the start of every
// Execute call; reading it outside a command's RunE sees the previous run.
var flags rootFlags

// skipSettings marks commands that must run even when the configuration
// cannot be loaded.
const skipSettings = "profilectl/skip-settings"

type settingsKey struct{}

func withSettings(ctx context.Context, s config.Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// settingsFrom returns the settings resolved for this run, or the defaults.
func settingsFrom(ctx context.Context) config.Settings {
	if s, ok := ctx.Value(settingsKey{}).(config.Settings); ok {
		return s
	}
	return config.Defaults()
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = rootFlags{}

	root := &cobra.Command{
		Use:                "profilectl",
		Short:              "Command-line client for the rider and driver profile API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // did-you-mean comes from enhanceUnknownError
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd)
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.BaseURL, "base-url", "", "Profile API base URL (env PROFILECTL_BASE_URL)")
	pf.StringVarP(&flags.Output, "output", "o", "", "Output format: text|json|jsonl (env PROFILECTL_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.Query, "query", "q", "", "jq expression to filter JSON output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "HTTP request timeout, 0 waits forever (env PROFILECTL_TIMEOUT)")
	pf.StringVar(&flags.Cache, "cache", "", "Profile cache backend: none|file|redis (env PROFILECTL_CACHE)")
	pf.StringVar(&flags.ConfigPath, "config", "", "Config file (env PROFILECTL_CONFIG)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Read environment variables from this file instead of ./.env")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print profile writes instead of sending them")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")

	root.AddCommand(newProfileCmd())
	root.AddCommand(newVehicleTypesCmd())
	root.AddCommand(newExamplesCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// setup resolves settings and installs output mode, streams and logging on
// the command context.
func setup(cmd *cobra.Command) error {
	ctx := cmd.Context()

	settings := config.Defaults()
	if cmd.Annotations[skipSettings] == "" {
		var timeout *time.Duration
		if cmd.Flags().Changed("timeout") {
			timeout = &flags.Timeout
		}
		var err error
		settings, err = config.Load(config.Overrides{
			ConfigPath: flags.ConfigPath,
			BaseURL:    flags.BaseURL,
			Timeout:    timeout,
			Cache:      flags.Cache,
			Output:     flags.Output,
			EnvFile:    flags.EnvFile,
		})
		if err != nil {
			return err
		}
	}
	ctx = withSettings(ctx, settings)

	output := settings.Output
	if flags.Output != "" {
		output = flags.Output
	}
	if flags.JSON {
		if cmd.Flags().Changed("output") && flags.Output != "json" {
			return fmt.Errorf("--json conflicts with --output %s", flags.Output)
		}
		output = "json"
	}
	mode, err := outfmt.Parse(output)
	if err != nil {
		return err
	}
	if strings.TrimSpace(flags.Query) != "" && mode == outfmt.Text {
		if cmd.Flags().Changed("output") {
			return fmt.Errorf("--query must be used with --output json or jsonl (or --json)")
		}
		mode = outfmt.JSON
	}
	ctx = outfmt.WithMode(ctx, mode)
	ctx = outfmt.WithCompact(ctx, flags.Compact)
	if q := strings.TrimSpace(flags.Query); q != "" {
		ctx = outfmt.WithQuery(ctx, q)
	}

	base := iocontext.GetIO(ctx)
	streams := &iocontext.IO{Out: base.Out, ErrOut: base.ErrOut, In: base.In}
	if flags.Quiet && mode == outfmt.Text {
		streams.Out = io.Discard
	}
	ctx = iocontext.WithIO(ctx, streams)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	debug.SetupLogger(flags.Debug)
	ctx = debug.WithDebug(ctx, flags.Debug)
	ctx = dryrun.WithDryRun(ctx, flags.DryRun)

	cmd.SetContext(ctx)
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
		return msg
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown == "" {
			return msg
		}
		cmd := root
		if targetCmd != nil {
			cmd = targetCmd
		}
		seen := make(map[string]bool)
		var names []string
		add := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				for _, n := range []string{"--" + f.Name, shorthand(f)} {
					if n != "" && !seen[n] {
						seen[n] = true
						names = append(names, n)
					}
				}
			})
		}
		add(cmd.Flags())
		add(cmd.InheritedFlags())

		helpCmd := strings.TrimSpace(cmd.CommandPath()) + " --help"
		if suggestion := suggestFlag(unknown, names); suggestion != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
		}
		return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
	}

	return msg
}

func shorthand(f *pflag.Flag) string {
	if f.Shorthand == "" {
		return ""
	}
	return "-" + f.Shorthand
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		rest := strings.TrimSpace(s[idx+1:])
		if end := strings.IndexByte(rest, ' '); end >= 0 {
			rest = rest[:end]
		}
		rest = strings.TrimRight(rest, ".,;:!?\"'")
		if strings.HasPrefix(rest, "-") && len(rest) > 1 {
			return rest
		}
		return ""
	}
	rest := s[idx:]
	end := strings.IndexByte(rest, ' ')
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimRight(rest[:end], ".,;:!?\"'")
}
