package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takeme/profilectl/internal/api"
	"github.com/takeme/profilectl/internal/dryrun"
	"github.com/takeme/profilectl/internal/iocontext"
	"github.com/takeme/profilectl/internal/validation"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles", "p"},
		Short:   "Read and update rider and driver profiles",
		RunE:    groupRunE,
	}

	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileUpdateCmd())
	cmd.AddCommand(newProfilePatchCmd())
	cmd.AddCommand(newProfileExistsCmd())
	cmd.AddCommand(newProfileByEmailCmd())
	cmd.AddCommand(newProfileMeCmd())

	return cmd
}

func newProfileGetCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:     "get <user-id>",
		Aliases: []string{"show"},
		Short:   "Get a profile by user ID",
		Example: "profilectl profile get 1 --role RIDER",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			r, err := parseRoleFlag(role)
			if err != nil {
				return err
			}
			client, closeClient, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeClient()

			profile, err := client.Profiles().Get(cmd.Context(), id, r)
			if err != nil {
				return err
			}
			return printProfile(cmd, r, profile)
		}),
	}
	addRoleFlag(cmd, &role)
	return cmd
}

// writeFlags are the body flags shared by update and patch.
type writeFlags struct {
	role string
	data string
	set  []string
}

func (w *writeFlags) register(cmd *cobra.Command) {
	addRoleFlag(cmd, &w.role)
	cmd.Flags().StringVarP(&w.data, "data", "d", "", "Profile JSON: inline, @file, or - for stdin")
	cmd.Flags().StringArrayVar(&w.set, "set", nil, "Set a field as key=value (repeatable; JSON values keep their type)")
}

func (w *writeFlags) body(cmd *cobra.Command) (api.Profile, error) {
	if strings.TrimSpace(w.data) == "" && len(w.set) == 0 {
		return nil, fmt.Errorf("--data or --set must be given")
	}
	profile, err := readProfileData(cmd, w.data)
	if err != nil {
		return nil, err
	}
	return applySetFlags(profile, w.set)
}

func newProfileUpdateCmd() *cobra.Command {
	var wf writeFlags
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Replace a profile (PUT)",
		Example: strings.TrimSpace(`
  profilectl profile update 1 --role RIDER --data '{"username":"john_updated"}'
  profilectl profile update 2 --role DRIVER --data @driver.json`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			return runProfileWrite(cmd, args[0], &wf, false)
		}),
	}
	wf.register(cmd)
	return cmd
}

func newProfilePatchCmd() *cobra.Command {
	var wf writeFlags
	cmd := &cobra.Command{
		Use:   "patch <user-id>",
		Short: "Update only the given profile fields (PATCH)",
		Example: strings.TrimSpace(`
  profilectl profile patch 1 --role RIDER --set location="New York, NY"
  profilectl profile patch 1 --role RIDER --data '{"age":30}'`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			return runProfileWrite(cmd, args[0], &wf, true)
		}),
	}
	wf.register(cmd)
	return cmd
}

func runProfileWrite(cmd *cobra.Command, rawID string, wf *writeFlags, partial bool) error {
	id, err := parseUserID(rawID)
	if err != nil {
		return err
	}
	r, err := parseRoleFlag(wf.role)
	if err != nil {
		return err
	}
	body, err := wf.body(cmd)
	if err != nil {
		return err
	}
	client, closeClient, err := getClient(cmd.Context())
	if err != nil {
		return err
	}
	defer closeClient()

	if dryrun.IsEnabled(cmd.Context()) {
		method := http.MethodPut
		if partial {
			method = http.MethodPatch
		}
		return printDryRun(cmd, dryrun.New(method, client.Profiles().ProfileURL(id, r), body))
	}

	var updated api.Profile
	if partial {
		updated, err = client.Profiles().PartialUpdate(cmd.Context(), id, r, body)
	} else {
		updated, err = client.Profiles().Update(cmd.Context(), id, r, body)
	}
	if err != nil {
		return err
	}
	return printProfile(cmd, r, updated)
}

type existsRow struct {
	UserID api.UserID `json:"user_id"`
	Role   api.Role   `json:"role"`
	Exists bool       `json:"exists"`
	Error  string     `json:"error,omitempty"`
}

func newProfileExistsCmd() *cobra.Command {
	var (
		role        string
		concurrency int64
		progress    bool
	)
	cmd := &cobra.Command{
		Use:   "exists <user-id>...",
		Short: "Check whether profiles exist",
		Long: strings.TrimSpace(`
Check whether a profile exists for each user ID. Several IDs may be given as
separate arguments or comma separated; they are checked concurrently and
reported in the order given.`),
		Example: strings.TrimSpace(`
  profilectl profile exists 1 --role RIDER
  profilectl profile exists 1,2,3 --role DRIVER --concurrency 2`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids, err := parseUserIDs(args)
			if err != nil {
				return err
			}
			r, err := parseRoleFlag(role)
			if err != nil {
				return err
			}
			if concurrency < 1 {
				return fmt.Errorf("invalid --concurrency %d: must be at least 1", concurrency)
			}
			client, closeClient, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeClient()
			profiles := client.Profiles()

			if len(ids) == 1 {
				exists, err := profiles.Exists(cmd.Context(), ids[0], r)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					return printJSON(cmd, existsRow{UserID: ids[0], Role: r, Exists: exists})
				}
				printIfNotQuiet(cmd, "%t\n", exists)
				return nil
			}

			results := runBulkOperation(cmd.Context(), ids, concurrency, progress && !flags.Quiet,
				iocontext.GetIO(cmd.Context()).ErrOut,
				func(ctx context.Context, id api.UserID) (bool, error) {
					return profiles.Exists(ctx, id, r)
				})

			rows := make([]existsRow, len(results))
			for i, res := range results {
				rows[i] = existsRow{UserID: res.UserID, Role: r, Exists: res.Value}
				if res.Err != nil {
					rows[i].Error = res.Err.Error()
				}
			}

			if isJSON(cmd) {
				if err := printJSON(cmd, rows); err != nil {
					return err
				}
			} else {
				f := formatter(cmd)
				f.StartTable([]string{"USER ID", "EXISTS"})
				for _, row := range rows {
					status := strconv.FormatBool(row.Exists)
					if row.Error != "" {
						status = "error: " + row.Error
					}
					f.Row(row.UserID.String(), status)
				}
				if err := f.EndTable(); err != nil {
					return err
				}
			}

			if _, failed := countResults(results); failed > 0 {
				return fmt.Errorf("%d of %d existence checks failed", failed, len(results))
			}
			return nil
		}),
	}
	addRoleFlag(cmd, &role)
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Maximum concurrent requests when checking several IDs")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show progress on stderr when checking several IDs")
	return cmd
}

func newProfileByEmailCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:     "by-email <email>",
		Aliases: []string{"email"},
		Short:   "Get a profile by email address",
		Example: "profilectl profile by-email john@example.com --role RIDER",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateEmail(args[0]); err != nil {
				return err
			}
			r, err := parseRoleFlag(role)
			if err != nil {
				return err
			}
			client, closeClient, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeClient()

			profile, err := client.Profiles().GetByEmail(cmd.Context(), args[0], r)
			if err != nil {
				return err
			}
			return printProfile(cmd, r, profile)
		}),
	}
	addRoleFlag(cmd, &role)
	return cmd
}

func newProfileMeCmd() *cobra.Command {
	var (
		role   string
		userID string
	)
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Get the current user's profile",
		Long: strings.TrimSpace(`
Get the profile of the current user. The server identifies the user from
the userId and role query parameters.`),
		Example: "profilectl profile me --role DRIVER --user-id 2",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			id, r, err := parseCurrentUser(userID, role)
			if err != nil {
				return err
			}
			client, closeClient, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeClient()

			profile, err := client.Profiles().GetCurrent(cmd.Context(), id, r)
			if err != nil {
				return err
			}
			return printProfile(cmd, r, profile)
		}),
	}
	addRoleFlag(cmd, &role)
	addUserIDFlag(cmd, &userID)
	cmd.AddCommand(newProfileMeUpdateCmd())
	return cmd
}

func newProfileMeUpdateCmd() *cobra.Command {
	var (
		wf     writeFlags
		userID string
	)
	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update the current user's profile",
		Example: `profilectl profile me update --role RIDER --user-id 1 --set age=31`,
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			id, r, err := parseCurrentUser(userID, wf.role)
			if err != nil {
				return err
			}
			body, err := wf.body(cmd)
			if err != nil {
				return err
			}
			client, closeClient, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeClient()

			if dryrun.IsEnabled(cmd.Context()) {
				return printDryRun(cmd, dryrun.New(http.MethodPut, client.Profiles().CurrentURL(id, r), body))
			}

			updated, err := client.Profiles().UpdateCurrent(cmd.Context(), id, r, body)
			if err != nil {
				return err
			}
			return printProfile(cmd, r, updated)
		}),
	}
	wf.register(cmd)
	addUserIDFlag(cmd, &userID)
	return cmd
}

func printDryRun(cmd *cobra.Command, p *dryrun.Preview) error {
	if isJSON(cmd) {
		return printJSON(cmd, p)
	}
	return p.Write(iocontext.GetIO(cmd.Context()).Out)
}

func addUserIDFlag(cmd *cobra.Command, userID *string) {
	cmd.Flags().StringVarP(userID, "user-id", "u", "", "Current user's ID")
	_ = cmd.MarkFlagRequired("user-id")
}

func parseCurrentUser(rawID, rawRole string) (api.UserID, api.Role, error) {
	id, err := parseUserID(rawID)
	if err != nil {
		return 0, "", err
	}
	r, err := parseRoleFlag(rawRole)
	if err != nil {
		return 0, "", err
	}
	return id, r, nil
}
