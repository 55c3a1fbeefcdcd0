package cmd

import (
	"github.com/spf13/cobra"
)

func newVehicleTypesCmd() *cobra.Command {
	var onlyAvailable bool
	cmd := &cobra.Command{
		Use:     "vehicle-types",
		Aliases: []string{"vt"},
		Short:   "List the vehicle types drivers can register",
		Example: "profilectl vehicle-types --only-available",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, closeClient, err := getClient(cmd.Context())
			if err != nil {
				return err
			}
			defer closeClient()

			types, err := client.Profiles().VehicleTypes(cmd.Context(), onlyAvailable)
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				if types == nil {
					types = []string{}
				}
				return printJSON(cmd, types)
			}

			f := formatter(cmd)
			if len(types) == 0 {
				f.Empty("No vehicle types found")
				return nil
			}
			f.StartTable([]string{"VEHICLE TYPE"})
			for _, t := range types {
				f.Row(t)
			}
			return f.EndTable()
		}),
	}
	cmd.Flags().BoolVar(&onlyAvailable, "only-available", false, "Only list vehicle types that currently have capacity")
	return cmd
}
