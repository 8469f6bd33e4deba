package main

import (
	"github.com/spf13/cobra"

	"github.com/jask/chargemap/internal/report"
	"github.com/jask/chargemap/internal/station"
)

func newListCmd(o *options) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stations matching the filters",
		Example: `  chargemap list --city Medellín --charge DC
  chargemap list --preset centro`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, f, err := o.selection(cmd, &ff)
			if err != nil {
				return err
			}
			return report.WriteStations(cmd.OutOrStdout(), t, station.Apply(t.Stations, f))
		},
	}
	ff.register(cmd, true)
	return cmd
}
