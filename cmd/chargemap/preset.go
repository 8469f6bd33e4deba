package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/chargemap/internal/report"
	"github.com/jask/chargemap/internal/service"
	"github.com/jask/chargemap/internal/station"
)

func newPresetCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved filter presets",
	}
	cmd.AddCommand(
		newPresetListCmd(o),
		newPresetSaveCmd(o),
		newPresetShowCmd(o),
		newPresetDeleteCmd(o),
	)
	return cmd
}

func newPresetListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeDB, err := o.openPresets()
			if err != nil {
				return err
			}
			defer closeDB()

			presets, err := svc.List(cmd.Context())
			if err != nil {
				return exitError(ExitDataError, "%v", err)
			}
			w := cmd.OutOrStdout()
			if len(presets) == 0 {
				_, err := fmt.Fprintln(w, "No presets saved.")
				return err
			}
			tbl := report.NewTable(
				report.Column{Header: "Name", MaxWidth: 32},
				report.Column{Header: station.City.Label(), MaxWidth: 40},
				report.Column{Header: station.StationType.Label(), MaxWidth: 24},
				report.Column{Header: station.ChargeType.Label(), MaxWidth: 24},
				report.Column{Header: "Updated"},
			)
			for _, p := range presets {
				f := service.FiltersOf(p)
				tbl.AddRow(
					p.Name,
					describe(f.Values(station.City)),
					describe(f.Values(station.StationType)),
					describe(f.Values(station.ChargeType)),
					p.UpdatedAt.Local().Format("2006-01-02 15:04"),
				)
			}
			return tbl.Render(w)
		},
	}
}

func newPresetSaveCmd(o *options) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the given filters under NAME, replacing an existing preset",
		Example: `  chargemap preset save centro --city Medellín --type Electrica`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, f, err := o.selection(cmd, &ff)
			if err != nil {
				return err
			}
			svc, closeDB, err := o.openPresets()
			if err != nil {
				return err
			}
			defer closeDB()

			p, err := svc.Save(cmd.Context(), args[0], f)
			switch {
			case errors.Is(err, service.ErrInvalidPresetName):
				return exitError(ExitInvalidArgs, "%v", err)
			case err != nil:
				return exitError(ExitDataError, "%v", err)
			}
			matched := len(station.Apply(t.Stations, f))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved preset %q (%d stations match)\n", p.Name, matched)
			return err
		},
	}
	ff.register(cmd, false)
	return cmd
}

func newPresetShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print the filters stored in a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := o.openPresets()
			if err != nil {
				return err
			}
			defer closeDB()

			p, err := svc.Presets.ByName(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return exitError(ExitDataError, "%v", err)
			}
			if p == nil {
				return exitError(ExitInvalidArgs, "preset %q not found", args[0])
			}
			f := service.FiltersOf(*p)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", report.SectionTitle(p.Name))
			for _, d := range station.Dimensions {
				fmt.Fprintf(w, "  %-14s %s\n", d.Label()+":", describe(f.Values(d)))
			}
			_, err = fmt.Fprintf(w, "  %-14s %s\n", "updated:", p.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			return err
		},
	}
}

func newPresetDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a saved preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := o.openPresets()
			if err != nil {
				return err
			}
			defer closeDB()

			err = svc.Delete(cmd.Context(), args[0])
			switch {
			case errors.Is(err, service.ErrPresetNotFound):
				return exitError(ExitInvalidArgs, "preset %q not found", args[0])
			case err != nil:
				return exitError(ExitDataError, "%v", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted preset %q\n", strings.TrimSpace(args[0]))
			return err
		},
	}
}

// describe renders a dimension's selected values; no values means any.
func describe(values []string) string {
	if len(values) == 0 {
		return "(any)"
	}
	return strings.Join(values, ", ")
}
