package main

import (
	"github.com/spf13/cobra"

	"github.com/jask/chargemap/internal/report"
)

func newSummaryCmd(o *options) *cobra.Command {
	var (
		ff     filterFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print station counts per city, station type and charge type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != "yaml" {
				return exitError(ExitInvalidArgs, "unsupported format %q (want text or yaml)", format)
			}
			t, f, err := o.selection(cmd, &ff)
			if err != nil {
				return err
			}
			s := report.Summarize(o.cfg.Data.Path, t, f)
			if format == "yaml" {
				return s.WriteYAML(cmd.OutOrStdout())
			}
			return s.WriteText(cmd.OutOrStdout())
		},
	}
	ff.register(cmd, true)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or yaml")
	return cmd
}
