package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jask/chargemap/internal/sample"
)

func newSampleCmd(o *options) *cobra.Command {
	var (
		out  string
		opts = sample.Options{MissingCoords: 0.15, MissingCharge: 0.03}
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic stations CSV for trying the dashboard",
		Example: `  chargemap sample --out demo.csv --rows 200
  chargemap --data demo.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Rows < 0 {
				return exitError(ExitInvalidArgs, "--rows must not be negative")
			}
			src, err := o.source()
			if err != nil {
				return err
			}
			render := func(w io.Writer) error { return sample.Generate(w, src.Layout, opts) }
			if out == "-" {
				return render(cmd.OutOrStdout())
			}
			if err := writeFile(out, render); err != nil {
				return exitError(ExitDataError, "%v", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d stations to %s\n", opts.Rows, out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", `output file ("-" for stdout)`)
	cmd.Flags().IntVarP(&opts.Rows, "rows", "n", 100, "number of stations")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	return cmd
}
