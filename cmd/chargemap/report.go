package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jask/chargemap/internal/report"
	"github.com/jask/chargemap/internal/station"
)

func newReportCmd(o *options) *cobra.Command {
	var (
		ff     filterFlags
		out    string
		pngDir string
		title  string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the dashboard charts as an HTML page and optional PNG snapshots",
		Example: `  chargemap report --out estaciones.html
  chargemap report --city Medellín --png ./charts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, f, err := o.selection(cmd, &ff)
			if err != nil {
				return err
			}
			stations := station.Apply(t.Stations, f)
			if title == "" {
				title = o.cfg.UI.Title
			}

			if out == "-" {
				if err := report.WriteHTML(cmd.OutOrStdout(), title, stations); err != nil {
					return exitError(ExitDataError, "render html: %v", err)
				}
			} else {
				if err := writeFile(out, func(w io.Writer) error {
					return report.WriteHTML(w, title, stations)
				}); err != nil {
					return exitError(ExitDataError, "%v", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			}

			if pngDir == "" {
				return nil
			}
			if err := os.MkdirAll(pngDir, 0o755); err != nil {
				return exitError(ExitDataError, "mkdir %s: %v", pngDir, err)
			}
			charts := []struct {
				name   string
				render func(io.Writer, []station.Station) error
			}{
				{"cities.png", report.WriteCityBarPNG},
				{"charge_types.png", report.WriteChargeDonutPNG},
			}
			for _, c := range charts {
				var buf bytes.Buffer
				err := c.render(&buf, stations)
				if errors.Is(err, report.ErrNothingToDraw) {
					slog.Info("png skipped", "chart", c.name, "reason", err)
					continue
				}
				if err != nil {
					return exitError(ExitDataError, "render %s: %v", c.name, err)
				}
				path := filepath.Join(pngDir, c.name)
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return exitError(ExitDataError, "write %s: %v", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}
	ff.register(cmd, true)
	cmd.Flags().StringVarP(&out, "out", "o", "chargemap.html", `HTML output file ("-" for stdout)`)
	cmd.Flags().StringVar(&pngDir, "png", "", "also write PNG charts into this directory")
	cmd.Flags().StringVar(&title, "title", "", "page title (default ui.title)")
	return cmd
}

// writeFile renders into path via a temp file so a failed render leaves any
// previous output untouched.
func writeFile(path string, render func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".chargemap-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := render(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
