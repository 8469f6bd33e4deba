package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/chargemap/internal/config"
	"github.com/jask/chargemap/internal/database"
	"github.com/jask/chargemap/internal/database/repository"
	"github.com/jask/chargemap/internal/format"
	"github.com/jask/chargemap/internal/log"
	"github.com/jask/chargemap/internal/report"
	"github.com/jask/chargemap/internal/service"
	"github.com/jask/chargemap/internal/station"
)

func (o *options) logLevel() slog.Level {
	return log.Level(o.verbose, o.quiet, o.cfg.Log.Level)
}

// configFile is where config init writes and config show reads from.
func (o *options) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	if env := os.Getenv("CHARGEMAP_CONFIG"); env != "" {
		return env
	}
	return config.DefaultPath()
}

func (o *options) source() (*station.Source, error) {
	layouts, err := format.Load(o.cfg.Data.LayoutsDir)
	if err != nil {
		return nil, exitError(ExitDataError, "load layouts: %v", err)
	}
	l, ok := format.Find(layouts, o.cfg.Data.Layout)
	if !ok {
		return nil, exitError(ExitInvalidArgs, "unknown layout %q (defined in %s)", o.cfg.Data.Layout, format.Path(o.cfg.Data.LayoutsDir))
	}
	return station.NewSource(o.cfg.Data.Path, l), nil
}

// loadTable reads the configured dataset. Any failure is a data error.
func (o *options) loadTable(ctx context.Context) (*station.Source, *station.Table, error) {
	src, err := o.source()
	if err != nil {
		return nil, nil, err
	}
	t, _, err := src.Load(ctx)
	if err != nil {
		return nil, nil, exitError(ExitDataError, "%v", err)
	}
	if t.Skipped > 0 {
		slog.Warn("skipped malformed lines", "path", src.Path, "count", t.Skipped)
	}
	return src, t, nil
}

// openPresets opens the preset store, applying migrations first. The
// returned close func must be called when done.
func (o *options) openPresets() (*service.PresetService, func(), error) {
	db, err := database.OpenAndMigrate(o.cfg.Database.Path)
	if err != nil {
		return nil, nil, exitError(ExitDataError, "open preset store: %v", err)
	}
	svc := &service.PresetService{Presets: repository.NewPresetRepo(db)}
	return svc, func() { _ = db.Close() }, nil
}

// filterFlags are the selection flags shared by list, summary, report and
// preset save.
type filterFlags struct {
	cities       []string
	stationTypes []string
	chargeTypes  []string
	preset       string
}

func (ff *filterFlags) register(cmd *cobra.Command, withPreset bool) {
	f := cmd.Flags()
	f.StringSliceVar(&ff.cities, "city", nil, "only stations in these cities (repeatable, comma-separated)")
	f.StringSliceVar(&ff.stationTypes, "type", nil, "only these station types")
	f.StringSliceVar(&ff.chargeTypes, "charge", nil, "only these charge types")
	if withPreset {
		f.StringVar(&ff.preset, "preset", "", "start from a saved preset; filter flags replace its values per dimension")
	}
}

func (ff *filterFlags) values(d station.Dimension) []string {
	switch d {
	case station.City:
		return ff.cities
	case station.StationType:
		return ff.stationTypes
	case station.ChargeType:
		return ff.chargeTypes
	}
	return nil
}

// resolveFilters builds the selection from --preset and the filter flags.
// Preset values missing from the data are reported on stderr and dropped.
func (o *options) resolveFilters(cmd *cobra.Command, ff *filterFlags, t *station.Table) (station.Filters, error) {
	var f station.Filters
	if ff.preset != "" {
		svc, closeDB, err := o.openPresets()
		if err != nil {
			return f, err
		}
		loaded, err := svc.Load(cmd.Context(), ff.preset)
		closeDB()
		switch {
		case errors.Is(err, service.ErrPresetNotFound):
			return f, exitError(ExitInvalidArgs, "preset %q not found", ff.preset)
		case err != nil:
			return f, exitError(ExitDataError, "%v", err)
		}
		var stale []service.StaleValue
		f, stale = service.Reconcile(loaded, t.Stations)
		warnStale(cmd.ErrOrStderr(), ff.preset, stale)
	}

	for _, d := range station.Dimensions {
		in := ff.values(d)
		if len(in) == 0 {
			continue
		}
		vals, err := service.Resolve(d, in, station.Options(t.Stations, d))
		if err != nil {
			return f, exitError(ExitInvalidArgs, "%v", err)
		}
		f.Set(d, vals)
	}
	return f, nil
}

func warnStale(w io.Writer, preset string, stale []service.StaleValue) {
	for _, s := range stale {
		fmt.Fprintln(w, report.Warning(fmt.Sprintf("preset %q: %s no longer in the data, ignored", preset, s)))
	}
}

// selection loads the dataset and resolves the filter flags against it.
func (o *options) selection(cmd *cobra.Command, ff *filterFlags) (*station.Table, station.Filters, error) {
	_, t, err := o.loadTable(cmd.Context())
	if err != nil {
		return nil, station.Filters{}, err
	}
	f, err := o.resolveFilters(cmd, ff, t)
	if err != nil {
		return nil, station.Filters{}, err
	}
	return t, f, nil
}
