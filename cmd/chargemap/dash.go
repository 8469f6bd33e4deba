package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jask/chargemap/internal/config"
	"github.com/jask/chargemap/internal/log"
	"github.com/jask/chargemap/internal/service"
	"github.com/jask/chargemap/internal/tui"
)

type dashFlags struct {
	watch    bool
	remember bool
}

func newDashCmd(o *options) *cobra.Command {
	var df dashFlags
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the interactive dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDash(cmd, o, df)
		},
	}
	cmd.Flags().BoolVarP(&df.watch, "watch", "w", false, "reload when the CSV file changes")
	cmd.Flags().BoolVar(&df.remember, "remember", false, "store --data and --layout in the config file")
	return cmd
}

func runDash(cmd *cobra.Command, o *options, df dashFlags) error {
	ctx := cmd.Context()

	// Fail before taking over the terminal when the data cannot be read.
	src, _, err := o.loadTable(ctx)
	if err != nil {
		return err
	}

	if df.remember {
		if err := remember(o); err != nil {
			return exitError(ExitDataError, "%v", err)
		}
	}

	// The alternate screen owns the terminal from here on.
	logFile, err := log.OpenFile(o.cfg.Log.Path)
	if err != nil {
		slog.Warn("dashboard logging disabled", "err", err)
		log.Setup(io.Discard, o.logLevel())
	} else {
		defer logFile.Close()
		log.Setup(logFile, o.logLevel())
	}

	var presets *service.PresetService
	if svc, closeDB, err := o.openPresets(); err != nil {
		slog.Warn("presets unavailable", "err", err)
	} else {
		defer closeDB()
		presets = svc
	}

	var changes <-chan struct{}
	if df.watch {
		changes, err = src.Watch(ctx)
		if err != nil {
			slog.Warn("watch disabled", "path", src.Path, "err", err)
		}
	}

	slog.Info("dashboard started", "data", src.Path, "layout", src.Layout.Name, "watch", changes != nil)
	return tui.Run(tui.New(ctx, o.cfg, src, presets, changes))
}

// remember writes the data path and layout in use back to the config file,
// keeping its other settings.
func remember(o *options) error {
	path := o.configFile()
	saved, err := config.Load(path)
	if err != nil {
		return err
	}
	saved.Data.Path = o.cfg.Data.Path
	saved.Data.Layout = o.cfg.Data.Layout
	if err := config.Save(path, saved); err != nil {
		return err
	}
	slog.Info("config updated", "path", path, "data", saved.Data.Path)
	return nil
}
