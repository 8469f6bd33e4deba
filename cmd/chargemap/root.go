package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jask/chargemap/internal/config"
	"github.com/jask/chargemap/internal/log"
)

// options holds the persistent flags and the configuration they resolve to.
type options struct {
	configPath string
	dataPath   string
	layout     string
	dbPath     string
	verbose    bool
	quiet      bool
	noColor    bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "chargemap",
		Short: "Explore EPM gas and electric charging stations",
		Long: `chargemap reads the EPM charging stations CSV export and shows it as an
interactive terminal dashboard: a filterable table, charts per city and
charge type, and a map of the stations with coordinates.

Run without a subcommand to open the dashboard.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if o.noColor {
				color.NoColor = true
			}
			return o.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDash(cmd, o, dashFlags{})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "config file (default $CHARGEMAP_CONFIG or ~/.config/chargemap/config.toml)")
	pf.StringVar(&o.dataPath, "data", "", "stations CSV file (overrides data.path)")
	pf.StringVar(&o.layout, "layout", "", "dataset layout name (overrides data.layout)")
	pf.StringVar(&o.dbPath, "db", "", "preset database (overrides database.path)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "only log warnings and errors")
	pf.BoolVar(&o.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newDashCmd(o),
		newListCmd(o),
		newSummaryCmd(o),
		newReportCmd(o),
		newPresetCmd(o),
		newConfigCmd(o),
		newSampleCmd(o),
	)
	return root
}

// load reads the configuration, applies flag overrides and sets up logging
// on stderr.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	if o.dataPath != "" {
		cfg.Data.Path = o.dataPath
	}
	if o.layout != "" {
		cfg.Data.Layout = o.layout
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	o.cfg = cfg
	log.Setup(cmd.ErrOrStderr(), o.logLevel())
	return nil
}
