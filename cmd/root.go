// Package cmd is the cdr-analyst command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jalad-shrimali/cdr-analyst/analysis"
	"github.com/jalad-shrimali/cdr-analyst/celldb"
	"github.com/jalad-shrimali/cdr-analyst/config"
	"github.com/jalad-shrimali/cdr-analyst/logger"
	"github.com/jalad-shrimali/cdr-analyst/metrics"
	"github.com/jalad-shrimali/cdr-analyst/sheet"
)

// app is what every subcommand runs against, built once flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	reg     *prometheus.Registry
	svc     *analysis.Service
	cells   *celldb.DB
}

func (a *app) close() {
	if a.cells != nil {
		a.cells.Close()
	}
}

// RootCommand creates the root command. Output goes to out, logs to errOut.
func RootCommand(out, errOut io.Writer) *cobra.Command {
	var (
		cfgPath string
		a       = &app{}
	)
	rootCmd := &cobra.Command{
		Use:           "cdr-analyst",
		Short:         "Normalize carrier CDR exports and analyse them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "YAML config file")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("celldb", "", "SQLite cell directory used to fill missing addresses")
	flags.Bool("iso-dates", false, "rewrite dates as YYYY-MM-DD before ranking")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations["bare"] == "true" {
			return nil
		}
		return a.init(cfgPath, errOut, map[string]*pflag.Flag{
			"log.level":          flags.Lookup("log-level"),
			"log.format":         flags.Lookup("log-format"),
			"celldb.path":        flags.Lookup("celldb"),
			"analysis.iso_dates": flags.Lookup("iso-dates"),
			"server.addr":        cmd.Flags().Lookup("addr"),
		})
	}
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) { a.close() }

	rootCmd.AddCommand(
		btsCommand(a),
		contactsCommand(a),
		exportCommand(a),
		serveCommand(a),
		cellsCommand(a),
		profilesCommand(),
	)
	return rootCmd
}

func (a *app) init(cfgPath string, logOut io.Writer, bind map[string]*pflag.Flag) error {
	cfg, err := config.Load(cfgPath, bind)
	if err != nil {
		return err
	}
	log, _, err := logger.New(cfg.Log.Level, cfg.Log.Format, logOut)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, log
	a.reg = prometheus.NewRegistry()
	a.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.reg)

	opts := []analysis.Option{
		analysis.WithLogger(log),
		analysis.WithMetrics(a.metrics),
		analysis.WithISODates(cfg.Analysis.ISODates),
		analysis.WithSampleSize(cfg.Analysis.SampleSize),
		analysis.WithCacheTTL(cfg.Cache.TTL),
	}
	if cfg.CellDB.Path != "" {
		cells, err := celldb.Open(cfg.CellDB.Path)
		if err != nil {
			return err
		}
		a.cells = cells
		opts = append(opts, analysis.WithCells(cells))
		log.Debug("cell directory opened", "path", cfg.CellDB.Path)
	}
	a.svc = analysis.NewService(sheet.Files{}, opts...)
	return nil
}

// Execute runs the command line with args.
func Execute(args []string, out, errOut io.Writer) error {
	root := RootCommand(out, errOut)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return err
	}
	return nil
}
