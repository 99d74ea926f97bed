package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/gcpolicy/pkg/cli"
	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/telemetry/logging"
	"mercator-hq/gcpolicy/pkg/telemetry/metrics"
	"mercator-hq/gcpolicy/pkg/telemetry/tracing"
)

var (
	// Global flags
	cfgFile     string
	globalFlags struct {
		project  string
		instance string
		table    string
		emulator string
		output   string
		logLevel string
		quiet    bool
	}
)

// app holds what PersistentPreRunE prepared for the command.
var app struct {
	logger  *slog.Logger
	format  cli.OutputFormat
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

var rootCmd = &cobra.Command{
	Use:   "gcpolicy",
	Short: "Manage garbage collection policies of Cloud Bigtable column families",
	Long: `gcpolicy builds garbage collection rules for Cloud Bigtable column families
and applies them through the table administration API.

Rules are expressed as a tree of max age and max versions conditions joined by
intersections (all must hold) and unions (any may hold). A schema file declares
the desired rule of each family; plan, apply and reconcile bring a table in line
with it.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app.tracer != nil {
			return app.tracer.Shutdown(context.Background())
		}
		return nil
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only when empty)")
	pf.StringVar(&globalFlags.project, "project", "", "Google Cloud project id")
	pf.StringVar(&globalFlags.instance, "instance", "", "Bigtable instance id")
	pf.StringVar(&globalFlags.table, "table", "", "table id (must match the schema's table key when it has one)")
	pf.StringVar(&globalFlags.emulator, "emulator", "", "Bigtable emulator host:port")
	pf.StringVarP(&globalFlags.output, "output", "o", "text", "output format: text, json, yaml")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	pf.BoolVarP(&globalFlags.quiet, "quiet", "q", false, "print errors only")
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	if globalFlags.project != "" {
		cfg.Bigtable.Project = globalFlags.project
	}
	if globalFlags.instance != "" {
		cfg.Bigtable.Instance = globalFlags.instance
	}
	if globalFlags.emulator != "" {
		cfg.Bigtable.EmulatorHost = globalFlags.emulator
	}
	if globalFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = globalFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	format, err := cli.ParseOutputFormat(globalFlags.output)
	if err != nil {
		return err
	}

	logger, err := logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger.Slog())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	config.SetConfig(cfg)
	app.logger = logger.Slog()
	app.format = format
	app.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	app.tracer = tracer
	return nil
}
