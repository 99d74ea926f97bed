package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"mercator-hq/gcpolicy/pkg/config"
	"mercator-hq/gcpolicy/pkg/reconcile"
	"mercator-hq/gcpolicy/pkg/schema"
	"mercator-hq/gcpolicy/pkg/server"
	"mercator-hq/gcpolicy/pkg/telemetry/health"
)

var reconcileFlags struct {
	file     string
	schedule string
	watch    bool
	prune    bool
	dryRun   bool
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Keep a table in line with a schema file",
	Long: `Run as a daemon that applies the schema file once at startup, then on a cron
schedule and, with --watch, whenever the file changes. A failed run is logged and
retried on the next trigger.

When metrics or health checks are enabled, /metrics and the health probes are
served on telemetry.metrics.listen_address.

Examples:
  gcpolicy reconcile --config gcpolicy.yaml
  gcpolicy reconcile --file families.yaml --schedule "*/15 * * * *" --watch`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&reconcileFlags.file, "file", "f", "", "schema file (default: schema.path from config)")
	reconcileCmd.Flags().StringVar(&reconcileFlags.schedule, "schedule", "", "cron schedule (default: schema.schedule from config)")
	reconcileCmd.Flags().BoolVar(&reconcileFlags.watch, "watch", false, "reconcile when the schema file changes")
	reconcileCmd.Flags().BoolVar(&reconcileFlags.prune, "prune", false, "drop families absent from the schema")
	reconcileCmd.Flags().BoolVar(&reconcileFlags.dryRun, "dry-run", false, "plan and report drift without applying")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.MustGetConfig()

	path := reconcileFlags.file
	if path == "" {
		path = cfg.Schema.Path
	}
	schedule := reconcileFlags.schedule
	if schedule == "" {
		schedule = cfg.Schema.Schedule
	}

	// The table comes from the schema when it names one; a schema that
	// does not parse yet falls back to flags and config.
	var schemaTable string
	if doc, err := parseSchema(path, false); err == nil {
		schemaTable = doc.Table
	}
	table, err := resolveTable(schemaTable)
	if err != nil {
		return err
	}

	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	opts := reconcile.Options{
		Prune:   reconcileFlags.prune || cfg.Schema.Prune,
		DryRun:  reconcileFlags.dryRun,
		Metrics: app.metrics,
		Logger:  app.logger,
	}
	opts.History = store
	source := reconcile.FileSource{Path: path, Parser: schema.NewParser().WithStrictMode(cfg.Schema.Strict)}
	r := reconcile.New(client, table, source, opts)

	daemonOpts := reconcile.DaemonOptions{
		Schedule:  schedule,
		Debounce:  cfg.Schema.Debounce,
		Retention: cfg.History.Retention,
		Logger:    app.logger,
	}
	if reconcileFlags.watch || cfg.Schema.Watch {
		daemonOpts.WatchPath = path
	}
	daemonOpts.History = store
	daemon := reconcile.NewDaemon(r, daemonOpts)

	if handler := opsHandler(daemon); handler != nil {
		srv := server.New(cfg.Telemetry.Metrics.ListenAddress, handler, app.logger)
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		errChan := make(chan error, 1)
		go func() { errChan <- srv.Start(srvCtx) }()
		defer func() {
			cancel()
			if err := <-errChan; err != nil {
				app.logger.Error("metrics and health server failed", "error", err)
			}
		}()
	}

	if err := daemon.Run(ctx); err != nil {
		return fmt.Errorf("reconcile daemon: %w", err)
	}
	return nil
}

// opsHandler mounts /metrics and the health probes, or returns nil when
// neither is enabled.
func opsHandler(daemon *reconcile.Daemon) http.Handler {
	cfg := config.MustGetConfig()
	if !cfg.Telemetry.Metrics.Enabled && !cfg.Telemetry.Health.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	if cfg.Telemetry.Metrics.Enabled {
		mux.Handle(cfg.Telemetry.Metrics.Path, app.metrics.Handler())
	}
	if cfg.Telemetry.Health.Enabled {
		checker := health.New(cfg.Telemetry.Health.CheckTimeout)
		daemon.RegisterChecks(checker)
		checker.Register(mux, &cfg.Telemetry.Health, Version)
	}
	return mux
}
