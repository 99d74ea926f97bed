// Package telemetry groups the observability packages used by gcpolicy.
//
// # Components
//
//   - logging: structured slog logging with operation, table and family context
//   - metrics: Prometheus collectors for admin calls, modifications and reconcile runs
//   - tracing: OpenTelemetry spans around admin API calls
//   - health: liveness and readiness endpoints for the reconcile daemon
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.FromConfig(cfg.Telemetry.Logging, os.Stderr)
//	if err != nil {
//		return err
//	}
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(ctx)
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordReconcile("schedule", "applied", time.Second)
//
// When tracing is disabled New returns a no-op tracer. A collector built
// from a disabled MetricsConfig records nothing.
package telemetry
