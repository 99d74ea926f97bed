// Package metrics provides Prometheus metrics for gcpolicy.
//
// # Metrics Categories
//
//   - Admin Metrics: admin API calls by method and gRPC status code, call
//     latency, and column family modifications by action
//   - Reconcile Metrics: reconcile runs by trigger and result, run duration,
//     drift (pending modifications) per table, last success time
//   - Schema Metrics: schema loads by result
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	client := admin.NewInstrumentedClient(grpcClient, collector, tracer, logger)
//
// Every Record method is a no-op when metrics are disabled.
package metrics
