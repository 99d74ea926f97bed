// Package health serves liveness and readiness probes for the reconcile
// daemon.
//
// Liveness only reports that the process is up. Readiness runs every
// registered check concurrently, each under its own timeout, and answers
// 503 when any of them fails:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("reconcile", daemon.LastRunError)
//	checker.Register(mux, &cfg.Telemetry.Health, version)
package health
