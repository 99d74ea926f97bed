// Package server runs the reconcile daemon's operational HTTP endpoint.
//
// The endpoint serves Prometheus metrics and the health probes on one
// listener:
//
//	GET /metrics   Prometheus exposition (path configurable)
//	GET /health    liveness
//	GET /ready     readiness, 503 while the last reconcile failed
//	GET /version   build information
//
// Requests pass through request logging and panic recovery. Start blocks
// until its context is cancelled and then shuts the listener down
// gracefully.
package server
