// Package reconcile keeps a table's column families in line with a schema
// document.
//
// BuildPlan diffs the schema against the families read from the admin API:
//
//   - a family missing from the table is created
//   - a family whose GC rule differs is updated
//   - a family marked drop, or (with prune) absent from the schema, is dropped
//   - a family declared without gc_rule is left alone
//
// Reconciler runs load, plan and apply as one operation and records the
// outcome in metrics and history. Scheduler and Watcher trigger runs on a
// cron schedule and on schema file changes; Daemon wires them together.
package reconcile
