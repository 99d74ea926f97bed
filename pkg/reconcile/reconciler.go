package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/gcpolicy/pkg/admin"
	gcerrors "mercator-hq/gcpolicy/pkg/errors"
	"mercator-hq/gcpolicy/pkg/history"
	"mercator-hq/gcpolicy/pkg/schema"
	"mercator-hq/gcpolicy/pkg/telemetry/logging"
)

// Triggers passed to Run.
const (
	TriggerCLI      = "cli"
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerWatch    = "watch"
)

// Run results reported to metrics.
const (
	ResultApplied = "applied"
	ResultInSync  = "in_sync"
	ResultPlanned = "planned"
	ResultError   = "error"
)

// MetricsRecorder records reconcile metrics. *metrics.Collector satisfies it.
type MetricsRecorder interface {
	RecordReconcile(trigger, result string, duration time.Duration)
	SetDrift(table string, pending int)
	RecordSchemaLoad(success bool)
}

// SchemaSource loads the desired state.
type SchemaSource interface {
	Load() (*schema.Document, error)
}

// FileSource reads a schema file on every Load.
type FileSource struct {
	Path   string
	Parser *schema.Parser
}

// Load parses the file.
func (s FileSource) Load() (*schema.Document, error) {
	p := s.Parser
	if p == nil {
		p = schema.NewParser()
	}
	return p.Parse(s.Path)
}

// Options configures a Reconciler. Every field is optional.
type Options struct {
	// Prune drops table families absent from the schema.
	Prune bool

	// DryRun plans without applying.
	DryRun bool

	History history.Store
	Metrics MetricsRecorder
	Logger  *slog.Logger
}

// Result describes one run.
type Result struct {
	OperationID string
	Trigger     string
	Plan        *Plan
	Applied     bool
	Duration    time.Duration
}

// Reconciler applies a schema to one table. Runs are serialized.
type Reconciler struct {
	client admin.TableAdministrationClient
	table  admin.TableRef
	source SchemaSource
	opts   Options
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a Reconciler. client must also implement admin.FamilyLister.
func New(client admin.TableAdministrationClient, table admin.TableRef, source SchemaSource, opts Options) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		client: client,
		table:  table,
		source: source,
		opts:   opts,
		logger: logger.With("component", "reconcile"),
	}
}

// Table returns the table being reconciled.
func (r *Reconciler) Table() admin.TableRef {
	return r.table
}

// Run loads the schema, diffs it against the table and applies the plan.
// Errors from the admin API are returned unchanged.
func (r *Reconciler) Run(ctx context.Context, trigger string) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	res := &Result{OperationID: uuid.NewString(), Trigger: trigger}
	ctx = logging.WithOperationID(ctx, res.OperationID)
	ctx = logging.WithTable(ctx, r.table.Name())

	err := r.run(ctx, res)
	res.Duration = time.Since(start)

	result := ResultError
	switch {
	case err != nil:
		r.logger.ErrorContext(ctx, "reconcile failed",
			"operation_id", res.OperationID,
			"trigger", trigger,
			"error", err,
		)
	case res.Plan.Empty():
		result = ResultInSync
	case res.Applied:
		result = ResultApplied
	default:
		result = ResultPlanned
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordReconcile(trigger, result, res.Duration)
	}

	if err != nil {
		return res, err
	}
	r.logger.InfoContext(ctx, "reconcile finished",
		"operation_id", res.OperationID,
		"trigger", trigger,
		"result", result,
		"summary", res.Plan.Summary(),
		"duration", res.Duration,
	)
	return res, nil
}

func (r *Reconciler) run(ctx context.Context, res *Result) error {
	doc, err := r.source.Load()
	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordSchemaLoad(err == nil)
	}
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	for _, w := range doc.Warnings {
		r.logger.WarnContext(ctx, "schema warning", "warning", w.Message, "location", w.Location.String())
	}
	if doc.Table != "" && doc.Table != r.table.Table {
		return gcerrors.InvalidArgumentf("schema is for table %q but reconciler targets %q", doc.Table, r.table.Table)
	}

	actual, err := admin.ListFamilies(ctx, r.client, r.table)
	if err != nil {
		return err
	}

	plan, err := BuildPlan(r.table, doc, actual, r.opts.Prune)
	if err != nil {
		return err
	}
	res.Plan = plan
	if r.opts.Metrics != nil {
		r.opts.Metrics.SetDrift(r.table.Name(), len(plan.Modifications))
	}

	if plan.Empty() || r.opts.DryRun {
		return nil
	}

	err = admin.ApplyModifications(ctx, r.client, r.table, plan.Modifications)
	r.record(ctx, res, err)
	if err != nil {
		return err
	}
	res.Applied = true
	if r.opts.Metrics != nil {
		r.opts.Metrics.SetDrift(r.table.Name(), 0)
	}
	return nil
}

func (r *Reconciler) record(ctx context.Context, res *Result, callErr error) {
	if r.opts.History == nil {
		return
	}
	entries := history.NewEntries(res.OperationID, r.table.Name(), res.Trigger, res.Plan.Modifications, callErr)
	if err := r.opts.History.Record(ctx, entries...); err != nil {
		r.logger.WarnContext(ctx, "failed to record history", "error", err)
	}
}
