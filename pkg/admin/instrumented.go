package admin

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mercator-hq/gcpolicy/pkg/family"
	"mercator-hq/gcpolicy/pkg/gcrule"
	"mercator-hq/gcpolicy/pkg/telemetry/tracing"
)

// MetricsRecorder records admin call metrics. It keeps this package
// independent of the metrics package.
type MetricsRecorder interface {
	RecordAdminCall(method, code string, duration time.Duration)
	RecordModifications(action string, count int)
}

// Tracer starts spans. *tracing.Tracer satisfies it.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// InstrumentedClient wraps a TableAdministrationClient with metrics, spans
// and logs. Errors from the wrapped client are returned unchanged.
type InstrumentedClient struct {
	next    TableAdministrationClient
	metrics MetricsRecorder
	tracer  Tracer
	logger  *slog.Logger
}

// NewInstrumentedClient creates an instrumented wrapper around next.
// metrics and tracer may be nil; a nil logger uses slog.Default().
func NewInstrumentedClient(next TableAdministrationClient, metrics MetricsRecorder, tracer Tracer, logger *slog.Logger) *InstrumentedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentedClient{
		next:    next,
		metrics: metrics,
		tracer:  tracer,
		logger:  logger.With("component", "admin"),
	}
}

// ModifyColumnFamilies forwards to the wrapped client.
func (c *InstrumentedClient) ModifyColumnFamilies(ctx context.Context, table TableRef, mods []family.Modification) error {
	const method = "ModifyColumnFamilies"

	ctx, span := c.startSpan(ctx, method)
	defer span.End()

	ids := make([]string, len(mods))
	actions := make([]string, len(mods))
	for i, m := range mods {
		ids[i] = m.ID
		actions[i] = string(m.Action)
	}
	tracing.SetTableAttributes(span, table.Name())
	tracing.SetModificationAttributes(span, ids, actions)

	start := time.Now()
	err := c.next.ModifyColumnFamilies(ctx, table, mods)
	elapsed := time.Since(start)

	tracing.SetRPCResult(span, err)
	c.record(method, err, elapsed)

	if err != nil {
		c.logger.ErrorContext(ctx, "modify column families failed",
			"table", table.Name(),
			"families", ids,
			"code", status.Code(err).String(),
			"duration", elapsed,
			"error", err,
		)
		return err
	}

	if c.metrics != nil {
		counts := make(map[family.Action]int)
		for _, m := range mods {
			counts[m.Action]++
		}
		for action, n := range counts {
			c.metrics.RecordModifications(string(action), n)
		}
	}
	c.logger.InfoContext(ctx, "modified column families",
		"table", table.Name(),
		"families", ids,
		"actions", actions,
		"duration", elapsed,
	)
	return nil
}

// ColumnFamilies forwards to the wrapped client, or returns
// ErrListUnsupported when it cannot list families.
func (c *InstrumentedClient) ColumnFamilies(ctx context.Context, table TableRef) (map[string]gcrule.Rule, error) {
	const method = "GetTable"

	lister, ok := c.next.(FamilyLister)
	if !ok {
		return nil, ErrListUnsupported
	}

	ctx, span := c.startSpan(ctx, method)
	defer span.End()
	tracing.SetTableAttributes(span, table.Name())

	start := time.Now()
	families, err := lister.ColumnFamilies(ctx, table)
	elapsed := time.Since(start)

	tracing.SetRPCResult(span, err)
	c.record(method, err, elapsed)

	if err != nil {
		c.logger.WarnContext(ctx, "reading column families failed",
			"table", table.Name(),
			"code", status.Code(err).String(),
			"error", err,
		)
		return nil, err
	}

	c.logger.DebugContext(ctx, "read column families",
		"table", table.Name(),
		"count", len(families),
		"duration", elapsed,
	)
	return families, nil
}

// CreateTable forwards to the wrapped client when it can create tables.
func (c *InstrumentedClient) CreateTable(ctx context.Context, table TableRef) error {
	const method = "CreateTable"

	creator, ok := c.next.(TableCreator)
	if !ok {
		return status.Error(codes.Unimplemented, "client does not support creating tables")
	}

	ctx, span := c.startSpan(ctx, method)
	defer span.End()
	tracing.SetTableAttributes(span, table.Name())

	start := time.Now()
	err := creator.CreateTable(ctx, table)
	tracing.SetRPCResult(span, err)
	c.record(method, err, time.Since(start))

	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "created table", "table", table.Name())
	return nil
}

// Close closes the wrapped client if it is an io.Closer.
func (c *InstrumentedClient) Close() error {
	if closer, ok := c.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *InstrumentedClient) startSpan(ctx context.Context, method string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return c.tracer.Start(ctx, "admin."+method, tracing.RPCStartOptions(method)...)
}

func (c *InstrumentedClient) record(method string, err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordAdminCall(method, status.Code(err).String(), elapsed)
}

var (
	_ TableAdministrationClient = (*InstrumentedClient)(nil)
	_ FamilyLister              = (*InstrumentedClient)(nil)
	_ TableCreator              = (*InstrumentedClient)(nil)
)
