package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/status"
)

// Attribute keys in the "gcpolicy.*" namespace.
const (
	AttrTable         = "gcpolicy.table"
	AttrFamily        = "gcpolicy.family"
	AttrAction        = "gcpolicy.action"
	AttrModifications = "gcpolicy.modifications"
	AttrOperationID   = "gcpolicy.operation_id"
)

// AdminService is the gRPC service name of the table admin API.
const AdminService = "google.bigtable.admin.v2.BigtableTableAdmin"

// RPCStartOptions returns span options describing an admin API call.
func RPCStartOptions(method string) []trace.SpanStartOption {
	return []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.RPCSystemGRPC,
			semconv.RPCService(AdminService),
			semconv.RPCMethod(method),
		),
	}
}

// SetTableAttributes records the fully qualified table name.
func SetTableAttributes(span trace.Span, table string) {
	span.SetAttributes(attribute.String(AttrTable, table))
}

// SetModificationAttributes records the families touched by a call.
func SetModificationAttributes(span trace.Span, families []string, actions []string) {
	span.SetAttributes(
		attribute.Int(AttrModifications, len(families)),
		attribute.StringSlice(AttrFamily, families),
		attribute.StringSlice(AttrAction, actions),
	)
}

// SetRPCResult records the gRPC status code of err, and marks the span
// failed when err is non-nil.
func SetRPCResult(span trace.Span, err error) {
	span.SetAttributes(semconv.RPCGRPCStatusCodeKey.Int(int(status.Code(err))))
	SetError(span, err)
	SetStatus(span, err)
}
