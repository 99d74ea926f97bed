package logging

import "context"

type contextKey string

const (
	// OperationIDKey is the context key for the id of one apply or
	// reconcile run.
	OperationIDKey contextKey = "operation_id"

	// TableKey is the context key for the fully qualified table name.
	TableKey contextKey = "table"

	// FamilyKey is the context key for a column family id.
	FamilyKey contextKey = "family"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithOperationID adds an operation id to the context.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, OperationIDKey, id)
}

// GetOperationID retrieves the operation id from the context.
func GetOperationID(ctx context.Context) string {
	if id, ok := ctx.Value(OperationIDKey).(string); ok {
		return id
	}
	return ""
}

// WithTable adds a table name to the context.
func WithTable(ctx context.Context, table string) context.Context {
	return context.WithValue(ctx, TableKey, table)
}

// GetTable retrieves the table name from the context.
func GetTable(ctx context.Context) string {
	if table, ok := ctx.Value(TableKey).(string); ok {
		return table
	}
	return ""
}

// WithFamily adds a column family id to the context.
func WithFamily(ctx context.Context, family string) context.Context {
	return context.WithValue(ctx, FamilyKey, family)
}

// GetFamily retrieves the column family id from the context.
func GetFamily(ctx context.Context) string {
	if family, ok := ctx.Value(FamilyKey).(string); ok {
		return family
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// extractContextFields returns the context's fields as key-value pairs.
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if id := GetOperationID(ctx); id != "" {
		fields = append(fields, string(OperationIDKey), id)
	}
	if table := GetTable(ctx); table != "" {
		fields = append(fields, string(TableKey), table)
	}
	if family := GetFamily(ctx); family != "" {
		fields = append(fields, string(FamilyKey), family)
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, string(TraceIDKey), traceID)
	}

	return fields
}
