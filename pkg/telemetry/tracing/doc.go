// Package tracing provides OpenTelemetry tracing for admin API calls.
//
// When tracing is disabled the tracer is a noop and spans cost almost
// nothing. When enabled, spans are exported over OTLP/gRPC:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "ModifyColumnFamilies")
//	defer span.End()
//	tracing.SetTableAttributes(span, table.Name())
package tracing
