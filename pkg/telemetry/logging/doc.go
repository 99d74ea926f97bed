// Package logging provides structured logging for gcpolicy.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text and console formats
//   - Context-aware logging with operation ids and table names
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.Info("applied modifications",
//	    "table", "projects/p/instances/i/tables/events",
//	    "count", 2,
//	)
//
// Context values set with WithOperationID, WithTable and WithFamily are
// added to every record logged with a *Context method, including records
// logged through the *slog.Logger returned by Slog:
//
//	ctx = logging.WithOperationID(ctx, uuid.NewString())
//	logger.Slog().InfoContext(ctx, "reconciling")
//
// # Formats
//
//   - json: one JSON object per line, for log shippers
//   - text: logfmt key=value pairs
//   - console: logfmt without timestamps, for interactive use
package logging
