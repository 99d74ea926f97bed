package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mercator-hq/gcpolicy/pkg/config"
	gcerrors "mercator-hq/gcpolicy/pkg/errors"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "bigtable.project",
		Message: "missing required field",
	}

	expected := "config error in bigtable.project: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	expected := "command run failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	unwrapped := err.Unwrap()
	if unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}

	// Test with errors.Is
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestNewCommandError(t *testing.T) {
	underlyingErr := errors.New("test")
	err := NewCommandError("command", underlyingErr)

	if err.Command != "command" {
		t.Errorf("Command = %q, want %q", err.Command, "command")
	}
	if err.Err != underlyingErr {
		t.Errorf("Err = %v, want %v", err.Err, underlyingErr)
	}
}

func TestExitCode(t *testing.T) {
	list := &gcerrors.ErrorList{}
	list.AddError(gcerrors.ErrorTypeStructural, "unknown key", gcerrors.Location{File: "f.yaml", Line: 3})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"invalid argument", gcerrors.InvalidArgumentf("max versions must be positive"), ExitInvalidInput},
		{"wrapped invalid argument", fmt.Errorf("column family %q: %w", "cf1", gcerrors.InvalidArgumentf("bad")), ExitInvalidInput},
		{"config error", NewConfigError("output", "unknown format"), ExitInvalidInput},
		{"config validation", config.ValidationError{Errors: []config.FieldError{{Field: "a", Message: "b"}}}, ExitInvalidInput},
		{"schema errors", list, ExitInvalidInput},
		{"schema io error", gcerrors.New(gcerrors.ErrorTypeIO, "file not found", gcerrors.Location{}), ExitFailure},
		{"admin error", status.Error(codes.PermissionDenied, "denied"), ExitAdminError},
		{"wrapped admin error", NewCommandError("apply", status.Error(codes.NotFound, "no table")), ExitAdminError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusReporter(t *testing.T) {
	buf := &bytes.Buffer{}
	reporter := NewStatusReporter(buf, false)
	reporter.Step("Creating column family %s with a Nested GC rule...", "cf5")
	reporter.Done("Created column family %s with a Nested GC rule.", "cf5")

	want := "Creating column family cf5 with a Nested GC rule...\nCreated column family cf5 with a Nested GC rule.\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	quiet := NewStatusReporter(buf, true)
	quiet.Step("hidden")
	quiet.Error(errors.New("denied"))
	if buf.String() != "✗ Error: denied\n" {
		t.Errorf("quiet output = %q", buf.String())
	}
}
