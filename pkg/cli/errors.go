package cli

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/status"

	"mercator-hq/gcpolicy/pkg/config"
	gcerrors "mercator-hq/gcpolicy/pkg/errors"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitAdminError   = 3
)

// ConfigError represents an error in command-line configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode returns the exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		cfgErr  *ConfigError
		valErr  config.ValidationError
		typeErr *gcerrors.Error
	)
	switch {
	case gcerrors.IsInvalidArgument(err),
		errors.As(err, &cfgErr),
		errors.As(err, &valErr),
		errors.As(err, &typeErr) && typeErr.Type != gcerrors.ErrorTypeIO:
		return ExitInvalidInput
	}

	var list *gcerrors.ErrorList
	if errors.As(err, &list) && list.HasErrors() {
		return ExitInvalidInput
	}

	if _, ok := status.FromError(err); ok {
		return ExitAdminError
	}
	return ExitFailure
}
