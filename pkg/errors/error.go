package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType categorizes an error.
type ErrorType string

const (
	ErrorTypeInvalidArgument ErrorType = "invalid_argument" // Malformed constructor or builder input
	ErrorTypeSyntax          ErrorType = "syntax"           // YAML syntax error
	ErrorTypeStructural      ErrorType = "structural"       // Unknown key, wrong node kind, missing field
	ErrorTypeSemantic        ErrorType = "semantic"         // Duplicate family, conflicting action
	ErrorTypeIO              ErrorType = "io"               // File I/O error
)

// ErrInvalidArgument matches any error of type ErrorTypeInvalidArgument
// under errors.Is.
var ErrInvalidArgument = &Error{Type: ErrorTypeInvalidArgument, Message: "invalid argument", sentinel: true}

// Location is a position in a schema document.
type Location struct {
	File   string // Path to the schema file
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Error is a typed error with optional location, source context and a
// suggested fix.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Error message
	Location   Location  // Source location (file, line, column)
	Context    string    // Surrounding source lines
	Suggestion string    // Suggested fix (optional)

	sentinel bool
}

// New creates an error of the given type at the given location.
func New(errType ErrorType, message string, location Location) *Error {
	return &Error{
		Type:     errType,
		Message:  message,
		Location: location,
	}
}

// InvalidArgumentf creates an ErrorTypeInvalidArgument error.
func InvalidArgumentf(format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface. Errors without location, context or
// suggestion render on a single line.
func (e *Error) Error() string {
	if !e.Location.IsValid() && e.Context == "" && e.Suggestion == "" {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// Is reports whether target is the sentinel for this error's type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.sentinel {
		return false
	}
	return t.Type == e.Type
}

// IsInvalidArgument reports whether err is, wraps, or contains an
// invalid-argument error.
func IsInvalidArgument(err error) bool {
	return stderrors.Is(err, ErrInvalidArgument)
}

// ErrorList accumulates errors so a parse can report every problem at once.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error with the given parameters.
func (el *ErrorList) AddError(errType ErrorType, message string, location Location) {
	el.Add(&Error{
		Type:     errType,
		Message:  message,
		Location: location,
	})
}

// AddErrorWithSuggestion creates and adds a new error with a suggestion.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message string, location Location, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// Merge appends err to the list. An *ErrorList is flattened; any other
// non-*Error value is recorded as a structural error at location.
func (el *ErrorList) Merge(err error, location Location) {
	if err == nil {
		return
	}

	var list *ErrorList
	if stderrors.As(err, &list) {
		el.Errors = append(el.Errors, list.Errors...)
		return
	}

	var e *Error
	if stderrors.As(err, &e) {
		if !e.Location.IsValid() && location.IsValid() {
			located := *e
			located.Location = location
			e = &located
		}
		el.Add(e)
		return
	}

	el.AddError(ErrorTypeStructural, err.Error(), location)
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Is reports whether any error in the list matches target.
func (el *ErrorList) Is(target error) bool {
	for _, err := range el.Errors {
		if err.Is(target) {
			return true
		}
	}
	return false
}

// ToError returns nil if the error list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the list contains at least one error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
