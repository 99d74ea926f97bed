package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// StatusReporter prints one line per step of a command.
type StatusReporter struct {
	mu     sync.Mutex
	writer io.Writer
	quiet  bool
}

// NewStatusReporter writes to w, or os.Stdout when w is nil. A quiet
// reporter prints only errors.
func NewStatusReporter(w io.Writer, quiet bool) *StatusReporter {
	if w == nil {
		w = os.Stdout
	}
	return &StatusReporter{writer: w, quiet: quiet}
}

// Step announces work about to start.
func (s *StatusReporter) Step(format string, args ...any) {
	s.print(format, args...)
}

// Done reports finished work.
func (s *StatusReporter) Done(format string, args ...any) {
	s.print(format, args...)
}

// Error reports a failure. It is printed even when quiet.
func (s *StatusReporter) Error(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "✗ Error: %v\n", err)
}

func (s *StatusReporter) print(format string, args ...any) {
	if s.quiet {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, format+"\n", args...)
}
