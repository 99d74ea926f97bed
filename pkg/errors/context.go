package errors

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// ExtractContext reads the schema file and returns the lines around the
// given location, formatted for error display.
func ExtractContext(location Location, contextLines int) string {
	if !location.IsValid() {
		return ""
	}

	file, err := os.Open(location.File)
	if err != nil {
		return ""
	}
	defer file.Close()

	return extractContext(file, location, contextLines)
}

// ExtractContextFromBytes is ExtractContext for documents held in memory.
func ExtractContextFromBytes(src []byte, location Location, contextLines int) string {
	if location.Line <= 0 || len(src) == 0 {
		return ""
	}
	return extractContext(bytes.NewReader(src), location, contextLines)
}

func extractContext(r io.Reader, location Location, contextLines int) string {
	scanner := bufio.NewScanner(r)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return ""
	}

	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}
	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		lineNumStr := fmt.Sprintf("%*d", maxLineNumWidth, i+1)
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}

		sb.WriteString(fmt.Sprintf("%s %s | %s\n", prefix, lineNumStr, lines[i]))

		if i == errorLine && location.Column > 0 {
			padding := strings.Repeat(" ", location.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", maxLineNumWidth), padding))
		}
	}

	return sb.String()
}

// WithContext attaches source context read from the error's file.
func WithContext(err *Error, contextLines int) *Error {
	if err.Location.IsValid() {
		err.Context = ExtractContext(err.Location, contextLines)
	}
	return err
}

// AddContextToError attaches two lines of context on either side.
func AddContextToError(err *Error) *Error {
	return WithContext(err, 2)
}
