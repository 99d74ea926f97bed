package schema

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	gcerrors "mercator-hq/gcpolicy/pkg/errors"
)

// Parser reads schema documents.
type Parser struct {
	maxFileSize int64 // Maximum file size in bytes (default: 1MB)
	maxDepth    int   // Maximum gc_rule nesting depth (default: 8)
	strictMode  bool  // Warnings become errors
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 1024 * 1024,
		maxDepth:    8,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithMaxDepth sets the maximum gc_rule nesting depth.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// WithStrictMode enables strict validation (warnings become errors).
func (p *Parser) WithStrictMode(strict bool) *Parser {
	p.strictMode = strict
	return p
}

// Parse reads and validates the schema file at path.
func (p *Parser) Parse(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &gcerrors.Error{
			Type:     gcerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: gcerrors.Location{File: path},
		}
	}
	if info.Size() > p.maxFileSize {
		return nil, &gcerrors.Error{
			Type:     gcerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize),
			Location: gcerrors.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &gcerrors.Error{
			Type:     gcerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to read file: %v", err),
			Location: gcerrors.Location{File: path},
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses a schema held in memory. sourcePath is used in error
// locations only.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*Document, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &gcerrors.Error{
			Type:     gcerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: gcerrors.Location{File: sourcePath},
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		loc := gcerrors.Location{File: sourcePath, Line: yamlErrorLine(err), Column: 1}
		return nil, p.withContext(&gcerrors.Error{
			Type:       gcerrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("YAML parsing failed: %v", err),
			Location:   loc,
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}, data)
	}

	b := newBuilder(sourcePath, p.maxDepth)
	doc := b.buildDocument(&root)

	if !b.errors.HasErrors() {
		NewValidator().Validate(doc, b.errors)
	}

	if p.strictMode {
		for _, w := range doc.Warnings {
			b.errors.Add(w)
		}
		doc.Warnings = nil
	}

	if b.errors.HasErrors() {
		for i, e := range b.errors.Errors {
			b.errors.Errors[i] = p.withContext(e, data)
		}
		return nil, b.errors
	}

	for i, w := range doc.Warnings {
		doc.Warnings[i] = p.withContext(w, data)
	}
	return doc, nil
}

func (p *Parser) withContext(e *gcerrors.Error, data []byte) *gcerrors.Error {
	if e.Context == "" {
		e.Context = gcerrors.ExtractContextFromBytes(data, e.Location, 2)
	}
	return e
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// yamlErrorLine pulls the line number out of a yaml.v3 error message.
func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 1
	}
	line, _ := strconv.Atoi(m[1])
	return line
}
