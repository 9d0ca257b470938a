package parser

import (
	"errors"
	"fmt"
	"io"
)

// Parser turns an import file into header-keyed rows
type Parser interface {
	Parse(r io.Reader) (*Table, error)
}

// ErrEmptyFile is returned when a file has a header but no data rows
var ErrEmptyFile = errors.New("CSV file contains no data rows")

// ParseError is a structural failure of the file as a whole (bad quoting,
// inconsistent field counts). No row of such a file is imported.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("CSV parsing error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("CSV parsing error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError represents a field that failed to parse
type ValidationError struct {
	Column string
	Value  string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("column %s: failed to parse '%s': %v", e.Column, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
