package survey

import (
	"fmt"
	"strings"
)

// NotFoundError indicates the survey source does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("survey source not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// SchemaError indicates required columns are absent from the header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// ParseError indicates a malformed Age or Timestamp value. Row is the 1-based
// data row in the source file (header excluded).
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s at row %d (%q): %v", e.Column, e.Row, e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s at row %d (%q)", e.Column, e.Row, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }
