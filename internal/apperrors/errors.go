package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrParse indicates that an uploaded statement could not be read as a table
// in the expected vendor layout. No partial result accompanies it.
var ErrParse = errors.New("statement parse error")

// ErrEmptyInput indicates a query that has no defined result on an empty table
// (earliest/latest date, percentage shares).
var ErrEmptyInput = errors.New("empty input")

// ParseError describes a fatal, whole-file parse failure.
type ParseError struct {
	Vendor  string
	Missing []string // required columns absent from the header
	Reason  string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("cannot parse statement")
	if e.Vendor != "" {
		fmt.Fprintf(&b, " for vendor %q", e.Vendor)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required columns %s", strings.Join(e.Missing, ", "))
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// Unwrap lets errors.Is(err, ErrParse) match any *ParseError.
func (e *ParseError) Unwrap() error {
	return ErrParse
}
