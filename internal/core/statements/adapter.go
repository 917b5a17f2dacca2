package statements

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
)

// Vendor is the user-visible name an adapter is registered under.
type Vendor string

const (
	VendorBancaSella       Vendor = "bancasella"
	VendorRevolut          Vendor = "revolut"
	VendorBancaSellaLedger Vendor = "bancasella-ledger"
)

// Adapter turns a raw export in one vendor layout into a canonical table.
// Implementations hold only immutable configuration.
type Adapter interface {
	Vendor() Vendor
	// RequiredColumns lists the header names that must be present.
	RequiredColumns() []string
	// CellLayout is the text form of dates and amounts Parse expects.
	CellLayout() domain.CellLayout
	Parse(raw domain.RawTable) (*Result, error)
}

// SkippedRow records a row excluded because a field could not be coerced.
type SkippedRow = domain.SkippedRow

// Result is the outcome of a successful parse.
type Result struct {
	Vendor  Vendor
	Table   domain.Table
	Skipped []SkippedRow
}

// SkippedCount is the number of rows dropped during coercion.
func (r *Result) SkippedCount() int {
	return len(r.Skipped)
}

// columnIndex maps required header names to their positions. Any missing
// column is a fatal parse error for the whole file.
func columnIndex(vendor Vendor, raw domain.RawTable, required []string) (map[string]int, error) {
	if len(raw.Header) == 0 {
		return nil, &apperrors.ParseError{Vendor: string(vendor), Reason: "file has no header row"}
	}
	positions := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		name := strings.TrimSpace(h)
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}
	index := make(map[string]int, len(required))
	var missing []string
	for _, col := range required {
		pos, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = pos
	}
	if len(missing) > 0 {
		return nil, &apperrors.ParseError{Vendor: string(vendor), Missing: missing}
	}
	return index, nil
}

// Dates outside this year range are treated as corrupt cells. Bucketed
// aggregates span every bucket between the first and last date.
const (
	minStatementYear = 1950
	maxStatementYear = 2199
)

// parseDate reads the date part of s using layout.
func parseDate(layout, s string) (civil.Date, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if t.Year() < minStatementYear || t.Year() > maxStatementYear {
		return civil.Date{}, fmt.Errorf("implausible date %q: year outside %d-%d", s, minStatementYear, maxStatementYear)
	}
	return civil.DateOf(t), nil
}

// lineOf converts a record index to its 1-based file line.
func lineOf(record int) int {
	return record + 2
}
