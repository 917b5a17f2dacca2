package domain

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Sentinels used for categorical text that the source does not provide.
const (
	NotAvailable     = "N.A."
	NotAvailableLong = "Not Available"
)

// Transaction is one canonical row, the unit every statement adapter produces.
type Transaction struct {
	Date        civil.Date      `json:"date"`
	Week        civil.Date      `json:"week"`  // First day of Date's week
	Month       civil.Date      `json:"month"` // First day of Date's month
	Operation   string          `json:"operation"`
	Euro        decimal.Decimal `json:"euro"` // Always >= 0; direction lives in Kind
	Kind        Kind            `json:"kind"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
}

// NewTransaction builds a canonical row from a signed amount.
//
// A negative amount is an expense and a non-negative one an earning, so a
// zero-amount row is classified as an earning. Euro holds the magnitude.
// Blank categorical text is replaced by NotAvailable.
func NewTransaction(date civil.Date, operation string, amount decimal.Decimal, category, subcategory, description string, weekStart time.Weekday) Transaction {
	kind := Earning
	if amount.IsNegative() {
		kind = Expense
	}
	return NewFlow(date, kind, amount.Abs(), operation, category, subcategory, description, weekStart)
}

// NewFlow builds a canonical row when the direction is already known.
func NewFlow(date civil.Date, kind Kind, euro decimal.Decimal, operation, category, subcategory, description string, weekStart time.Weekday) Transaction {
	return Transaction{
		Date:        date,
		Week:        BucketOf(date, Week, weekStart),
		Month:       BucketOf(date, Month, weekStart),
		Operation:   orNotAvailable(operation),
		Euro:        euro.Abs(),
		Kind:        kind,
		Category:    orNotAvailable(category),
		Subcategory: orNotAvailable(subcategory),
		Description: orNotAvailable(description),
	}
}

// Bucket returns the bucket start for granularity g.
func (t Transaction) Bucket(g Granularity) civil.Date {
	if g == Week {
		return t.Week
	}
	return t.Month
}

// Value projects a column to its string form. Dates render as YYYY-MM-DD.
func (t Transaction) Value(c Column) (string, error) {
	switch c {
	case ColumnDate:
		return t.Date.String(), nil
	case ColumnWeek:
		return t.Week.String(), nil
	case ColumnMonth:
		return t.Month.String(), nil
	case ColumnOperation:
		return t.Operation, nil
	case ColumnEuro:
		return t.Euro.String(), nil
	case ColumnKind:
		return string(t.Kind), nil
	case ColumnCategory:
		return t.Category, nil
	case ColumnSubcategory:
		return t.Subcategory, nil
	case ColumnDescription:
		return t.Description, nil
	}
	return "", fmt.Errorf("unknown column %q", c)
}

// Validate checks the canonical row invariants.
func (t Transaction) Validate() error {
	if !t.Date.IsValid() {
		return fmt.Errorf("invalid date %v", t.Date)
	}
	if t.Euro.IsNegative() {
		return fmt.Errorf("euro must be non-negative, got %s", t.Euro)
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("invalid kind %q", t.Kind)
	}
	if t.Month != MonthStart(t.Date) {
		return fmt.Errorf("month bucket %s does not start the month of %s", t.Month, t.Date)
	}
	if t.Week.After(t.Date) || t.Date.DaysSince(t.Week) > 6 {
		return fmt.Errorf("week bucket %s does not contain %s", t.Week, t.Date)
	}
	for _, c := range []Column{ColumnOperation, ColumnCategory, ColumnSubcategory, ColumnDescription} {
		v, _ := t.Value(c)
		if v == "" {
			return fmt.Errorf("%s must not be empty", c)
		}
	}
	return nil
}

func orNotAvailable(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	return s
}
