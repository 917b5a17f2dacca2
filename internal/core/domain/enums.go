package domain

import (
	"fmt"
	"strings"
)

// Kind is the direction of a cash flow.
type Kind string

const (
	Expense Kind = "expense"
	Earning Kind = "earning"
)

// Kinds lists every Kind in display order.
func Kinds() []Kind {
	return []Kind{Earning, Expense}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case Expense, Earning:
		return true
	}
	return false
}

// ParseKind converts a user supplied string (case-insensitive) into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown cash flow kind %q", s)
	}
	return k, nil
}

// Granularity selects the bucket size for time-series aggregation.
type Granularity string

const (
	Week  Granularity = "Week"
	Month Granularity = "Month"
)

// Granularities lists the supported bucket sizes.
func Granularities() []Granularity {
	return []Granularity{Month, Week}
}

func (g Granularity) Valid() bool {
	switch g {
	case Week, Month:
		return true
	}
	return false
}

// Column returns the bucket column holding the start of g's bucket.
func (g Granularity) Column() Column {
	if g == Week {
		return ColumnWeek
	}
	return ColumnMonth
}

// ParseGranularity accepts "Week"/"Month" in any case.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// CategoryLevel is the classification grain.
type CategoryLevel string

const (
	Large CategoryLevel = "category"
	Small CategoryLevel = "subcategory"
)

func (l CategoryLevel) Column() Column {
	if l == Small {
		return ColumnSubcategory
	}
	return ColumnCategory
}

// Label is the human title fragment used in chart titles.
func (l CategoryLevel) Label() string {
	if l == Small {
		return "Subcategory"
	}
	return "Category"
}

// Column names a canonical column.
type Column string

const (
	ColumnDate        Column = "date"
	ColumnWeek        Column = "week"
	ColumnMonth       Column = "month"
	ColumnOperation   Column = "operation"
	ColumnEuro        Column = "euro"
	ColumnKind        Column = "kind"
	ColumnCategory    Column = "category"
	ColumnSubcategory Column = "subcategory"
	ColumnDescription Column = "description"
)

// CanonicalColumns is the exact column set, in order, of every canonical table.
func CanonicalColumns() []Column {
	return []Column{
		ColumnDate,
		ColumnWeek,
		ColumnMonth,
		ColumnOperation,
		ColumnEuro,
		ColumnKind,
		ColumnCategory,
		ColumnSubcategory,
		ColumnDescription,
	}
}

// ParseColumn resolves a column name.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range CanonicalColumns() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown column %q", s)
}

// IsDimension reports whether c is a categorical column usable for grouping.
func (c Column) IsDimension() bool {
	switch c {
	case ColumnOperation, ColumnCategory, ColumnSubcategory, ColumnDescription:
		return true
	}
	return false
}

// IsBucket reports whether c holds a bucket start date.
func (c Column) IsBucket() bool {
	return c == ColumnWeek || c == ColumnMonth
}
