// Package filters restricts canonical tables to a date interval or to allowed
// categorical values. Every function returns a new table and never mutates
// its input, so filters compose in any order.
package filters

import (
	"fmt"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
)

// WithinPeriod keeps rows with from <= date <= to.
func WithinPeriod(t domain.Table, from, to civil.Date) domain.Table {
	return t.Filter(func(tx domain.Transaction) bool {
		return !tx.Date.Before(from) && !tx.Date.After(to)
	})
}

// FilterByValues keeps rows whose value in column is one of allowed. An empty
// allowed set yields an empty table; to keep everything pass DistinctValues.
func FilterByValues(t domain.Table, column domain.Column, allowed []string) (domain.Table, error) {
	if err := checkFilterable(column); err != nil {
		return domain.Table{}, err
	}
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return t.Filter(func(tx domain.Transaction) bool {
		v, _ := tx.Value(column)
		_, ok := set[v]
		return ok
	}), nil
}

// DistinctValues returns the values present in column, sorted ascending.
func DistinctValues(t domain.Table, column domain.Column) ([]string, error) {
	if err := checkFilterable(column); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	t.Each(func(tx domain.Transaction) {
		v, _ := tx.Value(column)
		seen[v] = struct{}{}
	})
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out, nil
}

// EarliestDate returns the smallest transaction date.
func EarliestDate(t domain.Table) (civil.Date, error) {
	return extremeDate(t, func(candidate, best civil.Date) bool { return candidate.Before(best) })
}

// LatestDate returns the largest transaction date.
func LatestDate(t domain.Table) (civil.Date, error) {
	return extremeDate(t, func(candidate, best civil.Date) bool { return candidate.After(best) })
}

func extremeDate(t domain.Table, better func(candidate, best civil.Date) bool) (civil.Date, error) {
	if t.Empty() {
		return civil.Date{}, fmt.Errorf("date range of an empty table: %w", apperrors.ErrEmptyInput)
	}
	var best civil.Date
	first := true
	t.Each(func(tx domain.Transaction) {
		if first || better(tx.Date, best) {
			best = tx.Date
			first = false
		}
	})
	return best, nil
}

func checkFilterable(column domain.Column) error {
	if column == domain.ColumnEuro {
		return fmt.Errorf("column %q is numeric and cannot be filtered by value: %w", column, apperrors.ErrValidation)
	}
	if _, err := domain.ParseColumn(string(column)); err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	return nil
}

// Choices lists the period bounds and the distinct categorical values of t,
// the defaults offered before any filter is applied.
func Choices(t domain.Table) domain.FilterChoices {
	var c domain.FilterChoices
	if earliest, err := EarliestDate(t); err == nil {
		c.From = &earliest
	}
	if latest, err := LatestDate(t); err == nil {
		c.To = &latest
	}
	c.Categories, _ = DistinctValues(t, domain.ColumnCategory)
	c.Subcategories, _ = DistinctValues(t, domain.ColumnSubcategory)
	c.Operations, _ = DistinctValues(t, domain.ColumnOperation)
	return c
}
