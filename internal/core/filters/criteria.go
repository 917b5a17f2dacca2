package filters

import (
	"fmt"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
)

// Criteria is the conjunction of an optional period and per-column value
// sets. A nil bound leaves that side open; a column missing from Values is
// not filtered, while a present but empty slice empties the result.
type Criteria struct {
	From   *civil.Date
	To     *civil.Date
	Values map[domain.Column][]string
}

// Apply filters t by every criterion. Columns are applied in sorted order so
// the result never depends on map iteration.
func (c Criteria) Apply(t domain.Table) (domain.Table, error) {
	if c.From != nil && c.To != nil && c.From.After(*c.To) {
		return domain.Table{}, fmt.Errorf("period start %s is after end %s: %w", c.From, c.To, apperrors.ErrValidation)
	}
	if c.From != nil || c.To != nil {
		from, to := civil.Date{Year: 1, Month: 1, Day: 1}, civil.Date{Year: 9999, Month: 12, Day: 31}
		if c.From != nil {
			from = *c.From
		}
		if c.To != nil {
			to = *c.To
		}
		t = WithinPeriod(t, from, to)
	}

	columns := make([]domain.Column, 0, len(c.Values))
	for col := range c.Values {
		columns = append(columns, col)
	}
	slices.Sort(columns)
	for _, col := range columns {
		var err error
		t, err = FilterByValues(t, col, c.Values[col])
		if err != nil {
			return domain.Table{}, err
		}
	}
	return t, nil
}
