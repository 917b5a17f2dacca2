// Package metrics computes totals, grouped sums, pivots, running profit/loss
// and rankings over canonical tables. Every function is a pure function of
// its arguments and produces a fully determined output order.
package metrics

import (
	"fmt"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Total sums euro over rows of the given kind. Zero on an empty table.
func Total(t domain.Table, kind domain.Kind) decimal.Decimal {
	sum := decimal.Zero
	t.Each(func(tx domain.Transaction) {
		if tx.Kind == kind {
			sum = sum.Add(tx.Euro)
		}
	})
	return sum
}

// Net is total earnings minus total expenses.
func Net(t domain.Table) decimal.Decimal {
	return Total(t, domain.Earning).Sub(Total(t, domain.Expense))
}

// Totals bundles earnings, expenses and net.
func Totals(t domain.Table) domain.Totals {
	earnings := Total(t, domain.Earning)
	expenses := Total(t, domain.Expense)
	return domain.Totals{Earnings: earnings, Expenses: expenses, Net: earnings.Sub(expenses)}
}

type bucketKey struct {
	bucket    civil.Date
	dimension string
}

// GroupedSum sums euro of kind rows per (bucket, dimension value). Sums that
// are not positive are left out because charts do not show them. Output is
// ordered by bucket, then dimension value.
func GroupedSum(t domain.Table, g domain.Granularity, dimension domain.Column, kind domain.Kind) ([]domain.BucketSum, error) {
	if err := checkArgs(g, kind, dimension); err != nil {
		return nil, err
	}
	sums := make(map[bucketKey]decimal.Decimal)
	t.Each(func(tx domain.Transaction) {
		if tx.Kind != kind {
			return
		}
		v, _ := tx.Value(dimension)
		k := bucketKey{bucket: tx.Bucket(g), dimension: v}
		sums[k] = sums[k].Add(tx.Euro)
	})

	out := make([]domain.BucketSum, 0, len(sums))
	for k, v := range sums {
		if !v.IsPositive() {
			continue
		}
		out = append(out, domain.BucketSum{Bucket: k.bucket, Dimension: k.dimension, Euro: v})
	}
	slices.SortFunc(out, func(a, b domain.BucketSum) int {
		if c := domain.CompareDates(a.Bucket, b.Bucket); c != 0 {
			return c
		}
		return strings.Compare(a.Dimension, b.Dimension)
	})
	return out, nil
}

// FlowByBucket sums earnings and expenses per bucket, omitting empty sums.
// Output is ordered by bucket, earnings before expenses.
func FlowByBucket(t domain.Table, g domain.Granularity) ([]domain.FlowSum, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("granularity %q: %w", g, apperrors.ErrValidation)
	}
	type key struct {
		bucket civil.Date
		kind   domain.Kind
	}
	sums := make(map[key]decimal.Decimal)
	t.Each(func(tx domain.Transaction) {
		k := key{bucket: tx.Bucket(g), kind: tx.Kind}
		sums[k] = sums[k].Add(tx.Euro)
	})

	out := make([]domain.FlowSum, 0, len(sums))
	for k, v := range sums {
		if v.IsPositive() {
			out = append(out, domain.FlowSum{Bucket: k.bucket, Kind: k.kind, Euro: v})
		}
	}
	order := func(k domain.Kind) int { return slices.Index(domain.Kinds(), k) }
	slices.SortFunc(out, func(a, b domain.FlowSum) int {
		if c := domain.CompareDates(a.Bucket, b.Bucket); c != 0 {
			return c
		}
		return order(a.Kind) - order(b.Kind)
	})
	return out, nil
}

// Share splits the kind total across dimension values, largest first (ties
// by label). Percentages are rounded to two decimals. A zero total has no
// defined shares and returns ErrEmptyInput.
func Share(t domain.Table, kind domain.Kind, dimension domain.Column) ([]domain.Slice, error) {
	if err := checkArgs(domain.Month, kind, dimension); err != nil {
		return nil, err
	}
	total := Total(t, kind)
	if !total.IsPositive() {
		return nil, fmt.Errorf("share of %s by %s: %w", kind, dimension, apperrors.ErrEmptyInput)
	}
	sums := make(map[string]decimal.Decimal)
	t.Each(func(tx domain.Transaction) {
		if tx.Kind == kind {
			v, _ := tx.Value(dimension)
			sums[v] = sums[v].Add(tx.Euro)
		}
	})

	out := make([]domain.Slice, 0, len(sums))
	for label, v := range sums {
		if !v.IsPositive() {
			continue
		}
		out = append(out, domain.Slice{
			Label:   label,
			Euro:    v,
			Percent: v.Mul(hundred).Div(total).Round(2),
		})
	}
	slices.SortFunc(out, func(a, b domain.Slice) int {
		if c := b.Euro.Cmp(a.Euro); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return out, nil
}

// Pivot builds a dense matrix of summed euro for kind rows, one row per
// rowDimension value (ascending) and one column per bucket from the first to
// the last observed bucket. Cells without transactions hold exactly zero.
func Pivot(t domain.Table, rowDimension domain.Column, g domain.Granularity, kind domain.Kind) (*domain.Matrix, error) {
	if err := checkArgs(g, kind, rowDimension); err != nil {
		return nil, err
	}
	filtered := t.Filter(func(tx domain.Transaction) bool { return tx.Kind == kind })

	m := &domain.Matrix{RowDimension: rowDimension, Rows: []string{}, Buckets: []civil.Date{}, Values: [][]decimal.Decimal{}}
	if filtered.Empty() {
		return m, nil
	}

	rowSet := make(map[string]struct{})
	var first, last civil.Date
	seen := false
	filtered.Each(func(tx domain.Transaction) {
		v, _ := tx.Value(rowDimension)
		rowSet[v] = struct{}{}
		b := tx.Bucket(g)
		if !seen || b.Before(first) {
			first = b
		}
		if !seen || b.After(last) {
			last = b
		}
		seen = true
	})

	for v := range rowSet {
		m.Rows = append(m.Rows, v)
	}
	slices.Sort(m.Rows)
	m.Buckets = bucketRange(first, last, g)

	rowIdx := make(map[string]int, len(m.Rows))
	for i, r := range m.Rows {
		rowIdx[r] = i
	}
	colIdx := make(map[civil.Date]int, len(m.Buckets))
	for j, b := range m.Buckets {
		colIdx[b] = j
	}

	m.Values = make([][]decimal.Decimal, len(m.Rows))
	for i := range m.Values {
		m.Values[i] = make([]decimal.Decimal, len(m.Buckets))
		for j := range m.Values[i] {
			m.Values[i][j] = decimal.Zero
		}
	}
	filtered.Each(func(tx domain.Transaction) {
		v, _ := tx.Value(rowDimension)
		i, j := rowIdx[v], colIdx[tx.Bucket(g)]
		m.Values[i][j] = m.Values[i][j].Add(tx.Euro)
	})
	return m, nil
}

// ProfitLoss returns one point per bucket from the first to the last bucket
// with activity, ascending. Cumulative at bucket i is the running earnings
// minus the running expenses through i; quiet buckets carry it forward.
func ProfitLoss(t domain.Table, g domain.Granularity) ([]domain.ProfitLossPoint, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("granularity %q: %w", g, apperrors.ErrValidation)
	}
	if t.Empty() {
		return []domain.ProfitLossPoint{}, nil
	}

	earning := make(map[civil.Date]decimal.Decimal)
	expense := make(map[civil.Date]decimal.Decimal)
	var first, last civil.Date
	seen := false
	t.Each(func(tx domain.Transaction) {
		b := tx.Bucket(g)
		if tx.Kind == domain.Expense {
			expense[b] = expense[b].Add(tx.Euro)
		} else {
			earning[b] = earning[b].Add(tx.Euro)
		}
		if !seen || b.Before(first) {
			first = b
		}
		if !seen || b.After(last) {
			last = b
		}
		seen = true
	})

	buckets := bucketRange(first, last, g)
	out := make([]domain.ProfitLossPoint, 0, len(buckets))
	runEarning, runExpense := decimal.Zero, decimal.Zero
	for _, b := range buckets {
		in, outFlow := earning[b], expense[b]
		runEarning = runEarning.Add(in)
		runExpense = runExpense.Add(outFlow)
		out = append(out, domain.ProfitLossPoint{
			Bucket:     b,
			Earning:    in,
			Expense:    outFlow,
			Cumulative: runEarning.Sub(runExpense),
		})
	}
	return out, nil
}

// bucketRange lists every bucket start from first to last inclusive.
func bucketRange(first, last civil.Date, g domain.Granularity) []civil.Date {
	var out []civil.Date
	for b := first; !b.After(last); b = domain.NextBucket(b, g) {
		out = append(out, b)
	}
	return out
}

func checkArgs(g domain.Granularity, kind domain.Kind, dimension domain.Column) error {
	if !g.Valid() {
		return fmt.Errorf("granularity %q: %w", g, apperrors.ErrValidation)
	}
	if !kind.Valid() {
		return fmt.Errorf("kind %q: %w", kind, apperrors.ErrValidation)
	}
	if !dimension.IsDimension() {
		return fmt.Errorf("column %q is not a dimension: %w", dimension, apperrors.ErrValidation)
	}
	return nil
}
