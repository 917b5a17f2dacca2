// Package charts shapes metric results into chart-ready data for the
// rendering collaborator. Builders never draw anything themselves.
package charts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/SscSPs/statement_dashboard/internal/core/filters"
	"github.com/SscSPs/statement_dashboard/internal/core/metrics"
	"github.com/shopspring/decimal"
)

const (
	MinHeight     = 400
	MaxHeight     = 800
	DefaultHeight = 500
	DefaultTopK   = 20
)

// ClampHeight forces h into [MinHeight, MaxHeight]; zero means DefaultHeight.
func ClampHeight(h int) int {
	switch {
	case h == 0:
		return DefaultHeight
	case h < MinHeight:
		return MinHeight
	case h > MaxHeight:
		return MaxHeight
	}
	return h
}

func flowTitle(kind domain.Kind) string {
	if kind == domain.Expense {
		return "Expenses"
	}
	return "Earnings"
}

// EarningsExpensesBar compares earnings and expenses per bucket.
func EarningsExpensesBar(t domain.Table, g domain.Granularity, height int) (domain.Chart, error) {
	sums, err := metrics.FlowByBucket(t, g)
	if err != nil {
		return domain.Chart{}, err
	}
	points := make([]domain.ChartPoint, 0, len(sums))
	for _, s := range sums {
		points = append(points, domain.ChartPoint{X: s.Bucket.String(), Y: s.Euro, Color: string(s.Kind)})
	}
	return domain.Chart{
		ID:         "earnings-vs-expenses",
		Title:      "Earnings vs Expenses",
		Type:       domain.ChartBar,
		Height:     ClampHeight(height),
		XLabel:     string(g.Column()),
		YLabel:     "euro",
		ColorLabel: "cash flow",
		Points:     points,
	}, nil
}

// CategoryBar stacks kind totals per bucket, colored by category level.
func CategoryBar(t domain.Table, g domain.Granularity, level domain.CategoryLevel, kind domain.Kind, height int) (domain.Chart, error) {
	sums, err := metrics.GroupedSum(t, g, level.Column(), kind)
	if err != nil {
		return domain.Chart{}, err
	}
	points := make([]domain.ChartPoint, 0, len(sums))
	for _, s := range sums {
		points = append(points, domain.ChartPoint{X: s.Bucket.String(), Y: s.Euro, Color: s.Dimension})
	}
	return domain.Chart{
		ID:         fmt.Sprintf("%s-by-%s", kind, level),
		Title:      fmt.Sprintf("%s by %s", flowTitle(kind), level.Label()),
		Type:       domain.ChartBar,
		Height:     ClampHeight(height),
		XLabel:     string(g.Column()),
		YLabel:     string(kind),
		ColorLabel: string(level.Column()),
		Points:     points,
	}, nil
}

// FlowPie splits the kind total across category level values.
func FlowPie(t domain.Table, kind domain.Kind, level domain.CategoryLevel) (domain.Chart, error) {
	points, err := pie(t, kind, level.Column())
	if err != nil {
		return domain.Chart{}, err
	}
	return domain.Chart{
		ID:         fmt.Sprintf("%s-pie-%s", kind, level),
		Title:      fmt.Sprintf("%s Pie for %s", capitalize(string(kind)), level.Label()),
		Type:       domain.ChartPie,
		ColorLabel: string(level.Column()),
		Points:     points,
	}, nil
}

// OperationPie splits the kind total across operations.
func OperationPie(t domain.Table, kind domain.Kind) (domain.Chart, error) {
	points, err := pie(t, kind, domain.ColumnOperation)
	if err != nil {
		return domain.Chart{}, err
	}
	return domain.Chart{
		ID:         fmt.Sprintf("%s-pie-operation", kind),
		Title:      fmt.Sprintf("%s Pie for Operations", capitalize(string(kind))),
		Type:       domain.ChartPie,
		ColorLabel: string(domain.ColumnOperation),
		Points:     points,
	}, nil
}

// pie returns no slices, rather than an error, when there is nothing to split.
func pie(t domain.Table, kind domain.Kind, dimension domain.Column) ([]domain.ChartPoint, error) {
	shares, err := metrics.Share(t, kind, dimension)
	if errors.Is(err, apperrors.ErrEmptyInput) {
		return []domain.ChartPoint{}, nil
	}
	if err != nil {
		return nil, err
	}
	points := make([]domain.ChartPoint, 0, len(shares))
	for _, s := range shares {
		pct := s.Percent
		points = append(points, domain.ChartPoint{X: s.Label, Y: s.Euro, Percent: &pct})
	}
	return points, nil
}

// ProfitLossLine is the running savings curve.
func ProfitLossLine(t domain.Table, g domain.Granularity, height int) (domain.Chart, error) {
	curve, err := metrics.ProfitLoss(t, g)
	if err != nil {
		return domain.Chart{}, err
	}
	points := make([]domain.ChartPoint, 0, len(curve))
	for _, p := range curve {
		points = append(points, domain.ChartPoint{X: p.Bucket.String(), Y: p.Cumulative})
	}
	return domain.Chart{
		ID:     "savings-over-time",
		Title:  "Savings Over Time",
		Type:   domain.ChartArea,
		Height: ClampHeight(height),
		XLabel: string(g.Column()),
		YLabel: "cumulative",
		Points: points,
	}, nil
}

// TopVendorTransactions ranks descriptions by number of transactions.
func TopVendorTransactions(t domain.Table, k, height int) (domain.Chart, error) {
	groups, err := metrics.TopK(t, k, metrics.RankByCount, []domain.Column{domain.ColumnDescription}, nil)
	if err != nil {
		return domain.Chart{}, err
	}
	points := make([]domain.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, domain.ChartPoint{X: g.Keys[0], Y: decimal.NewFromInt(int64(g.Count))})
	}
	return domain.Chart{
		ID:     "top-vendors-transactions",
		Title:  fmt.Sprintf("Top %d Vendors by Number of Transactions", k),
		Type:   domain.ChartBar,
		Height: ClampHeight(height),
		XLabel: string(domain.ColumnDescription),
		YLabel: "transactions",
		Points: points,
	}, nil
}

// TopVendorFlow ranks descriptions by summed kind euro. A non-empty operation
// restricts the ranking to rows of that operation.
func TopVendorFlow(t domain.Table, k int, kind domain.Kind, operation string, height int) (domain.Chart, error) {
	id := fmt.Sprintf("top-vendors-%s", kind)
	title := fmt.Sprintf("Top %d Vendors by %s", k, flowTitle(kind))
	if operation != "" {
		var err error
		t, err = filters.FilterByValues(t, domain.ColumnOperation, []string{operation})
		if err != nil {
			return domain.Chart{}, err
		}
		id += "-" + slug(operation)
		title += " (" + operation + ")"
	}
	groups, err := metrics.TopK(t, k, metrics.RankByEuro, []domain.Column{domain.ColumnDescription}, &kind)
	if err != nil {
		return domain.Chart{}, err
	}
	points := make([]domain.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, domain.ChartPoint{X: g.Keys[0], Y: g.Euro})
	}
	return domain.Chart{
		ID:     id,
		Title:  title,
		Type:   domain.ChartBar,
		Height: ClampHeight(height),
		XLabel: string(domain.ColumnDescription),
		YLabel: string(kind),
		Points: points,
	}, nil
}

// FlowHeatmap is the (category level x bucket) matrix of kind euro.
func FlowHeatmap(t domain.Table, g domain.Granularity, kind domain.Kind, level domain.CategoryLevel, height int) (domain.Chart, error) {
	m, err := metrics.Pivot(t, level.Column(), g, kind)
	if err != nil {
		return domain.Chart{}, err
	}
	return domain.Chart{
		ID:     fmt.Sprintf("%s-heatmap-%s", kind, level),
		Title:  fmt.Sprintf("%s Heatmap by %s", flowTitle(kind), level.Label()),
		Type:   domain.ChartHeatmap,
		Height: ClampHeight(height),
		XLabel: string(g.Column()),
		YLabel: string(level.Column()),
		Matrix: m,
	}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
