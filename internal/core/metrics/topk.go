package metrics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RankBy selects the measure TopK orders groups by.
type RankBy string

const (
	RankByCount RankBy = "count"
	RankByEuro  RankBy = "euro"
)

func (r RankBy) Valid() bool {
	return r == RankByCount || r == RankByEuro
}

// TopK groups rows by dimensions (optionally only rows of kind), ranks the
// groups by rankBy descending and keeps the first k. Equal measures keep the
// ascending order of their group keys. Fewer than k groups are returned as
// they are, without padding.
func TopK(t domain.Table, k int, rankBy RankBy, dimensions []domain.Column, kind *domain.Kind) ([]domain.RankedGroup, error) {
	if k < 0 {
		return nil, fmt.Errorf("k must not be negative, got %d: %w", k, apperrors.ErrValidation)
	}
	if !rankBy.Valid() {
		return nil, fmt.Errorf("rank measure %q: %w", rankBy, apperrors.ErrValidation)
	}
	if len(dimensions) == 0 {
		return nil, fmt.Errorf("at least one dimension is required: %w", apperrors.ErrValidation)
	}
	for _, d := range dimensions {
		if !d.IsDimension() {
			return nil, fmt.Errorf("column %q is not a dimension: %w", d, apperrors.ErrValidation)
		}
	}
	if kind != nil && !kind.Valid() {
		return nil, fmt.Errorf("kind %q: %w", *kind, apperrors.ErrValidation)
	}

	groups := make(map[string]*domain.RankedGroup)
	t.Each(func(tx domain.Transaction) {
		if kind != nil && tx.Kind != *kind {
			return
		}
		keys := make([]string, len(dimensions))
		for i, d := range dimensions {
			keys[i], _ = tx.Value(d)
		}
		id := strings.Join(keys, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &domain.RankedGroup{Keys: keys, Euro: decimal.Zero}
			groups[id] = g
		}
		g.Count++
		g.Euro = g.Euro.Add(tx.Euro)
	})

	out := make([]domain.RankedGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b domain.RankedGroup) int {
		return slices.Compare(a.Keys, b.Keys)
	})
	slices.SortStableFunc(out, func(a, b domain.RankedGroup) int {
		if rankBy == RankByCount {
			return b.Count - a.Count
		}
		return b.Euro.Cmp(a.Euro)
	})

	if k < len(out) {
		out = out[:k]
	}
	return out, nil
}
