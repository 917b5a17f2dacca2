package statements

import (
	"strings"

	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Rule is a manual correction applied after parsing. Apply returns the
// (possibly adjusted) row and whether to keep it.
type Rule interface {
	Name() string
	Apply(tx domain.Transaction) (domain.Transaction, bool)
}

// Normalize applies rules in order and returns a new table.
func Normalize(t domain.Table, rules ...Rule) domain.Table {
	if len(rules) == 0 {
		return t
	}
	out := make([]domain.Transaction, 0, t.Len())
	t.Each(func(tx domain.Transaction) {
		for _, r := range rules {
			var keep bool
			tx, keep = r.Apply(tx)
			if !keep {
				return
			}
		}
		out = append(out, tx)
	})
	return domain.NewTable(out)
}

// ExcludeEarning drops earnings of exactly Euro whose description contains
// DescriptionContains. Used for a recurring transfer that is not income.
type ExcludeEarning struct {
	Euro                decimal.Decimal
	DescriptionContains string
}

func (r ExcludeEarning) Name() string { return "exclude-earning" }

func (r ExcludeEarning) Apply(tx domain.Transaction) (domain.Transaction, bool) {
	if tx.Kind == domain.Earning && tx.Euro.Equal(r.Euro) && strings.Contains(tx.Description, r.DescriptionContains) {
		return tx, false
	}
	return tx, true
}

// AdjustExpense reduces matching expenses of exactly Euro by Offset. A row
// the offset would push below zero is left untouched.
type AdjustExpense struct {
	Euro                decimal.Decimal
	DescriptionContains string
	Offset              decimal.Decimal
}

func (r AdjustExpense) Name() string { return "adjust-expense" }

func (r AdjustExpense) Apply(tx domain.Transaction) (domain.Transaction, bool) {
	if tx.Kind != domain.Expense || !tx.Euro.Equal(r.Euro) || !strings.Contains(tx.Description, r.DescriptionContains) {
		return tx, true
	}
	adjusted := tx.Euro.Sub(r.Offset)
	if adjusted.IsNegative() {
		return tx, true
	}
	tx.Euro = adjusted
	return tx, true
}

// DefaultRules are the corrections for the known recurring anomalies of the
// Banca Sella ledger: a monthly 1000 transfer that is not income, and a 1200
// rent payment bundling a 1000 service fee.
func DefaultRules() []Rule {
	return []Rule{
		ExcludeEarning{Euro: decimal.NewFromInt(1000), DescriptionContains: "MENSILE"},
		AdjustExpense{Euro: decimal.NewFromInt(1200), DescriptionContains: "AFFITTO", Offset: decimal.NewFromInt(1000)},
	}
}
