package statements

import (
	"time"

	"github.com/SscSPs/statement_dashboard/internal/core/domain"
)

// Revolut export headers. The export also carries Product, Completed Date,
// Fee, Currency, State and Balance, none of which reach the canonical table.
const (
	revolutType        = "Type"
	revolutStarted     = "Started Date"
	revolutDescription = "Description"
	revolutAmount      = "Amount"

	revolutDateLayout = "2006-01-02 15:04:05"
)

// Revolut parses the multi-currency Revolut account export. The source has
// no categories, so both category levels are NotAvailableLong.
type Revolut struct {
	weekStart time.Weekday
}

// NewRevolut creates a Revolut adapter.
func NewRevolut(weekStart time.Weekday) *Revolut {
	return &Revolut{weekStart: weekStart}
}

var _ Adapter = (*Revolut)(nil)

func (a *Revolut) Vendor() Vendor { return VendorRevolut }

func (a *Revolut) RequiredColumns() []string {
	return []string{revolutType, revolutStarted, revolutDescription, revolutAmount}
}

func (a *Revolut) CellLayout() domain.CellLayout {
	return domain.CellLayout{DateLayout: revolutDateLayout}
}

// Parse implements Adapter.
func (a *Revolut) Parse(raw domain.RawTable) (*Result, error) {
	idx, err := columnIndex(a.Vendor(), raw, a.RequiredColumns())
	if err != nil {
		return nil, err
	}

	res := &Result{Vendor: a.Vendor()}
	rows := make([]domain.Transaction, 0, len(raw.Records))
	for i := range raw.Records {
		dateStr := raw.Cell(i, idx[revolutStarted])
		date, err := parseDate(revolutDateLayout, dateStr)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineOf(i), Column: revolutStarted, Value: dateStr, Reason: err.Error()})
			continue
		}
		amountStr := raw.Cell(i, idx[revolutAmount])
		amount, err := ParseDotAmount(amountStr)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineOf(i), Column: revolutAmount, Value: amountStr, Reason: err.Error()})
			continue
		}
		rows = append(rows, domain.NewTransaction(
			date,
			raw.Cell(i, idx[revolutType]),
			amount,
			domain.NotAvailableLong,
			domain.NotAvailableLong,
			raw.Cell(i, idx[revolutDescription]),
			a.weekStart,
		))
	}
	res.Table = domain.NewTable(rows)
	return res, nil
}
