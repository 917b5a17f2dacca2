package statements

import (
	"time"

	"github.com/SscSPs/statement_dashboard/internal/core/domain"
)

// Banca Sella export headers.
const (
	sellaDate        = "Data operazione"
	sellaDescription = "Descrizione"
	sellaAmount      = "Importo"
	sellaCategory    = "Categoria"
	sellaSubcategory = "Sottocategoria"
	sellaTags        = "Etichette"
	sellaDebit       = "Debito"
	sellaCredit      = "Credito"

	sellaDateLayout = "02/01/2006"
)

// BancaSella parses the single-currency Banca Sella ledger: locale formatted
// signed amounts plus the bank's own category and subcategory.
type BancaSella struct {
	weekStart time.Weekday
}

// NewBancaSella creates a Banca Sella adapter.
func NewBancaSella(weekStart time.Weekday) *BancaSella {
	return &BancaSella{weekStart: weekStart}
}

var _ Adapter = (*BancaSella)(nil)

func (a *BancaSella) Vendor() Vendor { return VendorBancaSella }

func (a *BancaSella) RequiredColumns() []string {
	return []string{sellaDate, sellaDescription, sellaAmount, sellaCategory, sellaSubcategory, sellaTags}
}

func (a *BancaSella) CellLayout() domain.CellLayout {
	return domain.CellLayout{DateLayout: sellaDateLayout, DecimalComma: true}
}

// Parse implements Adapter.
func (a *BancaSella) Parse(raw domain.RawTable) (*Result, error) {
	idx, err := columnIndex(a.Vendor(), raw, a.RequiredColumns())
	if err != nil {
		return nil, err
	}

	res := &Result{Vendor: a.Vendor()}
	rows := make([]domain.Transaction, 0, len(raw.Records))
	for i := range raw.Records {
		dateStr := raw.Cell(i, idx[sellaDate])
		date, err := parseDate(sellaDateLayout, dateStr)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineOf(i), Column: sellaDate, Value: dateStr, Reason: err.Error()})
			continue
		}
		amountStr := raw.Cell(i, idx[sellaAmount])
		amount, err := ParseLocaleAmount(amountStr)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineOf(i), Column: sellaAmount, Value: amountStr, Reason: err.Error()})
			continue
		}
		rows = append(rows, domain.NewTransaction(
			date,
			raw.Cell(i, idx[sellaTags]),
			amount,
			raw.Cell(i, idx[sellaCategory]),
			raw.Cell(i, idx[sellaSubcategory]),
			raw.Cell(i, idx[sellaDescription]),
			a.weekStart,
		))
	}
	res.Table = domain.NewTable(rows)
	return res, nil
}
