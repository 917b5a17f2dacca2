package statements

import (
	"strings"
	"time"

	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ledgerColumns is the unified Banca Sella layout with separate debit and
// credit columns.
var ledgerColumns = []string{
	sellaDate,
	sellaDescription,
	sellaCategory,
	sellaSubcategory,
	sellaTags,
	sellaDebit,
	sellaCredit,
}

// Transform maps the unified debit/credit ledger onto the canonical schema.
//
// Debit magnitudes become expenses and credit magnitudes earnings, whatever
// sign the export writes them with. A row carrying both yields two canonical
// rows; a row with neither amount is skipped.
func Transform(raw domain.RawTable, weekStart time.Weekday) (*Result, error) {
	idx, err := columnIndex(VendorBancaSellaLedger, raw, ledgerColumns)
	if err != nil {
		return nil, err
	}

	res := &Result{Vendor: VendorBancaSellaLedger}
	rows := make([]domain.Transaction, 0, len(raw.Records))
	for i := range raw.Records {
		dateStr := raw.Cell(i, idx[sellaDate])
		date, err := parseDate(sellaDateLayout, dateStr)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineOf(i), Column: sellaDate, Value: dateStr, Reason: err.Error()})
			continue
		}

		debit, debitOK, debitErr := optionalAmount(raw.Cell(i, idx[sellaDebit]))
		credit, creditOK, creditErr := optionalAmount(raw.Cell(i, idx[sellaCredit]))
		if debitErr != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineOf(i), Column: sellaDebit, Value: raw.Cell(i, idx[sellaDebit]), Reason: debitErr.Error()})
			continue
		}
		if creditErr != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineOf(i), Column: sellaCredit, Value: raw.Cell(i, idx[sellaCredit]), Reason: creditErr.Error()})
			continue
		}
		if !debitOK && !creditOK {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineOf(i), Column: sellaDebit + "/" + sellaCredit, Reason: "neither debit nor credit amount present"})
			continue
		}

		flow := func(kind domain.Kind, euro decimal.Decimal) domain.Transaction {
			return domain.NewFlow(
				date,
				kind,
				euro,
				raw.Cell(i, idx[sellaTags]),
				raw.Cell(i, idx[sellaCategory]),
				raw.Cell(i, idx[sellaSubcategory]),
				raw.Cell(i, idx[sellaDescription]),
				weekStart,
			)
		}

		// A zero debit next to a credit is just an empty debit cell.
		if debitOK && (!debit.IsZero() || !creditOK) {
			// Debits are exported negative; the sign flip leaves the
			// expense magnitude, and unsigned exports give the same euro.
			rows = append(rows, flow(domain.Expense, debit.Neg().Abs()))
		}
		if creditOK && (!credit.IsZero() || !debitOK || debit.IsZero()) {
			rows = append(rows, flow(domain.Earning, credit.Abs()))
		}
	}
	res.Table = domain.NewTable(rows)
	return res, nil
}

// optionalAmount parses a locale amount cell that may legitimately be blank.
func optionalAmount(s string) (decimal.Decimal, bool, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, false, nil
	}
	d, err := ParseLocaleAmount(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

// BancaSellaLedger exposes Transform through the Adapter registry.
type BancaSellaLedger struct {
	weekStart time.Weekday
}

// NewBancaSellaLedger creates the unified-ledger adapter.
func NewBancaSellaLedger(weekStart time.Weekday) *BancaSellaLedger {
	return &BancaSellaLedger{weekStart: weekStart}
}

var _ Adapter = (*BancaSellaLedger)(nil)

func (a *BancaSellaLedger) Vendor() Vendor { return VendorBancaSellaLedger }

func (a *BancaSellaLedger) RequiredColumns() []string {
	return append([]string(nil), ledgerColumns...)
}

func (a *BancaSellaLedger) CellLayout() domain.CellLayout {
	return domain.CellLayout{DateLayout: sellaDateLayout, DecimalComma: true}
}

func (a *BancaSellaLedger) Parse(raw domain.RawTable) (*Result, error) {
	return Transform(raw, a.weekStart)
}
