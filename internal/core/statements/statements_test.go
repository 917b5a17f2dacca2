package statements_test

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/SscSPs/statement_dashboard/internal/core/statements"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertCanonical checks the row invariants every adapter must uphold.
func assertCanonical(t *testing.T, table domain.Table) {
	t.Helper()
	for _, tx := range table.Rows() {
		assert.NoError(t, tx.Validate(), "row %+v", tx)
		assert.False(t, tx.Euro.IsNegative())
	}
}

func TestParseLocaleAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1.234,56", want: "1234.56"},
		{in: "-1.234,56", want: "-1234.56"},
		{in: "50,00", want: "50"},
		{in: " -3,5 ", want: "-3.5"},
		{in: "+12,00 €", want: "12"},
		{in: "1.000.000", want: "1000000"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := statements.ParseLocaleAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseDotAmount(t *testing.T) {
	got, err := statements.ParseDotAmount("-12.50")
	require.NoError(t, err)
	assert.True(t, dec("-12.5").Equal(got))

	_, err = statements.ParseDotAmount("12,50x")
	assert.Error(t, err)
}

func TestBancaSella_Parse(t *testing.T) {
	raw := domain.RawTable{
		Header: []string{"Codice identificativo", "Data operazione", "Data valuta", "Descrizione", "Divisa", "Importo", "Categoria", "Sottocategoria", "Etichette"},
		Records: [][]string{
			{"1", "05/01/2024", "05/01/2024", "STIPENDIO", "EUR", "2.500,00", "Entrate varie", "Varie", "Bonifico"},
			{"2", "20/01/2024", "21/01/2024", "ESSELUNGA", "EUR", "-1.234,56", "Casa e famiglia", "Alimentari", "Pagamento POS"},
			{"3", "not a date", "", "BROKEN", "EUR", "-1,00", "", "", ""},
			{"4", "22/01/2024", "", "", "EUR", "oops", "", "", ""},
			{"5", "23/01/2024", "", "", "EUR", "-7,00", "", "", ""},
		},
	}

	res, err := statements.NewBancaSella(time.Monday).Parse(raw)
	require.NoError(t, err)
	assertCanonical(t, res.Table)

	require.Equal(t, 3, res.Table.Len())
	assert.Equal(t, 2, res.SkippedCount())
	assert.Equal(t, 4, res.Skipped[0].Line)
	assert.Equal(t, "Data operazione", res.Skipped[0].Column)
	assert.Equal(t, "Importo", res.Skipped[1].Column)

	rows := res.Table.Rows()
	assert.Equal(t, domain.Earning, rows[0].Kind)
	assert.True(t, dec("2500").Equal(rows[0].Euro))
	assert.Equal(t, "Bonifico", rows[0].Operation)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 5}, rows[0].Date)

	assert.Equal(t, domain.Expense, rows[1].Kind)
	assert.True(t, dec("1234.56").Equal(rows[1].Euro))
	assert.Equal(t, "Casa e famiglia", rows[1].Category)
	assert.Equal(t, "Alimentari", rows[1].Subcategory)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 15}, rows[1].Week)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 1}, rows[1].Month)

	assert.Equal(t, domain.NotAvailable, rows[2].Category)
	assert.Equal(t, domain.NotAvailable, rows[2].Operation)
	assert.Equal(t, domain.NotAvailable, rows[2].Description)
}

func TestBancaSella_SkipsImplausibleYears(t *testing.T) {
	raw := domain.RawTable{
		Header: []string{"Data operazione", "Descrizione", "Importo", "Categoria", "Sottocategoria", "Etichette"},
		Records: [][]string{
			{"01/01/0001", "STRAY", "-1,00", "", "", ""},
			{"05/01/2024", "OK", "-2,00", "", "", ""},
			{"05/01/9999", "FAR", "-3,00", "", "", ""},
		},
	}

	res, err := statements.NewBancaSella(time.Monday).Parse(raw)
	require.NoError(t, err)

	require.Equal(t, 1, res.Table.Len())
	require.Equal(t, 2, res.SkippedCount())
	assert.Contains(t, res.Skipped[0].Reason, "implausible")
	assert.Equal(t, "05/01/9999", res.Skipped[1].Value)
}

func TestBancaSella_MissingColumns(t *testing.T) {
	raw := domain.RawTable{
		Header:  []string{"Data operazione", "Descrizione"},
		Records: [][]string{{"05/01/2024", "x"}},
	}

	res, err := statements.NewBancaSella(time.Monday).Parse(raw)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrParse))

	var perr *apperrors.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []string{"Importo", "Categoria", "Sottocategoria", "Etichette"}, perr.Missing)
}

func TestRevolut_Parse(t *testing.T) {
	raw := domain.RawTable{
		Header: []string{"Type", "Product", "Started Date", "Completed Date", "Description", "Amount", "Fee", "Currency", "State", "Balance"},
		Records: [][]string{
			{"CARD_PAYMENT", "Current", "2024-02-01 10:15:00", "2024-02-02 09:00:00", "Coffee", "-3.20", "0.00", "EUR", "COMPLETED", "96.80"},
			{"TOPUP", "Current", "2024-02-03 08:00:00", "2024-02-03 08:00:01", "Top-up", "100.00", "0.00", "EUR", "COMPLETED", "196.80"},
			{"EXCHANGE", "Current", "2024-02-04 08:00:00", "", "Exchanged", "0", "0.00", "EUR", "COMPLETED", "196.80"},
			{"CARD_PAYMENT", "Current", "2024/02/05", "", "Bad", "-1.00", "0.00", "EUR", "COMPLETED", "0"},
		},
	}

	res, err := statements.NewRevolut(time.Monday).Parse(raw)
	require.NoError(t, err)
	assertCanonical(t, res.Table)
	require.Equal(t, 3, res.Table.Len())
	assert.Equal(t, 1, res.SkippedCount())

	rows := res.Table.Rows()
	assert.Equal(t, domain.Expense, rows[0].Kind)
	assert.True(t, dec("3.2").Equal(rows[0].Euro))
	assert.Equal(t, "CARD_PAYMENT", rows[0].Operation)
	assert.Equal(t, domain.NotAvailableLong, rows[0].Category)
	assert.Equal(t, domain.NotAvailableLong, rows[0].Subcategory)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 1}, rows[0].Date)

	assert.Equal(t, domain.Earning, rows[1].Kind)
	// Zero amount is classified as an earning.
	assert.Equal(t, domain.Earning, rows[2].Kind)
}

func TestRevolut_NotTabular(t *testing.T) {
	_, err := statements.NewRevolut(time.Monday).Parse(domain.RawTable{})
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestTransform_DebitCredit(t *testing.T) {
	raw := domain.RawTable{
		Header: []string{"Data operazione", "Descrizione", "Categoria", "Sottocategoria", "Etichette", "Debito", "Credito"},
		Records: [][]string{
			{"10/03/2024", "SUPERMERCATO", "Casa e famiglia", "Alimentari", "Pagamento POS", "50,00", ""},
			{"11/03/2024", "AFFITTO MARZO", "Casa e famiglia", "Affitto", "Bonifico", "-1.200,00", ""},
			{"12/03/2024", "STIPENDIO", "", "", "Bonifico", "", "1.800,00"},
			{"13/03/2024", "RIMBORSO E SPESA", "Rimborsi", "Varie", "Storno", "-5,00", "7,50"},
			{"14/03/2024", "VUOTO", "", "", "", "", ""},
			{"32/03/2024", "DATA ERRATA", "", "", "", "-1,00", ""},
			{"15/03/2024", "IMPORTO ERRATO", "", "", "", "x,y", ""},
		},
	}

	res, err := statements.Transform(raw, time.Monday)
	require.NoError(t, err)
	assertCanonical(t, res.Table)
	assert.Equal(t, statements.VendorBancaSellaLedger, res.Vendor)
	assert.Equal(t, 3, res.SkippedCount())

	rows := res.Table.Rows()
	require.Len(t, rows, 5)

	assert.Equal(t, domain.Expense, rows[0].Kind)
	assert.True(t, dec("50").Equal(rows[0].Euro))

	assert.Equal(t, domain.Expense, rows[1].Kind)
	assert.True(t, dec("1200").Equal(rows[1].Euro))

	assert.Equal(t, domain.Earning, rows[2].Kind)
	assert.True(t, dec("1800").Equal(rows[2].Euro))
	assert.Equal(t, domain.NotAvailable, rows[2].Category)

	assert.Equal(t, domain.Expense, rows[3].Kind)
	assert.True(t, dec("5").Equal(rows[3].Euro))
	assert.Equal(t, domain.Earning, rows[4].Kind)
	assert.True(t, dec("7.5").Equal(rows[4].Euro))
}

func TestTransform_MissingColumns(t *testing.T) {
	raw := domain.RawTable{Header: []string{"Data operazione", "Descrizione", "Importo"}}
	_, err := statements.Transform(raw, time.Monday)

	var perr *apperrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Missing, "Debito")
	assert.Contains(t, perr.Missing, "Credito")
}

func TestNormalize_DefaultRules(t *testing.T) {
	date := civil.Date{Year: 2024, Month: 3, Day: 1}
	table := domain.NewTable([]domain.Transaction{
		domain.NewFlow(date, domain.Earning, dec("1000"), "Bonifico", "Trasferimenti", "Varie", "GIROCONTO MENSILE", time.Monday),
		domain.NewFlow(date, domain.Earning, dec("1000"), "Bonifico", "Entrate varie", "Varie", "STIPENDIO", time.Monday),
		domain.NewFlow(date, domain.Expense, dec("1200"), "Bonifico", "Casa e famiglia", "Affitto", "AFFITTO MARZO", time.Monday),
		domain.NewFlow(date, domain.Expense, dec("900"), "Bonifico", "Casa e famiglia", "Affitto", "AFFITTO APRILE", time.Monday),
	})

	out := statements.Normalize(table, statements.DefaultRules()...)

	require.Equal(t, 3, out.Len())
	rows := out.Rows()
	assert.Equal(t, "STIPENDIO", rows[0].Description)
	assert.True(t, dec("200").Equal(rows[1].Euro))
	assert.True(t, dec("900").Equal(rows[2].Euro))

	// Input is left untouched.
	assert.Equal(t, 4, table.Len())
	assert.True(t, dec("1200").Equal(table.Rows()[2].Euro))
}

func TestAdjustExpense_NeverNegative(t *testing.T) {
	date := civil.Date{Year: 2024, Month: 3, Day: 1}
	tx := domain.NewFlow(date, domain.Expense, dec("10"), "", "", "", "FEE", time.Monday)
	rule := statements.AdjustExpense{Euro: dec("10"), DescriptionContains: "FEE", Offset: dec("50")}

	got, keep := rule.Apply(tx)
	assert.True(t, keep)
	assert.True(t, dec("10").Equal(got.Euro))
}

func TestRegistry(t *testing.T) {
	reg := statements.NewRegistry(statements.WithWeekStart(time.Sunday))

	assert.Equal(t, []statements.Vendor{
		statements.VendorBancaSella,
		statements.VendorBancaSellaLedger,
		statements.VendorRevolut,
	}, reg.Vendors())
	assert.Equal(t, time.Sunday, reg.WeekStart())

	a, err := reg.Lookup("revolut")
	require.NoError(t, err)
	assert.Equal(t, statements.VendorRevolut, a.Vendor())

	_, err = reg.Lookup("unknown-bank")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	raw := domain.RawTable{
		Header:  []string{"Type", "Started Date", "Description", "Amount"},
		Records: [][]string{{"CARD_PAYMENT", "2024-01-10 12:00:00", "Lunch", "-9.00"}},
	}
	res, err := reg.Parse("revolut", raw)
	require.NoError(t, err)
	// 2024-01-10 is a Wednesday; weeks start on Sunday here.
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 7}, res.Table.Rows()[0].Week)
}
