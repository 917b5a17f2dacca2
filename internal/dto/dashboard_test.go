package dto

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDashboardResponse(t *testing.T) {
	date := civil.Date{Year: 2024, Month: 1, Day: 20}
	table := domain.NewTable([]domain.Transaction{
		domain.NewTransaction(date, "POS", decimal.RequireFromString("-40.5"), "Casa", "", "ESSELUNGA", domain.DefaultWeekStart),
	})
	d := &domain.Dashboard{
		Vendor:      "bancasella",
		Granularity: domain.Week,
		Totals: domain.Totals{
			Earnings: decimal.Zero,
			Expenses: decimal.RequireFromString("40.5"),
			Net:      decimal.RequireFromString("-40.5"),
		},
		Choices:      domain.FilterChoices{From: &date, To: &date, Categories: []string{"Casa"}},
		Transactions: table,
	}

	resp := ToDashboardResponse(d)

	assert.Equal(t, "-40.50 Euro", resp.Totals.NetDisplay)
	assert.Equal(t, "2024-01-20", resp.Choices.From)
	assert.Equal(t, []string{}, resp.Choices.Operations)
	assert.Equal(t, []domain.Chart{}, resp.Charts)
	require.Len(t, resp.Transactions, 1)
	tx := resp.Transactions[0]
	assert.Equal(t, "2024-01-15", tx.Week)
	assert.Equal(t, "2024-01-01", tx.Month)
	assert.Equal(t, domain.Expense, tx.Kind)
	assert.Equal(t, domain.NotAvailable, tx.Subcategory)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"euro":"40.5"`)
	assert.Contains(t, string(raw), `"granularity":"Week"`)
}

func TestToStatementResponse_EmptyStatement(t *testing.T) {
	resp := ToStatementResponse(&domain.Statement{Vendor: "revolut"})

	assert.Equal(t, 0, resp.RowCount)
	assert.Empty(t, resp.Choices.From)
	assert.NotNil(t, resp.Skipped)
	assert.NotNil(t, resp.Transactions)
}

func TestTransactionResponse_CarriesCanonicalColumns(t *testing.T) {
	tx := domain.NewTransaction(civil.Date{Year: 2024, Month: 3, Day: 2}, "", decimal.NewFromInt(5), "", "", "", time.Monday)

	raw, err := json.Marshal(ToTransactionResponse(tx))
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, c := range domain.CanonicalColumns() {
		assert.Contains(t, fields, string(c))
	}
	assert.Len(t, fields, len(domain.CanonicalColumns()))
}
