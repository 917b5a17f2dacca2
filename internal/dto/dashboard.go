package dto

import (
	"mime/multipart"

	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/SscSPs/statement_dashboard/internal/utils"
	"github.com/shopspring/decimal"
)

// ParseStatementRequest is the multipart form of a statement upload.
type ParseStatementRequest struct {
	Vendor    string                `form:"vendor" binding:"required"`
	File      *multipart.FileHeader `form:"file" binding:"required"`
	Normalize *bool                 `form:"normalize"`
	Limit     int                   `form:"limit" binding:"omitempty,min=1,max=1000"`
	PageToken string                `form:"pageToken"`
}

// DashboardRequest is a statement upload plus the dashboard widgets' state.
// Omitted value lists select every observed value.
type DashboardRequest struct {
	ParseStatementRequest
	From          string   `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string   `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Granularity   string   `form:"granularity" binding:"omitempty,granularity"`
	Categories    []string `form:"categories"`
	Subcategories []string `form:"subcategories"`
	Operations    []string `form:"operations"`
	PlotHeight    int      `form:"plotHeight" binding:"omitempty,min=400,max=800"`
	TopK          int      `form:"topK" binding:"omitempty,min=1,max=100"`
}

// VendorsResponse lists the accepted vendor names.
type VendorsResponse struct {
	Vendors []string `json:"vendors"`
}

// TransactionResponse is one canonical row.
type TransactionResponse struct {
	Date        string          `json:"date"`
	Week        string          `json:"week"`
	Month       string          `json:"month"`
	Operation   string          `json:"operation"`
	Euro        decimal.Decimal `json:"euro"`
	Kind        domain.Kind     `json:"kind"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Description string          `json:"description"`
}

// FilterChoicesResponse are the selectable filter values.
type FilterChoicesResponse struct {
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Operations    []string `json:"operations"`
}

// StatementResponse is the canonical view of an upload.
type StatementResponse struct {
	Vendor        string                `json:"vendor"`
	RowCount      int                   `json:"rowCount"`
	SkippedCount  int                   `json:"skippedCount"`
	Skipped       []domain.SkippedRow   `json:"skipped"`
	Choices       FilterChoicesResponse `json:"choices"`
	Transactions  []TransactionResponse `json:"transactions"`
	NextPageToken string                `json:"nextPageToken,omitempty"` // set when Transactions is one page of rows
}

// TotalsResponse are the dashboard headline metrics.
type TotalsResponse struct {
	Earnings        decimal.Decimal `json:"earnings"`
	Expenses        decimal.Decimal `json:"expenses"`
	Net             decimal.Decimal `json:"net"`
	EarningsDisplay string          `json:"earningsDisplay"`
	ExpensesDisplay string          `json:"expensesDisplay"`
	NetDisplay      string          `json:"netDisplay"`
}

// DashboardResponse is everything needed to render one dashboard view.
type DashboardResponse struct {
	Vendor        string                `json:"vendor"`
	Granularity   domain.Granularity    `json:"granularity"`
	Totals        TotalsResponse        `json:"totals"`
	Choices       FilterChoicesResponse `json:"choices"`
	Charts        []domain.Chart        `json:"charts"`
	RowCount      int                   `json:"rowCount"`
	SkippedCount  int                   `json:"skippedCount"`
	Transactions  []TransactionResponse `json:"transactions"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

// ToTransactionResponse converts a domain transaction to a DTO response
func ToTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		Date:        tx.Date.String(),
		Week:        tx.Week.String(),
		Month:       tx.Month.String(),
		Operation:   tx.Operation,
		Euro:        tx.Euro,
		Kind:        tx.Kind,
		Category:    tx.Category,
		Subcategory: tx.Subcategory,
		Description: tx.Description,
	}
}

// ToTransactionListResponse converts every row of a table, in order
func ToTransactionListResponse(t domain.Table) []TransactionResponse {
	out := make([]TransactionResponse, 0, t.Len())
	t.Each(func(tx domain.Transaction) {
		out = append(out, ToTransactionResponse(tx))
	})
	return out
}

// ToFilterChoicesResponse converts filter choices to a DTO response
func ToFilterChoicesResponse(c domain.FilterChoices) FilterChoicesResponse {
	resp := FilterChoicesResponse{
		Categories:    nonNil(c.Categories),
		Subcategories: nonNil(c.Subcategories),
		Operations:    nonNil(c.Operations),
	}
	if c.From != nil {
		resp.From = c.From.String()
	}
	if c.To != nil {
		resp.To = c.To.String()
	}
	return resp
}

// ToStatementResponse converts a parsed statement to a DTO response
func ToStatementResponse(s *domain.Statement) StatementResponse {
	return StatementResponse{
		Vendor:       s.Vendor,
		RowCount:     s.Table.Len(),
		SkippedCount: len(s.Skipped),
		Skipped:      nonNil(s.Skipped),
		Choices:      ToFilterChoicesResponse(s.Choices),
		Transactions: ToTransactionListResponse(s.Table),
	}
}

// ToTotalsResponse converts headline totals to a DTO response
func ToTotalsResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Earnings:        t.Earnings,
		Expenses:        t.Expenses,
		Net:             t.Net,
		EarningsDisplay: utils.FormatEuro(t.Earnings),
		ExpensesDisplay: utils.FormatEuro(t.Expenses),
		NetDisplay:      utils.FormatEuro(t.Net),
	}
}

// ToDashboardResponse converts a dashboard to a DTO response
func ToDashboardResponse(d *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		Vendor:       d.Vendor,
		Granularity:  d.Granularity,
		Totals:       ToTotalsResponse(d.Totals),
		Choices:      ToFilterChoicesResponse(d.Choices),
		Charts:       nonNil(d.Charts),
		RowCount:     d.Transactions.Len(),
		SkippedCount: len(d.Skipped),
		Transactions: ToTransactionListResponse(d.Transactions),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
