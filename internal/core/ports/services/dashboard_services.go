package services

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
)

// ParseStatementCmd is an uploaded export to be read with one vendor adapter.
type ParseStatementCmd struct {
	Vendor    string
	Content   []byte
	Normalize *bool // apply the normalization rules; nil uses the service default
}

// DashboardQuery selects the rows and shape of a dashboard. A nil value set
// means every observed value; a non-nil empty set selects nothing.
type DashboardQuery struct {
	ParseStatementCmd
	From          *civil.Date
	To            *civil.Date
	Categories    []string
	Subcategories []string
	Operations    []string
	Granularity   domain.Granularity
	PlotHeight    int
	TopK          int
}

// StatementReader parses uploads into canonical tables.
type StatementReader interface {
	// ListVendors returns the registered vendor names, sorted.
	ListVendors(ctx context.Context) []string
	ParseStatement(ctx context.Context, cmd ParseStatementCmd) (*domain.Statement, error)
}

// DashboardBuilder filters a parsed statement and aggregates it into charts.
type DashboardBuilder interface {
	BuildDashboard(ctx context.Context, q DashboardQuery) (*domain.Dashboard, error)
}

// DashboardService is the facade used by the HTTP layer.
type DashboardService interface {
	StatementReader
	DashboardBuilder
}
