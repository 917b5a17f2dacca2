package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/statement_dashboard/internal/adapters/tabular"
	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/charts"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/SscSPs/statement_dashboard/internal/core/filters"
	"github.com/SscSPs/statement_dashboard/internal/core/metrics"
	portssvc "github.com/SscSPs/statement_dashboard/internal/core/ports/services"
	"github.com/SscSPs/statement_dashboard/internal/core/statements"
	"github.com/SscSPs/statement_dashboard/internal/platform/cache"
	"github.com/SscSPs/statement_dashboard/internal/platform/observability"
)

// dashboardService implements the DashboardService interface
type dashboardService struct {
	BaseService
	registry         *statements.Registry
	parsed           *cache.Cache[*statements.Result]
	metrics          *observability.Metrics
	rules            []statements.Rule
	normalize        bool
	plotHeight       int
	topK             int
	vendorOperations []string
}

// DashboardServiceOption is a functional option for configuring the dashboard service
type DashboardServiceOption func(*dashboardService)

// WithStatementCache memoizes parsed statements by upload content.
func WithStatementCache(c *cache.Cache[*statements.Result]) DashboardServiceOption {
	return func(s *dashboardService) {
		s.parsed = c
	}
}

// WithMetrics records parse and build metrics.
func WithMetrics(m *observability.Metrics) DashboardServiceOption {
	return func(s *dashboardService) {
		s.metrics = m
	}
}

// WithNormalizationRules replaces the default normalization rules.
func WithNormalizationRules(rules ...statements.Rule) DashboardServiceOption {
	return func(s *dashboardService) {
		s.rules = rules
	}
}

// WithNormalizationByDefault applies the normalization rules when a request
// does not say otherwise.
func WithNormalizationByDefault(enabled bool) DashboardServiceOption {
	return func(s *dashboardService) {
		s.normalize = enabled
	}
}

func WithDefaultPlotHeight(h int) DashboardServiceOption {
	return func(s *dashboardService) {
		s.plotHeight = h
	}
}

func WithDefaultTopK(k int) DashboardServiceOption {
	return func(s *dashboardService) {
		s.topK = k
	}
}

// WithVendorOperations sets the operations that get their own vendor ranking.
func WithVendorOperations(ops ...string) DashboardServiceOption {
	return func(s *dashboardService) {
		s.vendorOperations = ops
	}
}

// NewDashboardService creates a new dashboard service with the provided options
func NewDashboardService(registry *statements.Registry, options ...DashboardServiceOption) portssvc.DashboardService {
	svc := &dashboardService{
		registry:         registry,
		rules:            statements.DefaultRules(),
		plotHeight:       charts.DefaultHeight,
		topK:             charts.DefaultTopK,
		vendorOperations: charts.DefaultVendorOperations(),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure dashboardService implements the DashboardService interface
var _ portssvc.DashboardService = (*dashboardService)(nil)

func (s *dashboardService) ListVendors(ctx context.Context) []string {
	vendors := s.registry.Vendors()
	out := make([]string, len(vendors))
	for i, v := range vendors {
		out[i] = string(v)
	}
	return out
}

// ParseStatement reads an upload with the vendor's adapter, then applies
// normalization when requested. The adapter output is cached by content.
func (s *dashboardService) ParseStatement(ctx context.Context, cmd portssvc.ParseStatementCmd) (*domain.Statement, error) {
	adapter, err := s.registry.Lookup(cmd.Vendor)
	if err != nil {
		s.LogDebug(ctx, "Unknown statement vendor requested", slog.String("vendor", cmd.Vendor))
		return nil, err
	}

	load := func(ctx context.Context) (*statements.Result, error) {
		raw, err := tabular.Read(cmd.Content, adapter.CellLayout(), adapter.RequiredColumns()...)
		if err != nil {
			var pe *apperrors.ParseError
			if errors.As(err, &pe) && pe.Vendor == "" {
				pe.Vendor = cmd.Vendor
			}
			return nil, err
		}
		return adapter.Parse(raw)
	}

	var res *statements.Result
	if s.parsed != nil {
		key := cache.Key(cmd.Content, cmd.Vendor, strconv.Itoa(int(s.registry.WeekStart())))
		var hit bool
		res, hit, err = s.parsed.GetOrLoad(ctx, key, load)
		if err == nil {
			s.metrics.ObserveCache(hit)
		}
		if hit {
			s.LogDebug(ctx, "Parsed statement served from cache", slog.String("vendor", cmd.Vendor))
		}
	} else {
		res, err = load(ctx)
	}
	if err != nil {
		s.metrics.ObserveParse(cmd.Vendor, 0, 0, err)
		s.LogError(ctx, err, "Failed to parse statement",
			slog.String("vendor", cmd.Vendor),
			slog.Int("size_bytes", len(cmd.Content)))
		return nil, fmt.Errorf("failed to parse %s statement: %w", cmd.Vendor, err)
	}
	s.metrics.ObserveParse(cmd.Vendor, res.Table.Len(), res.SkippedCount(), nil)

	table := res.Table
	normalize := s.normalize
	if cmd.Normalize != nil {
		normalize = *cmd.Normalize
	}
	if normalize {
		table = statements.Normalize(table, s.rules...)
	}

	if res.SkippedCount() > 0 {
		s.LogWarn(ctx, "Statement rows skipped during coercion",
			slog.String("vendor", cmd.Vendor),
			slog.Int("skipped", res.SkippedCount()))
	}
	s.LogInfo(ctx, "Statement parsed successfully",
		slog.String("vendor", cmd.Vendor),
		slog.Int("row_count", table.Len()),
		slog.Bool("normalized", normalize))

	return &domain.Statement{
		Vendor:  cmd.Vendor,
		Table:   table,
		Skipped: res.Skipped,
		Choices: filters.Choices(table),
	}, nil
}

// BuildDashboard parses the upload, filters it and computes every chart.
func (s *dashboardService) BuildDashboard(ctx context.Context, q portssvc.DashboardQuery) (*domain.Dashboard, error) {
	granularity := q.Granularity
	if granularity == "" {
		granularity = domain.Month
	}
	if !granularity.Valid() {
		return nil, fmt.Errorf("granularity %q: %w", granularity, apperrors.ErrValidation)
	}
	if q.TopK < 0 {
		return nil, fmt.Errorf("top k must not be negative: %w", apperrors.ErrValidation)
	}

	stmt, err := s.ParseStatement(ctx, q.ParseStatementCmd)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	criteria := filters.Criteria{From: q.From, To: q.To, Values: map[domain.Column][]string{}}
	for col, values := range map[domain.Column][]string{
		domain.ColumnCategory:    q.Categories,
		domain.ColumnSubcategory: q.Subcategories,
		domain.ColumnOperation:   q.Operations,
	} {
		if values != nil {
			criteria.Values[col] = values
		}
	}
	filtered, err := criteria.Apply(stmt.Table)
	if err != nil {
		s.LogDebug(ctx, "Rejected dashboard filters", slog.String("error", err.Error()))
		return nil, err
	}

	height := q.PlotHeight
	if height == 0 {
		height = s.plotHeight
	}
	topK := q.TopK
	if topK == 0 {
		topK = s.topK
	}
	built, err := charts.Build(filtered, charts.Options{
		Granularity:      granularity,
		Height:           height,
		TopK:             topK,
		VendorOperations: s.vendorOperations,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to build dashboard charts", slog.String("vendor", q.Vendor))
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	s.metrics.ObserveBuild(string(granularity), time.Since(start))

	s.LogInfo(ctx, "Dashboard built successfully",
		slog.String("vendor", q.Vendor),
		slog.String("granularity", string(granularity)),
		slog.Int("row_count", filtered.Len()),
		slog.Int("chart_count", len(built)))

	return &domain.Dashboard{
		Vendor:       stmt.Vendor,
		Granularity:  granularity,
		Totals:       metrics.Totals(filtered),
		Choices:      stmt.Choices,
		Charts:       built,
		Transactions: filtered,
		Skipped:      stmt.Skipped,
	}, nil
}
