package services

import (
	portssvc "github.com/SscSPs/statement_dashboard/internal/core/ports/services"
	"github.com/SscSPs/statement_dashboard/internal/core/statements"
	"github.com/SscSPs/statement_dashboard/internal/platform/cache"
	"github.com/SscSPs/statement_dashboard/internal/platform/config"
	"github.com/SscSPs/statement_dashboard/internal/platform/observability"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, metrics *observability.Metrics) (*portssvc.ServiceContainer, error) {
	parsed, err := cache.New[*statements.Result](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	registry := statements.NewRegistry(statements.WithWeekStart(cfg.WeekStart))

	container := &portssvc.ServiceContainer{}
	container.Dashboard = NewDashboardService(
		registry,
		WithStatementCache(parsed),
		WithMetrics(metrics),
		WithDefaultPlotHeight(cfg.DefaultPlotHeight),
		WithDefaultTopK(cfg.TopK),
		WithNormalizationByDefault(cfg.ApplyNormalization),
		WithVendorOperations(cfg.VendorOperations...),
	)
	return container, nil
}
