package handlers

import (
	"fmt"
	"net/http"

	portssvc "github.com/SscSPs/statement_dashboard/internal/core/ports/services"
	"github.com/SscSPs/statement_dashboard/internal/middleware"
	"github.com/SscSPs/statement_dashboard/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil metricsHandler leaves /metrics unregistered.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	metricsHandler http.Handler,
) error {
	if err := registerValidators(); err != nil {
		return fmt.Errorf("registering validators: %w", err)
	}

	registerRootRoutes(r)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	uploadLimiter, err := middleware.NewIPLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	v1 := r.Group("/api/v1")
	registerDashboardRoutes(v1, services.Dashboard, cfg.MaxUploadBytes, middleware.RateLimit(uploadLimiter))
	return nil
}
