package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/statement_dashboard/internal/core/services"
	"github.com/SscSPs/statement_dashboard/internal/handlers"
	"github.com/SscSPs/statement_dashboard/internal/middleware"
	"github.com/SscSPs/statement_dashboard/internal/platform/config"
	"github.com/SscSPs/statement_dashboard/internal/platform/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Statement Dashboard API
// @version 1.0
// @description Normalizes bank statement exports and aggregates them into dashboard charts.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if corsCfg, ok := corsConfig(cfg); ok {
		r.Use(cors.New(corsCfg))
	} else {
		logger.Warn("No allowed origins configured, cross-origin requests are disabled")
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	container, err := services.NewServiceContainer(cfg, metrics)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container, metrics.Handler()); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.Bool("production", cfg.IsProduction),
		slog.Int64("max_upload_bytes", cfg.MaxUploadBytes),
		slog.String("rate_limit", cfg.RateLimit),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// corsConfig reports false when no origin may be allowed (production without
// ALLOWED_ORIGINS).
func corsConfig(cfg *config.Config) (cors.Config, bool) {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	switch {
	case len(cfg.AllowedOrigins) > 0:
		c.AllowOrigins = cfg.AllowedOrigins
	case !cfg.IsProduction:
		c.AllowAllOrigins = true
	default:
		return c, false
	}
	return c, true
}
