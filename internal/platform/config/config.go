package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	LogLevel       slog.Level
	MaxUploadBytes int64
	RateLimit      string   // ulule/limiter formatted rate, e.g. "30-M"
	AllowedOrigins []string // CORS origins; empty allows any origin outside production

	// Dashboard defaults
	DefaultPlotHeight  int
	TopK               int
	WeekStart          time.Weekday
	ApplyNormalization bool
	CacheSize          int
	VendorOperations   []string // operations that get their own vendor ranking chart
}

const (
	defaultPort           = "8080"
	defaultMaxUploadBytes = 10 << 20
	defaultRateLimit      = "30-M"
	defaultPlotHeight     = 500
	defaultTopK           = 20
	defaultCacheSize      = 32
	defaultVendorOps      = "Pagamento POS,Pagamenti OnLine"
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("DEFAULT_PLOT_HEIGHT", defaultPlotHeight)
	v.SetDefault("TOP_K", defaultTopK)
	v.SetDefault("WEEK_START", "monday")
	v.SetDefault("APPLY_NORMALIZATION", false)
	v.SetDefault("CACHE_SIZE", defaultCacheSize)
	v.SetDefault("VENDOR_OPERATIONS", defaultVendorOps)

	// Environment variables override both defaults and .env values.
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		DefaultPlotHeight:  v.GetInt("DEFAULT_PLOT_HEIGHT"),
		TopK:               v.GetInt("TOP_K"),
		ApplyNormalization: v.GetBool("APPLY_NORMALIZATION"),
		CacheSize:          v.GetInt("CACHE_SIZE"),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	levelStr := v.GetString("LOG_LEVEL")
	if err := cfg.LogLevel.UnmarshalText([]byte(levelStr)); err != nil {
		cfg.LogLevel = slog.LevelInfo
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", levelStr)
	}

	if cfg.MaxUploadBytes <= 0 {
		log.Printf("Warning: Invalid value for MAX_UPLOAD_BYTES (%d). Defaulting to %d.\n", cfg.MaxUploadBytes, defaultMaxUploadBytes)
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		log.Printf("Warning: Invalid value for RATE_LIMIT ('%s'). Defaulting to %s.\n", cfg.RateLimit, defaultRateLimit)
		cfg.RateLimit = defaultRateLimit
	}

	for _, origin := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	for _, op := range strings.Split(v.GetString("VENDOR_OPERATIONS"), ",") {
		if op = strings.TrimSpace(op); op != "" {
			cfg.VendorOperations = append(cfg.VendorOperations, op)
		}
	}

	if cfg.DefaultPlotHeight < 400 || cfg.DefaultPlotHeight > 800 {
		log.Printf("Warning: DEFAULT_PLOT_HEIGHT (%d) outside 400-800. Defaulting to %d.\n", cfg.DefaultPlotHeight, defaultPlotHeight)
		cfg.DefaultPlotHeight = defaultPlotHeight
	}

	if cfg.TopK <= 0 {
		log.Printf("Warning: Invalid value for TOP_K (%d). Defaulting to %d.\n", cfg.TopK, defaultTopK)
		cfg.TopK = defaultTopK
	}

	if cfg.CacheSize <= 0 {
		log.Printf("Warning: Invalid value for CACHE_SIZE (%d). Defaulting to %d.\n", cfg.CacheSize, defaultCacheSize)
		cfg.CacheSize = defaultCacheSize
	}

	weekStartStr := v.GetString("WEEK_START")
	weekStart, ok := domain.ParseWeekday(weekStartStr)
	if !ok {
		log.Printf("Warning: Invalid value for WEEK_START ('%s'). Defaulting to monday.\n", weekStartStr)
		weekStart = time.Monday
	}
	cfg.WeekStart = weekStart

	return cfg
}
