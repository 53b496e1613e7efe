package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DateLayout is the calendar-day layout used for history windows and cache keys
const DateLayout = "2006-01-02"

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production, test

	// Redis (optional shared rate limiter for outbound data-source calls)
	Redis RedisConfig

	// External data source
	Yahoo YahooConfig

	// Market data cache
	Cache CacheConfig

	// Request orchestration
	Gallery GalleryConfig

	// Chart rendering
	Chart ChartConfig

	// Scheduled jobs
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance endpoint configuration
type YahooConfig struct {
	ChartURL   string
	RatePerSec int
	Timeout    time.Duration
}

// CacheConfig holds the market data cache bounds
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// GalleryConfig holds request orchestration limits
type GalleryConfig struct {
	Workers      int
	MaxCompanies int
	HistoryStart time.Time
}

// ChartConfig holds rendered image dimensions in pixels
type ChartConfig struct {
	WidthPx  int
	HeightPx int
}

// SchedulerConfig holds cron expressions for background jobs
type SchedulerConfig struct {
	CacheCleanup  string
	WarmSchedule  string
	WarmCompanies []string
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	historyStart, err := time.Parse(DateLayout, getEnv("HISTORY_START", "2000-01-01"))
	if err != nil {
		return nil, fmt.Errorf("parse HISTORY_START: %w", err)
	}

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Yahoo: YahooConfig{
			ChartURL:   getEnv("YAHOO_CHART_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			RatePerSec: getEnvAsInt("YAHOO_RATE_PER_SEC", 5),
			Timeout:    getEnvAsDuration("YAHOO_TIMEOUT", "30s"),
		},

		Cache: CacheConfig{
			TTL:        getEnvAsDuration("CACHE_TTL", "24h"),
			MaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 100),
		},

		Gallery: GalleryConfig{
			Workers:      getEnvAsInt("GALLERY_WORKERS", 8),
			MaxCompanies: getEnvAsInt("MAX_COMPANIES", 7),
			HistoryStart: historyStart,
		},

		Chart: ChartConfig{
			WidthPx:  getEnvAsInt("CHART_WIDTH_PX", 1600),
			HeightPx: getEnvAsInt("CHART_HEIGHT_PX", 1000),
		},

		Scheduler: SchedulerConfig{
			CacheCleanup:  getEnv("CACHE_CLEANUP_SCHEDULE", "0 */10 * * * *"),
			WarmSchedule:  getEnv("WARM_SCHEDULE", "0 30 21 * * 1-5"),
			WarmCompanies: getEnvAsList("WARM_COMPANIES"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	switch c.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENV must be one of: development, staging, production, test")
	}

	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	if c.Gallery.Workers <= 0 {
		return fmt.Errorf("GALLERY_WORKERS must be positive, got %d", c.Gallery.Workers)
	}
	if c.Gallery.MaxCompanies <= 0 {
		return fmt.Errorf("MAX_COMPANIES must be positive, got %d", c.Gallery.MaxCompanies)
	}
	if c.Chart.WidthPx <= 0 || c.Chart.HeightPx <= 0 {
		return fmt.Errorf("chart dimensions must be positive, got %dx%d", c.Chart.WidthPx, c.Chart.HeightPx)
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value; company names may contain spaces
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(valueStr, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
