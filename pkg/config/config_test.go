package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}

	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Expected cache TTL to be 24h, got %v", cfg.Cache.TTL)
	}

	if cfg.Cache.MaxEntries != 100 {
		t.Errorf("Expected cache capacity to be 100, got %d", cfg.Cache.MaxEntries)
	}

	if cfg.Gallery.MaxCompanies != 7 {
		t.Errorf("Expected MaxCompanies to be 7, got %d", cfg.Gallery.MaxCompanies)
	}

	want := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.Gallery.HistoryStart.Equal(want) {
		t.Errorf("Expected HistoryStart %v, got %v", want, cfg.Gallery.HistoryStart)
	}

	if cfg.Redis.Enabled {
		t.Error("Expected Redis to be disabled by default")
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("CACHE_MAX_ENTRIES", "50")
	t.Setenv("GALLERY_WORKERS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WARM_COMPANIES", "Kinder Morgan, Williams Cos ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Cache.MaxEntries != 50 {
		t.Errorf("Expected cache capacity to be 50, got %d", cfg.Cache.MaxEntries)
	}

	if cfg.Gallery.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.Gallery.Workers)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}

	if len(cfg.Scheduler.WarmCompanies) != 2 || cfg.Scheduler.WarmCompanies[1] != "Williams Cos" {
		t.Errorf("Unexpected warm companies: %q", cfg.Scheduler.WarmCompanies)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	if _, err := Load(); err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateNonPositiveCapacity(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CACHE_MAX_ENTRIES", "0")

	if _, err := Load(); err == nil {
		t.Error("Expected error when CACHE_MAX_ENTRIES is 0, got nil")
	}
}

func TestInvalidHistoryStart(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("HISTORY_START", "01/01/2000")

	if _, err := Load(); err == nil {
		t.Error("Expected error for malformed HISTORY_START, got nil")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	if duration != 2*time.Hour {
		t.Errorf("Expected duration to be 2h, got %v", duration)
	}

	t.Setenv("TEST_DURATION", "soon")
	if got := getEnvAsDuration("TEST_DURATION", "1h"); got != time.Hour {
		t.Errorf("Expected fallback to 1h, got %v", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "100")

	if value := getEnvAsInt("TEST_INT", 50); value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}

	t.Setenv("TEST_INT", "abc")
	if value := getEnvAsInt("TEST_INT", 50); value != 50 {
		t.Errorf("Expected fallback 50, got %d", value)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")

	if value := getEnvAsBool("TEST_BOOL", false); !value {
		t.Error("Expected value to be true, got false")
	}
}
