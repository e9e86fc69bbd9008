package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("EXCHANGE_RATE_TIMEOUT", "")
	t.Setenv("EXCHANGE_RATE_FALLBACK", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	if cfg.Port != "5000" {
		t.Fatalf("port: got=%q want=%q", cfg.Port, "5000")
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("driver: got=%q want=%q", cfg.DBDriver, "postgres")
	}
	if cfg.ExchangeRateTimeout != 5*time.Second {
		t.Fatalf("timeout: got=%v", cfg.ExchangeRateTimeout)
	}
	if cfg.ExchangeRateFallback != 83 {
		t.Fatalf("fallback: got=%v want=83", cfg.ExchangeRateFallback)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("cors: got=%v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("EXCHANGE_RATE_TIMEOUT", "750ms")
	t.Setenv("EXCHANGE_RATE_FALLBACK", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("driver: got=%q", cfg.DBDriver)
	}
	if cfg.ExchangeRateTimeout != 750*time.Millisecond {
		t.Fatalf("timeout: got=%v", cfg.ExchangeRateTimeout)
	}
	if cfg.ExchangeRateFallback != 83 {
		t.Fatalf("invalid fallback should keep default, got=%v", cfg.ExchangeRateFallback)
	}
	if !cfg.CookieSecure {
		t.Fatalf("cookie secure: want true")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("cors: got=%v", cfg.CORSOrigins)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
}
