package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port    string
	Env     string
	LogMode string

	DBDriver string
	DBDSN    string

	JWTSecret    string
	CookieSecure bool
	CORSOrigins  []string

	UploadDir string

	ExchangeRateURL      string
	ExchangeRateTimeout  time.Duration
	ExchangeRateFallback float64

	GeminiAPIKey string
	GeminiModel  string
}

// Load reads a .env file when one exists, then the process environment.
// Explicit env vars win over .env values.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment")
	}

	cfg := Config{
		Port:    getEnv("PORT", "5000"),
		Env:     getEnv("APP_ENV", "development"),
		LogMode: getEnv("LOG_MODE", "dev"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBDSN:    os.Getenv("DB_DSN"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		CookieSecure: getBool("COOKIE_SECURE", false),
		CORSOrigins:  getList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		ExchangeRateURL:      getEnv("EXCHANGE_RATE_URL", "https://api.exchangerate-api.com/v4/latest/USD"),
		ExchangeRateTimeout:  getDuration("EXCHANGE_RATE_TIMEOUT", 5*time.Second),
		ExchangeRateFallback: getFloat("EXCHANGE_RATE_FALLBACK", 83),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
	}
	return cfg
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: invalid boolean for %s: %s", key, v)
		return def
	}
	return b
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("config: invalid number for %s: %s", key, v)
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: invalid duration for %s: %s", key, v)
		return def
	}
	return d
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
