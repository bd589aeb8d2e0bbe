package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	AdminAPIToken  string
	AllowedOrigins []string
	GeoIPDBPath    string

	// Upstream platform API endpoints. Overridable for tests and proxies.
	GamesBaseURL      string
	GroupsBaseURL     string
	ThumbnailsBaseURL string

	FetchTimeout     time.Duration
	FetchMaxRetries  int
	FetchConcurrency int
	BatchDelay       time.Duration
	RetryBaseDelay   time.Duration

	CacheTTL        time.Duration
	FetchInterval   time.Duration
	PersistInterval time.Duration
	StartupDelay    time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	RateLimitPerWindow int
	RateLimitWindow    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "5000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AdminAPIToken:  os.Getenv("ADMIN_API_TOKEN"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:5000")),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),

		GamesBaseURL:      getEnv("GAMES_BASE_URL", "https://games.roblox.com"),
		GroupsBaseURL:     getEnv("GROUPS_BASE_URL", "https://groups.roblox.com"),
		ThumbnailsBaseURL: getEnv("THUMBNAILS_BASE_URL", "https://thumbnails.roblox.com"),

		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		FetchMaxRetries:  getEnvInt("FETCH_MAX_RETRIES", 3),
		FetchConcurrency: getEnvInt("FETCH_CONCURRENCY", 2),
		BatchDelay:       getEnvDuration("BATCH_DELAY", 2*time.Second),
		RetryBaseDelay:   getEnvDuration("RETRY_BASE_DELAY", time.Second),

		CacheTTL:        getEnvDuration("CACHE_TTL", 15*time.Minute),
		FetchInterval:   getEnvDuration("FETCH_INTERVAL", 15*time.Minute),
		PersistInterval: getEnvDuration("PERSIST_INTERVAL", 24*time.Hour),
		StartupDelay:    getEnvDuration("STARTUP_DELAY", 5*time.Second),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),

		RateLimitPerWindow: getEnvInt("RATE_LIMIT_PER_WINDOW", 100),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.AdminAPIToken == "" {
		return nil, fmt.Errorf("ADMIN_API_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
