package infra

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ADMIN_API_TOKEN", "test-token")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("FETCH_INTERVAL", "")
	t.Setenv("CACHE_TTL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "5000")
	}
	if cfg.FetchInterval != 15*time.Minute {
		t.Fatalf("FetchInterval mismatch: got %v", cfg.FetchInterval)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Fatalf("CacheTTL mismatch: got %v", cfg.CacheTTL)
	}
	if cfg.FetchConcurrency != 2 {
		t.Fatalf("FetchConcurrency mismatch: got %d", cfg.FetchConcurrency)
	}
	if cfg.GamesBaseURL != "https://games.roblox.com" {
		t.Fatalf("GamesBaseURL mismatch: got %q", cfg.GamesBaseURL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FETCH_INTERVAL", "5m")
	t.Setenv("PERSIST_INTERVAL", "6h")
	t.Setenv("BATCH_DELAY", "250ms")
	t.Setenv("GAMES_BASE_URL", "http://127.0.0.1:9999")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.FetchInterval != 5*time.Minute {
		t.Fatalf("FetchInterval mismatch: got %v", cfg.FetchInterval)
	}
	if cfg.PersistInterval != 6*time.Hour {
		t.Fatalf("PersistInterval mismatch: got %v", cfg.PersistInterval)
	}
	if cfg.BatchDelay != 250*time.Millisecond {
		t.Fatalf("BatchDelay mismatch: got %v", cfg.BatchDelay)
	}
	if cfg.GamesBaseURL != "http://127.0.0.1:9999" {
		t.Fatalf("GamesBaseURL mismatch: got %q", cfg.GamesBaseURL)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_API_TOKEN", "test-token")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadConfigRequiresAdminToken(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("ADMIN_API_TOKEN", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing ADMIN_API_TOKEN")
	}
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", " https://example.com , https://www.example.com ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"https://example.com", "https://www.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins length mismatch: %#v", cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigInvalidDurationFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_TTL", "not-a-duration")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Fatalf("CacheTTL fallback mismatch: got %v", cfg.CacheTTL)
	}
}
