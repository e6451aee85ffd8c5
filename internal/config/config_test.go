package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APITimeout != 6000000*time.Millisecond {
		t.Fatalf("unexpected api timeout: %v", cfg.APITimeout)
	}
	if cfg.APIContentType != "application/json" {
		t.Fatalf("unexpected content type: %q", cfg.APIContentType)
	}
	if cfg.HarvestInterval != 300*time.Second {
		t.Fatalf("unexpected harvest interval: %v", cfg.HarvestInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://tcmc.example.com/admin-api")
	t.Setenv("API_TIMEOUT_MS", "1500")
	t.Setenv("SESSION_PAGE_SIZE", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://tcmc.example.com/admin-api" {
		t.Fatalf("unexpected base url: %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected api timeout: %v", cfg.APITimeout)
	}
	if cfg.SessionPageSize != 20 {
		t.Fatalf("unexpected page size: %d", cfg.SessionPageSize)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT_MS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero api timeout")
	}
}
