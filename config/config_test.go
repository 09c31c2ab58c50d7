package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdirTemp moves into an empty temp directory so no config.yaml or .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	tempDir := t.TempDir()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
	return tempDir
}

func TestLoad(t *testing.T) {
	t.Run("loads defaults", func(t *testing.T) {
		chdirTemp(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Catalog.Location != "./data/allProducts_company_color_hex.csv" {
			t.Errorf("Catalog.Location = %s", cfg.Catalog.Location)
		}
		if cfg.Catalog.ProductBaseURL != "https://www.kicks.no" {
			t.Errorf("Catalog.ProductBaseURL = %s, want https://www.kicks.no", cfg.Catalog.ProductBaseURL)
		}
		if cfg.Catalog.Timeout != 30*time.Second {
			t.Errorf("Catalog.Timeout = %s, want 30s", cfg.Catalog.Timeout)
		}
		if cfg.Catalog.CacheTTL != 0 {
			t.Errorf("Catalog.CacheTTL = %s, want 0", cfg.Catalog.CacheTTL)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Matching.QuotaPerCategory != 50 {
			t.Errorf("Matching.QuotaPerCategory = %d, want 50", cfg.Matching.QuotaPerCategory)
		}
		if len(cfg.Matching.Categories) != 5 {
			t.Errorf("len(Matching.Categories) = %d, want 5", len(cfg.Matching.Categories))
		}
		if cfg.Session.TTL != 24*time.Hour {
			t.Errorf("Session.TTL = %s, want 24h", cfg.Session.TTL)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v, want info/json", cfg.Log)
		}
	})

	t.Run("loads from environment variables", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("COLORMATCH_SERVER_PORT", "3000")
		t.Setenv("COLORMATCH_CATALOG_LOCATION", "https://example.com/catalog.csv")
		t.Setenv("COLORMATCH_CATALOG_TIMEOUT", "5s")
		t.Setenv("COLORMATCH_MATCHING_QUOTA_PER_CATEGORY", "10")
		t.Setenv("COLORMATCH_RATELIMIT_PER_IP", "30")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != "3000" {
			t.Errorf("Server.Port = %s, want 3000", cfg.Server.Port)
		}
		if cfg.Catalog.Location != "https://example.com/catalog.csv" {
			t.Errorf("Catalog.Location = %s", cfg.Catalog.Location)
		}
		if cfg.Catalog.Timeout != 5*time.Second {
			t.Errorf("Catalog.Timeout = %s, want 5s", cfg.Catalog.Timeout)
		}
		if cfg.Matching.QuotaPerCategory != 10 {
			t.Errorf("Matching.QuotaPerCategory = %d, want 10", cfg.Matching.QuotaPerCategory)
		}
		if cfg.RateLimit.PerIP != 30 {
			t.Errorf("RateLimit.PerIP = %d, want 30", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads from config file", func(t *testing.T) {
		dir := chdirTemp(t)
		content := `
catalog:
  location: /srv/catalog.csv
  static_path: /srv/catalog.csv
matching:
  categories: [Lipstick, Blush]
log:
  format: console
`
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Catalog.Location != "/srv/catalog.csv" {
			t.Errorf("Catalog.Location = %s, want /srv/catalog.csv", cfg.Catalog.Location)
		}
		if cfg.Catalog.StaticRoute != "/allProducts_company_color_hex.csv" {
			t.Errorf("Catalog.StaticRoute = %s", cfg.Catalog.StaticRoute)
		}
		if len(cfg.Matching.Categories) != 2 {
			t.Errorf("Matching.Categories = %v, want 2 entries", cfg.Matching.Categories)
		}
		if cfg.Log.Format != "console" {
			t.Errorf("Log.Format = %s, want console", cfg.Log.Format)
		}
	})

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid cache type",
			env:     map[string]string{"COLORMATCH_CACHE_TYPE": "invalid"},
			wantErr: "cache type must be",
		},
		{
			name:    "redis without URL",
			env:     map[string]string{"COLORMATCH_CACHE_TYPE": "redis"},
			wantErr: "Redis URL is required",
		},
		{
			name:    "non-positive quota",
			env:     map[string]string{"COLORMATCH_MATCHING_QUOTA_PER_CATEGORY": "0"},
			wantErr: "quota_per_category must be positive",
		},
		{
			name:    "zero retries",
			env:     map[string]string{"COLORMATCH_CATALOG_MAX_RETRIES": "0"},
			wantErr: "max_retries must be at least 1",
		},
		{
			name:    "unknown log format",
			env:     map[string]string{"COLORMATCH_LOG_FORMAT": "xml"},
			wantErr: "log format must be",
		},
	}

	for _, tt := range tests {
		t.Run("fails validation for "+tt.name, func(t *testing.T) {
			chdirTemp(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("returns empty path when no file exists", func(t *testing.T) {
		chdirTemp(t)

		path, err := LoadDotEnv()
		if err != nil {
			t.Errorf("LoadDotEnv() error = %v, want nil when file doesn't exist", err)
		}
		if path != "" {
			t.Errorf("LoadDotEnv() path = %q, want empty", path)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		chdirTemp(t)
		envContent := `
# Comment line
COLORMATCH_TEST_VAR_1=value1

COLORMATCH_TEST_VAR_2=value2
# COLORMATCH_TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0o644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		// Register cleanup of variables godotenv will set.
		t.Setenv("COLORMATCH_TEST_VAR_1", "")
		t.Setenv("COLORMATCH_TEST_VAR_2", "")
		os.Unsetenv("COLORMATCH_TEST_VAR_1")
		os.Unsetenv("COLORMATCH_TEST_VAR_2")

		path, err := LoadDotEnv()
		if err != nil {
			t.Fatalf("LoadDotEnv() error = %v, want nil", err)
		}
		if path != ".env" {
			t.Errorf("LoadDotEnv() path = %q, want .env", path)
		}
		if os.Getenv("COLORMATCH_TEST_VAR_1") != "value1" {
			t.Errorf("COLORMATCH_TEST_VAR_1 = %s, want value1", os.Getenv("COLORMATCH_TEST_VAR_1"))
		}
		if os.Getenv("COLORMATCH_TEST_VAR_2") != "value2" {
			t.Errorf("COLORMATCH_TEST_VAR_2 = %s, want value2", os.Getenv("COLORMATCH_TEST_VAR_2"))
		}
		if os.Getenv("COLORMATCH_TEST_COMMENTED") != "" {
			t.Errorf("COLORMATCH_TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("does not override existing variables", func(t *testing.T) {
		chdirTemp(t)
		if err := os.WriteFile("local.env", []byte("COLORMATCH_TEST_KEEP=from-file\n"), 0o644); err != nil {
			t.Fatalf("Failed to create test env file: %v", err)
		}
		t.Setenv("COLORMATCH_TEST_KEEP", "from-env")

		if _, err := LoadDotEnv("missing.env", "local.env"); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}
		if got := os.Getenv("COLORMATCH_TEST_KEEP"); got != "from-env" {
			t.Errorf("COLORMATCH_TEST_KEEP = %s, want from-env", got)
		}
	})
}
