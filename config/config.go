package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Session   SessionConfig   `mapstructure:"session"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig describes where the color catalog comes from
type CatalogConfig struct {
	// Location is an http(s) URL or a filesystem path
	Location          string        `mapstructure:"location"`
	ProductBaseURL    string        `mapstructure:"product_base_url"`
	StaticPath        string        `mapstructure:"static_path"`
	StaticRoute       string        `mapstructure:"static_route"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	// CacheTTL of zero re-reads the catalog on every match
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string `mapstructure:"type"` // "memory" or "redis"
	RedisURL string `mapstructure:"redis_url"`
}

// MatchingConfig holds color matching configuration
type MatchingConfig struct {
	QuotaPerCategory   int      `mapstructure:"quota_per_category"`
	Categories         []string `mapstructure:"categories"`
	EnableDebugLogging bool     `mapstructure:"enable_debug_logging"`
}

// SessionConfig holds match session configuration
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// LoadDotEnv loads the first .env file found among paths (default ".env").
// Variables already present in the environment are not overridden.
func LoadDotEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("error loading %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/colormatch/")

	// Environment variable settings: COLORMATCH_CATALOG_LOCATION -> catalog.location
	v.SetEnvPrefix("COLORMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})

	// Catalog defaults
	v.SetDefault("catalog.location", "./data/allProducts_company_color_hex.csv")
	v.SetDefault("catalog.product_base_url", "https://www.kicks.no")
	v.SetDefault("catalog.static_path", "")
	v.SetDefault("catalog.static_route", "/allProducts_company_color_hex.csv")
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.max_retries", 3)
	v.SetDefault("catalog.requests_per_second", 5)
	v.SetDefault("catalog.cache_ttl", "0s")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")

	// Matching defaults
	v.SetDefault("matching.quota_per_category", 50)
	v.SetDefault("matching.categories", []string{"Lipstick", "Nail Polish", "Lip Liner", "Bronzer", "Blush"})
	v.SetDefault("matching.enable_debug_logging", false)

	// Session defaults
	v.SetDefault("session.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Catalog.Location) == "" {
		return fmt.Errorf("catalog location is required (set COLORMATCH_CATALOG_LOCATION)")
	}

	if config.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive, got: %s", config.Catalog.Timeout)
	}

	if config.Catalog.MaxRetries < 1 {
		return fmt.Errorf("catalog max_retries must be at least 1, got: %d", config.Catalog.MaxRetries)
	}

	if config.Catalog.CacheTTL < 0 {
		return fmt.Errorf("catalog cache_ttl must not be negative, got: %s", config.Catalog.CacheTTL)
	}

	if config.Catalog.StaticPath != "" && !strings.HasPrefix(config.Catalog.StaticRoute, "/") {
		return fmt.Errorf("catalog static_route must start with '/', got: %q", config.Catalog.StaticRoute)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Matching.QuotaPerCategory <= 0 {
		return fmt.Errorf("matching quota_per_category must be positive, got: %d", config.Matching.QuotaPerCategory)
	}

	if len(config.Matching.Categories) == 0 {
		return fmt.Errorf("at least one matching category is required")
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
