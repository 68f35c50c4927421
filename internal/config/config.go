package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Human verification configuration
	Verification VerificationConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Storage configuration shared by both backends
	Storage StorageConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// DatabaseConfig holds durable store connection settings.
// An empty or placeholder URL selects the in-memory fallback.
type DatabaseConfig struct {
	URL            string        `env:"DATABASE_URL"`
	MaxOpenConns   int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns   int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxLifetime    time.Duration `env:"DB_MAX_LIFETIME" envDefault:"5m"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" envDefault:"./migrations"`
}

// VerificationConfig holds the human-verification provider settings
type VerificationConfig struct {
	Secret  string        `env:"VERIFY_SECRET"`
	URL     string        `env:"VERIFY_URL" envDefault:"https://challenges.cloudflare.com/turnstile/v0/siteverify"`
	Timeout time.Duration `env:"VERIFY_TIMEOUT" envDefault:"5s"`
}

// RateLimitConfig holds fixed-window limiter policy
type RateLimitConfig struct {
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"5m"`
	MaxRequests   int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	SweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL" envDefault:"1m"`
}

// StorageConfig holds settings that apply regardless of backend
type StorageConfig struct {
	Timeout     time.Duration `env:"STORAGE_TIMEOUT" envDefault:"5s"`
	MemoryCap   int           `env:"MEMORY_ITEM_CAP" envDefault:"1000"`
	CacheMaxAge time.Duration `env:"LIST_CACHE_MAX_AGE" envDefault:"10s"`
	CacheStale  time.Duration `env:"LIST_CACHE_STALE" envDefault:"59s"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "pretty"
}

// placeholderMarkers flag connection strings copied from templates
var placeholderMarkers = []string{"your-", "your_", "placeholder", "changeme", "example.com", "<"}

// Load reads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.Storage.MemoryCap <= 0 {
		return fmt.Errorf("MEMORY_ITEM_CAP must be positive")
	}
	if c.Verification.Timeout <= 0 {
		return fmt.Errorf("VERIFY_TIMEOUT must be positive")
	}
	return nil
}

// Configured reports whether a real durable store connection string is set
func (c *DatabaseConfig) Configured() bool {
	url := strings.TrimSpace(c.URL)
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// CacheControl returns the Cache-Control value for comment list responses
func (c *StorageConfig) CacheControl() string {
	return fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(c.CacheMaxAge.Seconds()), int(c.CacheStale.Seconds()))
}
