package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env string

	// Summary API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// View
	PlayerID    int
	LoadTimeout time.Duration

	// Ops server, 0 disables it
	OpsPort int

	// CORS for the ops server
	AllowedOrigins []string
}

// Load loads configuration from environment variables.
// It returns an error if a value is present but invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Env:        getEnv("ENV", "development"),
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
	}

	var err error
	if cfg.PlayerID, err = getEnvIntStrict("PLAYER_ID", 0); err != nil {
		return nil, err
	}
	if cfg.OpsPort, err = getEnvIntStrict("OPS_PORT", 9090); err != nil {
		return nil, err
	}
	if cfg.OpsPort < 0 || cfg.OpsPort > 65535 {
		return nil, fmt.Errorf("invalid OPS_PORT: %d", cfg.OpsPort)
	}
	if cfg.HTTPTimeout, err = getEnvDurationStrict("HTTP_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.LoadTimeout, err = getEnvDurationStrict("LOAD_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:4200")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether ENV selects the development logger
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntStrict(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return i, nil
}

func getEnvDurationStrict(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, value)
	}
	return d, nil
}
