package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	Port          string
	LockTimeout   time.Duration
	DefaultLocale string
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when variables come from the environment (Docker, CI, etc.).
	}

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Port:          os.Getenv("PORT"),
		DefaultLocale: os.Getenv("DEFAULT_LOCALE"),
	}

	timeoutMs := os.Getenv("LOCK_TIMEOUT_MS")
	if timeoutMs != "" {
		ms, err := strconv.Atoi(timeoutMs)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("config: LOCK_TIMEOUT_MS must be a positive integer, got %q", timeoutMs)
		}
		cfg.LockTimeout = time.Duration(ms) * time.Millisecond
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies defaults and checks the loaded configuration.
func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Useful local default when DATABASE_URL is not provided.
		c.DatabaseURL = "postgres://localhost:5432/servcore?sslmode=disable"
	}
	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
	}

	if strings.TrimSpace(c.Port) == "" {
		c.Port = "8080"
	}
	for _, r := range c.Port {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: PORT must be numeric, got %q", c.Port)
		}
	}

	if c.LockTimeout <= 0 {
		c.LockTimeout = 5000 * time.Millisecond
	}

	if strings.TrimSpace(c.DefaultLocale) == "" {
		c.DefaultLocale = "en"
	}

	return nil
}
