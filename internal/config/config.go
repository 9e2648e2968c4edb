// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the studio configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"STUDIO_DB_PATH" envDefault:"./data/studio.db"`
	ServerHost string `env:"STUDIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"STUDIO_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"STUDIO_ENV" envDefault:"development"`
	LogLevel   string `env:"STUDIO_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"STUDIO_UPLOADS_DIR" envDefault:"./uploads"`
	// PublicURL prefixes upload URLs, e.g. https://studio.example.com.
	// Empty yields root-relative /uploads/... URLs.
	PublicURL string `env:"STUDIO_PUBLIC_URL"`

	// AdminKeyHash is the bcrypt hash of the admin API key (see "studio hashkey").
	// Empty disables the admin API.
	AdminKeyHash string `env:"STUDIO_ADMIN_KEY_HASH"`

	// Cache configuration
	RedisURL     string        `env:"STUDIO_REDIS_URL"`                          // Optional Redis URL for shared caching
	CachePrefix  string        `env:"STUDIO_CACHE_PREFIX" envDefault:"studio:"`  // Redis key prefix
	CacheTTL     time.Duration `env:"STUDIO_CACHE_TTL" envDefault:"5m"`          // Public list TTL; 0 disables caching
	CacheMaxSize int           `env:"STUDIO_CACHE_MAX_SIZE" envDefault:"1000"`   // Max memory cache entries

	CORSOrigins    []string      `env:"STUDIO_CORS_ORIGINS" envSeparator:","`
	RequestTimeout time.Duration `env:"STUDIO_REQUEST_TIMEOUT" envDefault:"30s"`
	RateLimitRPS   float64       `env:"STUDIO_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int           `env:"STUDIO_RATE_LIMIT_BURST" envDefault:"20"`

	// OrphanSweepSchedule is a cron spec for removing unreferenced uploads.
	// Empty disables the sweep.
	OrphanSweepSchedule string        `env:"STUDIO_ORPHAN_SWEEP_SCHEDULE" envDefault:"@daily"`
	OrphanGracePeriod   time.Duration `env:"STUDIO_ORPHAN_GRACE_PERIOD" envDefault:"24h"`

	// Seeding configuration
	DoSeed bool `env:"STUDIO_DO_SEED" envDefault:"false"` // Seed empty collections at startup

	// Remote admin client configuration
	APIURL string `env:"STUDIO_API_URL" envDefault:"http://localhost:8080"`
	APIKey string `env:"STUDIO_API_KEY"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// AdminEnabled returns true if an admin key hash is configured.
func (c Config) AdminEnabled() bool {
	return c.AdminKeyHash != ""
}

// LoadDotEnv loads variables from the given .env files, or from ./.env
// when none are given. Missing files are ignored and variables that are
// already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !cfg.IsDevelopment() && !cfg.AdminEnabled() {
		slog.Warn("STUDIO_ADMIN_KEY_HASH is not set; the admin API is disabled")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("STUDIO_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	switch c.Env {
	case "development", "production":
	default:
		errs = append(errs, fmt.Errorf("STUDIO_ENV must be development or production, got %q", c.Env))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("STUDIO_REQUEST_TIMEOUT must be positive"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("STUDIO_CACHE_TTL must not be negative"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("STUDIO_RATE_LIMIT_RPS and STUDIO_RATE_LIMIT_BURST must be positive"))
	}
	if c.OrphanGracePeriod < 0 {
		errs = append(errs, errors.New("STUDIO_ORPHAN_GRACE_PERIOD must not be negative"))
	}
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")
	c.APIURL = strings.TrimRight(c.APIURL, "/")

	return errors.Join(errs...)
}
