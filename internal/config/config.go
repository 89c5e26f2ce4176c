// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads langroute settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LANGROUTE_DB_PATH" envDefault:"./data/langroute.db"`
	ServerHost string `env:"LANGROUTE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LANGROUTE_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LANGROUTE_ENV" envDefault:"development"`
	LogLevel   string `env:"LANGROUTE_LOG_LEVEL" envDefault:"info"`

	// SiteURL is the public base URL of the site, including the sub-path the
	// site is mounted at (e.g. https://example.com/blog).
	SiteURL string `env:"LANGROUTE_SITE_URL" envDefault:"http://localhost:8080"`

	// Site presentation
	SiteName         string `env:"LANGROUTE_SITE_NAME" envDefault:"langroute"`
	SiteDescription  string `env:"LANGROUTE_SITE_DESCRIPTION"`
	PostsPerPage     int    `env:"LANGROUTE_POSTS_PER_PAGE" envDefault:"10"`
	DisallowIndexing bool   `env:"LANGROUTE_DISALLOW_INDEXING" envDefault:"false"` // robots.txt disallows everything

	// Language settings used when the options table has none yet.
	DefaultLanguage string   `env:"LANGROUTE_DEFAULT_LANGUAGE" envDefault:"en"`
	ActiveLanguages []string `env:"LANGROUTE_ACTIVE_LANGUAGES" envSeparator:"," envDefault:"en"`

	// ExcludedPrefixes are paths that are never language-canonicalized.
	ExcludedPrefixes []string `env:"LANGROUTE_EXCLUDED_PREFIXES" envSeparator:","`

	// Cache configuration
	RedisURL    string `env:"LANGROUTE_REDIS_URL"`                            // Optional Redis URL for a shared settings cache
	CachePrefix string `env:"LANGROUTE_CACHE_PREFIX" envDefault:"langroute:"` // Redis key prefix
	CacheTTL    int    `env:"LANGROUTE_CACHE_TTL" envDefault:"300"`           // Settings cache TTL in seconds

	// Translation provider configuration
	OpenAIAPIKey  string `env:"LANGROUTE_OPENAI_API_KEY"`
	OpenAIModel   string `env:"LANGROUTE_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"LANGROUTE_OPENAI_BASE_URL"` // Optional OpenAI-compatible endpoint

	// Per-IP rate limit on public routes; 0 disables it
	RateLimitRPS   float64 `env:"LANGROUTE_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"LANGROUTE_RATE_LIMIT_BURST" envDefault:"40"`

	// Maintenance
	MaintenanceSchedule string `env:"LANGROUTE_MAINTENANCE_SCHEDULE" envDefault:"0 3 * * *"` // Cron expression
	EventRetentionDays  int    `env:"LANGROUTE_EVENT_RETENTION_DAYS" envDefault:"30"`        // 0 keeps events forever

	// Seeding configuration
	DoSeed bool `env:"LANGROUTE_DO_SEED" envDefault:"false"` // Seed demo content
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

// CacheTTLDuration returns the settings cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// AITranslationEnabled returns true if a translation provider is configured.
func (c Config) AITranslationEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// EventRetention returns how long event log entries are kept.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// SiteBase returns the site URL without a trailing slash.
func (c Config) SiteBase() string {
	return strings.TrimRight(c.SiteURL, "/")
}

// MountPath returns the path component of the site URL ("" when the site is
// served from the domain root, otherwise e.g. "/blog").
func (c Config) MountPath() string {
	u, err := url.Parse(c.SiteURL)
	if err != nil {
		return ""
	}
	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	u, err := url.Parse(cfg.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("parsing LANGROUTE_SITE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("LANGROUTE_SITE_URL must be an absolute http(s) URL, got %q", cfg.SiteURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("LANGROUTE_SITE_URL has no host: %q", cfg.SiteURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("LANGROUTE_SITE_URL must not carry a query or fragment: %q", cfg.SiteURL)
	}

	cfg.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))
	active := cfg.ActiveLanguages[:0]
	for _, code := range cfg.ActiveLanguages {
		code = strings.ToLower(strings.TrimSpace(code))
		if code != "" {
			active = append(active, code)
		}
	}
	cfg.ActiveLanguages = active

	if cfg.PostsPerPage <= 0 {
		slog.Warn("LANGROUTE_POSTS_PER_PAGE must be positive, using default", "value", cfg.PostsPerPage)
		cfg.PostsPerPage = 10
	}

	if cfg.CacheTTL <= 0 {
		slog.Warn("LANGROUTE_CACHE_TTL must be positive, using default", "value", cfg.CacheTTL)
		cfg.CacheTTL = 300
	}

	return cfg, nil
}
