// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/langroute/internal/cache"
	"github.com/olegiv/langroute/internal/config"
	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/logging"
	"github.com/olegiv/langroute/internal/store"
	"github.com/olegiv/langroute/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func versionInfo() version.Info {
	return version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "langroute",
		Short: "Subdirectory-per-language router for a content site",
		Long: `langroute serves a content site with one URL subdirectory per language.

The default language lives at the site root, every other active language
under /<code>/. Translations of a page or post are linked in groups and
advertised with hreflang alternates.

Configuration is read from LANGROUTE_* environment variables and an
optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newDuplicateCmd(),
		newTranslateCmd(),
		newPurgeCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "langroute %s\n", versionInfo())
		},
	}
}

// app holds the services every command shares.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	store  *store.Store
	cache  cache.Cacher
	langs  *language.Provider
}

// openApp loads the configuration, opens and migrates the database and
// wires the language settings provider.
func openApp(ctx context.Context) (*app, error) {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	// WARN and ERROR records also go to the event log table
	s := store.NewStore(db)
	logger := slog.New(logging.NewEventLogHandler(textHandler, s.Queries))
	slog.SetDefault(logger)

	if cfg.DoSeed {
		err := store.Seed(ctx, db, store.SeedOptions{
			DefaultLanguage: cfg.DefaultLanguage,
			ActiveLanguages: cfg.ActiveLanguages,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seeding database: %w", err)
		}
	}

	c := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	}, logger)

	langs := language.NewProvider(s.Queries, c, cfg.CacheTTLDuration(), language.Settings{
		DefaultLanguage: cfg.DefaultLanguage,
		ActiveLanguages: cfg.ActiveLanguages,
	}, logger)

	return &app{cfg: cfg, logger: logger, db: db, store: s, cache: c, langs: langs}, nil
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("error closing cache", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database connection", "error", err)
	}
}
