// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/olegiv/langroute/internal/handler"
	"github.com/olegiv/langroute/internal/middleware"
	"github.com/olegiv/langroute/internal/router"
	"github.com/olegiv/langroute/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(commandContext(cmd))
		},
	}
}

func serve(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if err := scheduler.ValidateSchedule(cfg.MaintenanceSchedule); err != nil {
		return err
	}
	sched := scheduler.New(a.store.Queries, scheduler.Config{
		Schedule:       cfg.MaintenanceSchedule,
		EventRetention: cfg.EventRetention(),
	}, a.logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	rt := router.New(router.NewSite(cfg.SiteURL, cfg.ExcludedPrefixes), a.langs, a.store.Queries, a.logger)

	frontend, err := handler.NewFrontendHandler(rt, a.store.Queries, handler.FrontendConfig{
		SiteName:         cfg.SiteName,
		SiteDescription:  cfg.SiteDescription,
		PostsPerPage:     cfg.PostsPerPage,
		DisallowIndexing: cfg.DisallowIndexing,
		SitemapCache:     a.cache,
		SitemapTTL:       cfg.CacheTTLDuration(),
	}, a.logger)
	if err != nil {
		return fmt.Errorf("initializing frontend: %w", err)
	}
	health := handler.NewHealthHandler(a.db, a.langs, versionInfo().String())

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(chimw.Compress(5))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, a.logger))
	r.Use(middleware.Language(rt, a.logger))
	r.Use(middleware.ResponseHeaders(rt, middleware.DefaultHeadersConfig(cfg.IsDevelopment())))

	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	mount := rt.Site().Mount
	if mount == "" {
		mount = "/"
	}
	r.Mount(mount, frontend.Routes())

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "site", cfg.SiteURL, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
