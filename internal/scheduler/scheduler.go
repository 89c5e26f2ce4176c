// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs maintenance once a day at 03:00.
const DefaultSchedule = "0 3 * * *"

// EventPruner deletes old event log entries.
type EventPruner interface {
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config configures the maintenance jobs.
type Config struct {
	// Schedule is a standard five-field cron expression.
	Schedule string
	// EventRetention is how long event log entries are kept. Zero keeps
	// them forever.
	EventRetention time.Duration
}

// Scheduler handles periodic maintenance.
type Scheduler struct {
	events EventPruner
	cfg    Config
	cron   *cron.Cron
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new scheduler instance.
func New(events EventPruner, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	return &Scheduler{
		events: events,
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
}

// ValidateSchedule reports whether expr is a valid five-field cron
// expression.
func ValidateSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return nil
}

// Start registers the maintenance job and starts the cron runner.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.PruneEvents(context.Background()); err != nil {
			s.logger.Error("failed to prune event log", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling maintenance: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "schedule", s.cfg.Schedule)
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents removes event log entries older than the retention period.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	if s.cfg.EventRetention <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().Add(-s.cfg.EventRetention)
	n, err := s.events.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned event log", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
	}
	return n, nil
}
