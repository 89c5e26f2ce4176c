// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/store"
	"github.com/olegiv/langroute/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func newTestLogger(t *testing.T, level slog.Level) (*slog.Logger, *store.Queries) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	q := store.New(db)
	return slog.New(NewEventLogHandlerWithLevel(discardHandler{}, q, level)), q
}

func listEvents(t *testing.T, q *store.Queries) []model.Event {
	t.Helper()
	events, err := q.ListEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandlerLevels(t *testing.T) {
	tests := []struct {
		name      string
		threshold slog.Level
		log       func(*slog.Logger)
		want      string // expected event level, "" when nothing is written
	}{
		{"error", slog.LevelWarn, func(l *slog.Logger) { l.Error("database unavailable") }, model.EventLevelError},
		{"warn", slog.LevelWarn, func(l *slog.Logger) { l.Warn("slug lookup failed") }, model.EventLevelWarning},
		{"info ignored", slog.LevelWarn, func(l *slog.Logger) { l.Info("server started") }, ""},
		{"debug ignored", slog.LevelWarn, func(l *slog.Logger) { l.Debug("language detected") }, ""},
		{"custom threshold", slog.LevelInfo, func(l *slog.Logger) { l.Info("server started") }, model.EventLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, q := newTestLogger(t, tt.threshold)
			tt.log(logger)

			events := listEvents(t, q)
			if tt.want == "" {
				if len(events) != 0 {
					t.Fatalf("got %d events, want none", len(events))
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			if events[0].Level != tt.want {
				t.Errorf("Level = %q, want %q", events[0].Level, tt.want)
			}
		})
	}
}

func TestEventLogHandlerCategoryInference(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"translation lookup failed", model.EventCategoryTranslation},
		{"slug lookup failed", model.EventCategoryRouting},
		{"reading front page option failed", model.EventCategoryRouting},
		{"invalid language settings", model.EventCategoryConfig},
		{"redis unavailable, using memory cache", model.EventCategoryCache},
		{"shutdown timed out", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			logger, q := newTestLogger(t, slog.LevelWarn)
			logger.Warn(tt.msg)
			events := listEvents(t, q)
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			if events[0].Category != tt.want {
				t.Errorf("Category = %q, want %q", events[0].Category, tt.want)
			}
		})
	}
}

func TestEventLogHandlerExplicitCategory(t *testing.T) {
	logger, q := newTestLogger(t, slog.LevelWarn)
	logger.Warn("slug lookup failed", "category", model.EventCategorySystem)

	events := listEvents(t, q)
	if len(events) != 1 || events[0].Category != model.EventCategorySystem {
		t.Fatalf("events = %+v, want one system event", events)
	}
	if gjson.Get(events[0].Metadata, "category").Exists() {
		t.Error("category should not be repeated in metadata")
	}
}

func TestEventLogHandlerMetadata(t *testing.T) {
	logger, q := newTestLogger(t, slog.LevelWarn)
	logger.With("request_id", "abc-123").Warn("translation lookup failed",
		"record_id", 42,
		"language", "es",
		"error", `quote " and \ backslash`,
		"elapsed", 1500*time.Millisecond,
		"dotted.key", "v")

	events := listEvents(t, q)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	meta := events[0].Metadata
	if !gjson.Valid(meta) {
		t.Fatalf("metadata is not valid JSON: %s", meta)
	}
	checks := map[string]string{
		"request_id":   "abc-123",
		"record_id":    "42",
		"language":     "es",
		"error":        `quote " and \ backslash`,
		"elapsed":      "1.5s",
		`dotted\.key`: "v",
	}
	for path, want := range checks {
		if got := gjson.Get(meta, path).String(); got != want {
			t.Errorf("metadata %s = %q, want %q", path, got, want)
		}
	}
}

func TestEventLogHandlerEmptyMetadata(t *testing.T) {
	logger, q := newTestLogger(t, slog.LevelWarn)
	logger.Warn("shutdown timed out")

	events := listEvents(t, q)
	if len(events) != 1 || events[0].Metadata != "{}" {
		t.Fatalf("events = %+v, want empty metadata object", events)
	}
}
