// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/langroute/internal/cache"
	"github.com/olegiv/langroute/internal/store"
)

const settingsCacheKey = "language:settings"

// Settings is the persisted language configuration.
type Settings struct {
	DefaultLanguage string   `json:"default_language"`
	ActiveLanguages []string `json:"active_languages"`
	PreserveData    bool     `json:"preserve_data"`
}

// OptionStore reads and writes site options.
type OptionStore interface {
	GetOption(ctx context.Context, name string) (string, error)
	SetOption(ctx context.Context, name, value string) error
}

// Provider serves registry snapshots built from the stored settings. Reads
// go through the cache; a missing or unreadable settings option yields the
// fallback settings so that a registry is always available.
type Provider struct {
	store    OptionStore
	cache    *cache.TypedCache[Settings]
	fallback Settings
	logger   *slog.Logger
}

// NewProvider returns a Provider. fallback is typically built from the
// environment configuration.
func NewProvider(s OptionStore, c cache.Cacher, ttl time.Duration, fallback Settings, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		store:    s,
		cache:    cache.NewTypedCache[Settings](c, ttl),
		fallback: fallback,
		logger:   logger,
	}
}

// Settings returns the current settings.
func (p *Provider) Settings(ctx context.Context) Settings {
	s, err := p.cache.GetOrSet(ctx, settingsCacheKey, func() (*Settings, error) {
		return p.load(ctx)
	})
	if err != nil {
		p.logger.Warn("loading language settings, using fallback", "error", err)
		return p.fallback
	}
	return *s
}

// Registry returns a registry snapshot for the current settings.
func (p *Provider) Registry(ctx context.Context) *Registry {
	s := p.Settings(ctx)
	return NewRegistry(s.DefaultLanguage, s.ActiveLanguages)
}

// Save persists settings and drops the cached snapshot.
func (p *Provider) Save(ctx context.Context, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding language settings: %w", err)
	}
	if err := p.store.SetOption(ctx, store.OptionSettings, string(raw)); err != nil {
		return err
	}
	return p.Invalidate(ctx)
}

// Invalidate drops the cached snapshot.
func (p *Provider) Invalidate(ctx context.Context) error {
	if err := p.cache.Delete(ctx, settingsCacheKey); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return fmt.Errorf("invalidating language settings: %w", err)
	}
	return nil
}

func (p *Provider) load(ctx context.Context) (*Settings, error) {
	raw, err := p.store.GetOption(ctx, store.OptionSettings)
	if errors.Is(err, store.ErrNotFound) {
		fb := p.fallback
		return &fb, nil
	}
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decoding language settings: %w", err)
	}
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = p.fallback.DefaultLanguage
	}
	return &s, nil
}
