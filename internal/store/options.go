// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Option names.
const (
	OptionSettings   = "langroute_settings"
	OptionFrontPage  = "page_on_front"
	OptionPostsIndex = "page_for_posts"
)

// GetOption returns the value of a site option.
func (q *Queries) GetOption(ctx context.Context, name string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, `SELECT value FROM options WHERE name = ?`, name).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("getting option %q: %w", name, notFound(err))
	}
	return value, nil
}

// SetOption inserts or replaces a site option.
func (q *Queries) SetOption(ctx context.Context, name, value string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO options (name, value) VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value`, name, value)
	if err != nil {
		return fmt.Errorf("setting option %q: %w", name, err)
	}
	return nil
}

// DeleteOption removes a site option.
func (q *Queries) DeleteOption(ctx context.Context, name string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM options WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting option %q: %w", name, err)
	}
	return nil
}

// GetFrontPageID returns the configured static front page, or 0 when the
// site shows the posts listing at its root.
func (q *Queries) GetFrontPageID(ctx context.Context) (int64, error) {
	return q.intOption(ctx, OptionFrontPage)
}

// GetPostsIndexID returns the page configured as the posts listing, or 0.
func (q *Queries) GetPostsIndexID(ctx context.Context) (int64, error) {
	return q.intOption(ctx, OptionPostsIndex)
}

func (q *Queries) intOption(ctx context.Context, name string) (int64, error) {
	v, err := q.GetOption(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, nil
	}
	return id, nil
}
