// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/olegiv/langroute/internal/model"
)

// PurgeResult reports what Purge removed.
type PurgeResult struct {
	Preserved   bool
	MetaDeleted int64
}

// Purge removes the language settings and every namespaced metadata row in
// one transaction. Nothing is removed when the stored settings carry
// preserve_data=true.
func (s *Store) Purge(ctx context.Context) (PurgeResult, error) {
	var result PurgeResult
	err := s.InTx(ctx, func(q *Queries) error {
		raw, err := q.GetOption(ctx, OptionSettings)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if gjson.Get(raw, "preserve_data").Bool() {
			result.Preserved = true
			return nil
		}

		if err := q.DeleteOption(ctx, OptionSettings); err != nil {
			return err
		}
		n, err := q.DeleteMetaByPrefix(ctx, model.MetaPrefix)
		if err != nil {
			return err
		}
		result.MetaDeleted = n
		return nil
	})
	if err != nil {
		return PurgeResult{}, fmt.Errorf("purging: %w", err)
	}
	return result, nil
}
