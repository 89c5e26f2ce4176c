// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
)

// GetRecordMeta returns a single metadata value.
func (q *Queries) GetRecordMeta(ctx context.Context, recordID int64, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx,
		`SELECT meta_value FROM record_meta WHERE record_id = ? AND meta_key = ?`,
		recordID, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("getting meta %q of record %d: %w", key, recordID, notFound(err))
	}
	return value, nil
}

// SetRecordMeta inserts or replaces a metadata value.
func (q *Queries) SetRecordMeta(ctx context.Context, recordID int64, key, value string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO record_meta (record_id, meta_key, meta_value) VALUES (?, ?, ?)
ON CONFLICT (record_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`,
		recordID, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %q of record %d: %w", key, recordID, err)
	}
	return nil
}

// DeleteRecordMeta removes a metadata value. Deleting a missing key is not
// an error.
func (q *Queries) DeleteRecordMeta(ctx context.Context, recordID int64, key string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM record_meta WHERE record_id = ? AND meta_key = ?`, recordID, key)
	if err != nil {
		return fmt.Errorf("deleting meta %q of record %d: %w", key, recordID, err)
	}
	return nil
}

// ListRecordMeta returns every metadata pair of a record.
func (q *Queries) ListRecordMeta(ctx context.Context, recordID int64) (map[string]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT meta_key, meta_value FROM record_meta WHERE record_id = ? ORDER BY meta_key`, recordID)
	if err != nil {
		return nil, fmt.Errorf("listing meta of record %d: %w", recordID, err)
	}
	defer func() { _ = rows.Close() }()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning meta of record %d: %w", recordID, err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

// DeleteMetaByPrefix removes every metadata row whose key starts with
// prefix and returns the number of rows removed.
func (q *Queries) DeleteMetaByPrefix(ctx context.Context, prefix string) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM record_meta WHERE meta_key LIKE ? ESCAPE '\'`, likePrefix(prefix))
	if err != nil {
		return 0, fmt.Errorf("deleting meta with prefix %q: %w", prefix, err)
	}
	return res.RowsAffected()
}
