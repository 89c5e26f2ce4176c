// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/langroute/internal/model"
)

// recordColumns selects a record together with its language and group
// attributes. The group attribute is stored as text and cast on read;
// anything non-numeric reads as 0.
const recordColumns = `
SELECT r.id, r.type, r.slug, r.title, r.body, r.status, r.created_at, r.updated_at,
       COALESCE(lm.meta_value, ''),
       COALESCE(CAST(gm.meta_value AS INTEGER), 0)
FROM records r
LEFT JOIN record_meta lm ON lm.record_id = r.id AND lm.meta_key = '` + model.MetaLanguage + `'
LEFT JOIN record_meta gm ON gm.record_id = r.id AND gm.meta_key = '` + model.MetaGroup + `'
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.Record, error) {
	var r model.Record
	err := row.Scan(
		&r.ID, &r.Type, &r.Slug, &r.Title, &r.Body, &r.Status,
		&r.CreatedAt, &r.UpdatedAt, &r.Language, &r.GroupID,
	)
	return r, err
}

func (q *Queries) queryRecords(ctx context.Context, query string, args ...any) ([]model.Record, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetRecord returns the record with the given ID.
func (q *Queries) GetRecord(ctx context.Context, id int64) (model.Record, error) {
	r, err := scanRecord(q.db.QueryRowContext(ctx, recordColumns+`WHERE r.id = ?`, id))
	if err != nil {
		return model.Record{}, fmt.Errorf("getting record %d: %w", id, notFound(err))
	}
	return r, nil
}

// FindRecordBySlug returns the lowest-ID record of any type with the given
// slug. An empty status matches every status.
func (q *Queries) FindRecordBySlug(ctx context.Context, slug, status string) (model.Record, error) {
	r, err := scanRecord(q.db.QueryRowContext(ctx,
		recordColumns+`WHERE r.slug = ? AND (? = '' OR r.status = ?) ORDER BY r.id LIMIT 1`,
		slug, status, status))
	if err != nil {
		return model.Record{}, fmt.Errorf("finding record by slug %q: %w", slug, notFound(err))
	}
	return r, nil
}

// groupFilter matches records that belong to group ?: translations carry the
// group attribute and an unmarked root is matched by its own ID.
const groupFilter = `(CAST(gm.meta_value AS INTEGER) = ? OR (gm.meta_value IS NULL AND r.id = ?))`

// QueryRecordsByGroupAndLanguage returns the published members of a
// translation group in the given language, lowest ID first. With
// includeUnset, records without a language attribute also match.
func (q *Queries) QueryRecordsByGroupAndLanguage(ctx context.Context, groupID int64, lang string, includeUnset bool) ([]model.Record, error) {
	items, err := q.queryRecords(ctx, recordColumns+`
WHERE `+groupFilter+`
  AND r.status = ?
  AND (lm.meta_value = ? OR (? AND lm.meta_value IS NULL))
ORDER BY r.id`,
		groupID, groupID, model.RecordStatusPublished, lang, includeUnset)
	if err != nil {
		return nil, fmt.Errorf("querying group %d in %q: %w", groupID, lang, err)
	}
	return items, nil
}

// ListGroupMembers returns every published record of a translation group,
// lowest ID first.
func (q *Queries) ListGroupMembers(ctx context.Context, groupID int64) ([]model.Record, error) {
	items, err := q.queryRecords(ctx, recordColumns+`
WHERE `+groupFilter+` AND r.status = ?
ORDER BY r.id`,
		groupID, groupID, model.RecordStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("listing group %d: %w", groupID, err)
	}
	return items, nil
}

// ListPostsParams filters a posts listing by language.
type ListPostsParams struct {
	Language     string
	IncludeUnset bool
	Limit        int64
	Offset       int64
}

// ListPublishedPosts returns published posts in one language, newest first.
func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPostsParams) ([]model.Record, error) {
	items, err := q.queryRecords(ctx, recordColumns+`
WHERE r.type = ? AND r.status = ?
  AND (? = '' OR lm.meta_value = ? OR (? AND lm.meta_value IS NULL))
ORDER BY r.created_at DESC, r.id DESC
LIMIT ? OFFSET ?`,
		model.RecordTypePost, model.RecordStatusPublished,
		arg.Language, arg.Language, arg.IncludeUnset, arg.Limit, arg.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return items, nil
}

// ListPublishedRecords returns every published page and post, lowest ID
// first.
func (q *Queries) ListPublishedRecords(ctx context.Context) ([]model.Record, error) {
	items, err := q.queryRecords(ctx, recordColumns+`
WHERE r.status = ? AND r.type IN (?, ?)
ORDER BY r.id`,
		model.RecordStatusPublished, model.RecordTypePage, model.RecordTypePost)
	if err != nil {
		return nil, fmt.Errorf("listing published records: %w", err)
	}
	return items, nil
}

// CreateRecordParams holds the columns of a new record.
type CreateRecordParams struct {
	Type      string
	Slug      string
	Title     string
	Body      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateRecord inserts a record and returns it. Language and group
// attributes are written separately through SetRecordMeta.
func (q *Queries) CreateRecord(ctx context.Context, arg CreateRecordParams) (model.Record, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO records (type, slug, title, body, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Type, arg.Slug, arg.Title, arg.Body, arg.Status, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Record{}, fmt.Errorf("creating record %q: %w", arg.Slug, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Record{}, fmt.Errorf("reading record id: %w", err)
	}
	return q.GetRecord(ctx, id)
}

// UpdateRecordContent replaces the title and body of a record.
func (q *Queries) UpdateRecordContent(ctx context.Context, id int64, title, body string, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE records SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		title, body, updatedAt, id)
	if err != nil {
		return fmt.Errorf("updating record %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating record %d: %w", id, ErrNotFound)
	}
	return nil
}

// SlugExists reports whether any record already uses slug.
func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE slug = ?`, slug).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking slug %q: %w", slug, err)
	}
	return n > 0, nil
}

// likePrefix escapes LIKE wildcards in a literal prefix.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
