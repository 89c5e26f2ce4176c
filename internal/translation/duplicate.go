// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/store"
	"github.com/olegiv/langroute/internal/util"
)

// Errors returned by CreateTranslation.
var (
	ErrSameLanguage        = errors.New("translation: target language equals source language")
	ErrUnsupportedLanguage = errors.New("translation: unsupported target language")
	ErrTranslationExists   = errors.New("translation: a published translation already exists")
)

// maxSlugAttempts bounds the numeric suffix search for a free slug.
const maxSlugAttempts = 100

// Languages supplies the current registry.
type Languages interface {
	Registry(ctx context.Context) *language.Registry
}

// Duplicator copies records into new draft translations.
type Duplicator struct {
	store  *store.Store
	langs  Languages
	logger *slog.Logger
	now    func() time.Time
}

// NewDuplicator returns a Duplicator.
func NewDuplicator(s *store.Store, langs Languages, logger *slog.Logger) *Duplicator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Duplicator{store: s, langs: langs, logger: logger, now: time.Now}
}

// CreateTranslation copies the record with the given ID into a new draft
// in lang and links both records in one translation group. The copy gets
// the title suffixed with the upper-cased language code and a slug suffixed
// with the code. Non-namespaced metadata is copied verbatim. A source
// without a group attribute becomes the group root, and a source without a
// language attribute is marked as the default language.
func (d *Duplicator) CreateTranslation(ctx context.Context, id int64, lang string) (model.Record, error) {
	reg := d.langs.Registry(ctx)
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !reg.IsSupported(lang) {
		return model.Record{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	var created model.Record
	err := d.store.InTx(ctx, func(q *store.Queries) error {
		src, err := q.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		if src.LanguageOr(reg.Default()) == lang {
			return ErrSameLanguage
		}

		existing, err := q.QueryRecordsByGroupAndLanguage(ctx, src.Group(), lang, lang == reg.Default())
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: record %d", ErrTranslationExists, existing[0].ID)
		}

		slug, err := freeSlug(ctx, q, util.SlugifyTransliterated(src.Slug+"-"+lang))
		if err != nil {
			return err
		}

		now := d.now()
		created, err = q.CreateRecord(ctx, store.CreateRecordParams{
			Type:      src.Type,
			Slug:      slug,
			Title:     src.Title + " (" + strings.ToUpper(lang) + ")",
			Body:      src.Body,
			Status:    model.RecordStatusDraft,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		group := src.Group()
		if src.GroupID == 0 {
			if err := q.SetRecordMeta(ctx, src.ID, model.MetaGroup, strconv.FormatInt(src.ID, 10)); err != nil {
				return err
			}
		}
		if src.Language == "" {
			if err := q.SetRecordMeta(ctx, src.ID, model.MetaLanguage, reg.Default()); err != nil {
				return err
			}
		}

		meta, err := q.ListRecordMeta(ctx, src.ID)
		if err != nil {
			return err
		}
		for k, v := range meta {
			if strings.HasPrefix(k, model.MetaPrefix) {
				continue
			}
			if err := q.SetRecordMeta(ctx, created.ID, k, v); err != nil {
				return err
			}
		}

		if err := q.SetRecordMeta(ctx, created.ID, model.MetaGroup, strconv.FormatInt(group, 10)); err != nil {
			return err
		}
		if err := q.SetRecordMeta(ctx, created.ID, model.MetaLanguage, lang); err != nil {
			return err
		}

		created, err = q.GetRecord(ctx, created.ID)
		return err
	})
	if err != nil {
		return model.Record{}, fmt.Errorf("creating %s translation of record %d: %w", lang, id, err)
	}

	d.logger.Info("created translation draft",
		"source_id", id, "translation_id", created.ID, "language", lang, "slug", created.Slug)
	return created, nil
}

// freeSlug returns base, or base-2, base-3 and so on when taken.
func freeSlug(ctx context.Context, q *store.Queries, base string) (string, error) {
	slug := base
	for i := 2; i <= maxSlugAttempts; i++ {
		taken, err := q.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
