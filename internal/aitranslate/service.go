// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package aitranslate

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/store"
	"github.com/olegiv/langroute/internal/translation"
)

var (
	titlePolicy   = bluemonday.StrictPolicy()
	contentPolicy = bluemonday.UGCPolicy()
)

// Result summarizes one TranslateRecord run.
type Result struct {
	RecordID   int64
	From       string
	To         string
	Segments   int
	Translated int
}

// Service machine-translates the content of translation drafts in place.
type Service struct {
	store    *store.Store
	langs    translation.Languages
	provider Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService returns a Service. provider may be nil, in which case every
// call fails with ErrNotConfigured.
func NewService(s *store.Store, langs translation.Languages, provider Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, langs: langs, provider: provider, logger: logger, now: time.Now}
}

// TranslateRecord translates the record with the given ID from the from
// language (the default language when empty) into the record's own
// language and stores the result.
func (s *Service) TranslateRecord(ctx context.Context, id int64, from string) (Result, error) {
	if s.provider == nil {
		return Result{}, ErrNotConfigured
	}

	reg := s.langs.Registry(ctx)
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return Result{}, err
	}

	from = strings.ToLower(strings.TrimSpace(from))
	if from == "" {
		from = reg.Default()
	}
	to := rec.LanguageOr(reg.Default())
	if from == to {
		return Result{}, fmt.Errorf("%w: record %d is already in %q", translation.ErrSameLanguage, id, to)
	}
	fromLang, ok := reg.Lookup(from)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", translation.ErrUnsupportedLanguage, from)
	}
	toLang, ok := reg.Lookup(to)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", translation.ErrUnsupportedLanguage, to)
	}

	builder, err := s.store.GetRecordMeta(ctx, id, model.MetaBuilderData)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Result{}, err
	}

	segs, err := Extract(rec, builder)
	if err != nil {
		return Result{}, fmt.Errorf("extracting record %d: %w", id, err)
	}

	translated, err := s.provider.Translate(ctx, segs, fromLang, toLang)
	if err != nil {
		return Result{}, fmt.Errorf("translating record %d: %w", id, err)
	}
	translated = sanitize(segs, translated)

	title, body := rec.Title, rec.Body
	if v, ok := translated[SegmentTitle]; ok && v != "" {
		title = v
	}
	if v, ok := translated[SegmentBody]; ok && v != "" {
		body = v
	}
	if builder != "" {
		builder, err = ApplyBuilder(builder, segs, translated)
		if err != nil {
			return Result{}, err
		}
	}

	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if err := q.UpdateRecordContent(ctx, id, title, body, s.now()); err != nil {
			return err
		}
		if builder != "" {
			return q.SetRecordMeta(ctx, id, model.MetaBuilderData, builder)
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("saving translation of record %d: %w", id, err)
	}

	res := Result{RecordID: id, From: from, To: to, Segments: len(segs), Translated: len(translated)}
	s.logger.Info("machine translated record",
		"record_id", id, "from", from, "to", to, "segments", res.Segments, "translated", res.Translated)
	return res, nil
}

// sanitize drops translations for unknown segment IDs and strips unsafe
// markup. Titles become plain text.
func sanitize(segs []Segment, translated map[string]string) map[string]string {
	out := make(map[string]string, len(translated))
	for _, seg := range segs {
		v, ok := translated[seg.ID]
		if !ok {
			continue
		}
		if seg.Kind == KindTitle {
			out[seg.ID] = strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(v)))
		} else {
			out[seg.ID] = contentPolicy.Sanitize(v)
		}
	}
	return out
}
