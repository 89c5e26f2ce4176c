// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tidwall/sjson"

	"github.com/olegiv/langroute/internal/model"
)

// SeedOptions controls the initial language settings written by Seed.
type SeedOptions struct {
	DefaultLanguage string
	ActiveLanguages []string
}

type seedRecord struct {
	key      string
	group    string // key of the group root, empty for roots
	typ      string
	slug     string
	title    string
	body     string
	language string
}

// Demo content: an English site with Spanish translations, a static front
// page and a posts page. One post is left untranslated.
var seedRecords = []seedRecord{
	{key: "home", typ: model.RecordTypePage, slug: "home", title: "Home", body: "Welcome to the **English** home page.", language: "en"},
	{key: "inicio", group: "home", typ: model.RecordTypePage, slug: "inicio", title: "Inicio", body: "Bienvenido a la página de **inicio**.", language: "es"},
	{key: "blog", typ: model.RecordTypePage, slug: "blog", title: "Blog", language: "en"},
	{key: "noticias", group: "blog", typ: model.RecordTypePage, slug: "noticias", title: "Noticias", language: "es"},
	{key: "about", typ: model.RecordTypePage, slug: "about", title: "About", body: "About this site.", language: "en"},
	{key: "sobre", group: "about", typ: model.RecordTypePage, slug: "sobre-nosotros", title: "Sobre nosotros", body: "Acerca de este sitio.", language: "es"},
	{key: "hello", typ: model.RecordTypePost, slug: "hello-world", title: "Hello world", body: "The first post.", language: "en"},
	{key: "hola", group: "hello", typ: model.RecordTypePost, slug: "hola-mundo", title: "Hola mundo", body: "La primera entrada.", language: "es"},
	{key: "notes", typ: model.RecordTypePost, slug: "release-notes", title: "Release notes", body: "Only available in English."},
}

// Seed creates demo content and the initial language settings. It does
// nothing when the front page option is already set.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	s := NewStore(db)

	if _, err := s.GetOption(ctx, OptionFrontPage); err == nil {
		slog.Info("content already seeded, skipping seed")
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for seeded content: %w", err)
	}

	return s.InTx(ctx, func(q *Queries) error {
		ids := make(map[string]int64, len(seedRecords))
		now := time.Now()

		for i, sr := range seedRecords {
			ts := now.Add(time.Duration(i) * time.Second)
			rec, err := q.CreateRecord(ctx, CreateRecordParams{
				Type:      sr.typ,
				Slug:      sr.slug,
				Title:     sr.title,
				Body:      sr.body,
				Status:    model.RecordStatusPublished,
				CreatedAt: ts,
				UpdatedAt: ts,
			})
			if err != nil {
				return fmt.Errorf("seeding %s: %w", sr.key, err)
			}
			ids[sr.key] = rec.ID

			if sr.language != "" {
				if err := q.SetRecordMeta(ctx, rec.ID, model.MetaLanguage, sr.language); err != nil {
					return err
				}
			}
			group := rec.ID
			if sr.group != "" {
				group = ids[sr.group]
			}
			if err := q.SetRecordMeta(ctx, rec.ID, model.MetaGroup, strconv.FormatInt(group, 10)); err != nil {
				return err
			}
		}

		if err := q.SetOption(ctx, OptionFrontPage, strconv.FormatInt(ids["home"], 10)); err != nil {
			return err
		}
		if err := q.SetOption(ctx, OptionPostsIndex, strconv.FormatInt(ids["blog"], 10)); err != nil {
			return err
		}

		settings, err := settingsJSON(opts)
		if err != nil {
			return err
		}
		if err := q.SetOption(ctx, OptionSettings, settings); err != nil {
			return err
		}

		slog.Info("seeded demo content", "records", len(seedRecords), "default_language", opts.DefaultLanguage)
		return nil
	})
}

func settingsJSON(opts SeedOptions) (string, error) {
	doc, err := sjson.Set("{}", "default_language", opts.DefaultLanguage)
	if err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	active := opts.ActiveLanguages
	if active == nil {
		active = []string{}
	}
	doc, err = sjson.Set(doc, "active_languages", active)
	if err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	doc, err = sjson.Set(doc, "preserve_data", false)
	if err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	return doc, nil
}
