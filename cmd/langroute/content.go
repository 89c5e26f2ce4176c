// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/langroute/internal/aitranslate"
	"github.com/olegiv/langroute/internal/translation"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newDuplicateCmd() *cobra.Command {
	var (
		id   int64
		lang string
	)
	cmd := &cobra.Command{
		Use:     "duplicate",
		Short:   "Create a draft translation of a page or post",
		Example: `  langroute duplicate --id 5 --lang es`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := translation.NewDuplicator(a.store, a.langs, a.logger).CreateTranslation(ctx, id, lang)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created draft %d (%s) slug=%s\n", rec.ID, rec.Language, rec.Slug)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "ID of the source record")
	cmd.Flags().StringVar(&lang, "lang", "", "target language code")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}

func newTranslateCmd() *cobra.Command {
	var (
		id   int64
		from string
	)
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Machine-translate a record into its own language",
		Long: `Translate the title, body and page builder texts of a record, usually a
draft created with "duplicate", from the source language (the default
language unless --from is given) into the record's language.

Requires LANGROUTE_OPENAI_API_KEY.`,
		Example: `  langroute translate --id 10
  langroute translate --id 10 --from de`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			provider, err := aitranslate.NewOpenAIProvider(aitranslate.OpenAIConfig{
				APIKey:     a.cfg.OpenAIAPIKey,
				Model:      a.cfg.OpenAIModel,
				BaseURL:    a.cfg.OpenAIBaseURL,
				MaxRetries: 2,
			})
			if errors.Is(err, aitranslate.ErrNotConfigured) {
				return fmt.Errorf("%w: set LANGROUTE_OPENAI_API_KEY", err)
			}
			if err != nil {
				return err
			}

			res, err := aitranslate.NewService(a.store, a.langs, provider, a.logger).TranslateRecord(ctx, id, from)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "translated record %d %s->%s: %d of %d segments\n",
				res.RecordID, res.From, res.To, res.Translated, res.Segments)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "ID of the record to translate")
	cmd.Flags().StringVar(&from, "from", "", "source language code (default language when empty)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove language settings and translation metadata",
		Long: `Remove the stored language settings and every langroute metadata row.
Nothing is removed when the settings have preserve_data enabled.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.store.Purge(ctx)
			if err != nil {
				return err
			}
			if err := a.langs.Invalidate(ctx); err != nil {
				a.logger.Warn("failed to invalidate language settings cache", "error", err)
			}

			out := cmd.OutOrStdout()
			if res.Preserved {
				_, _ = fmt.Fprintln(out, "preserve_data is set, nothing removed")
				return nil
			}
			_, _ = fmt.Fprintf(out, "removed %d metadata rows\n", res.MetaDeleted)
			return nil
		},
	}
}
