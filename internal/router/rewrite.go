// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/store"
	"github.com/olegiv/langroute/internal/translation"
	"github.com/olegiv/langroute/internal/util"
)

// Action names the rewrite that was applied.
type Action int

const (
	ActionPassThrough Action = iota
	ActionCollisionOnly
	ActionFrontPage
	ActionPostsIndex
	ActionLanguageSwap
	ActionTypeCorrected
)

var actionNames = [...]string{
	ActionPassThrough:   "pass_through",
	ActionCollisionOnly: "collision_only",
	ActionFrontPage:     "front_page",
	ActionPostsIndex:    "posts_index",
	ActionLanguageSwap:  "language_swap",
	ActionTypeCorrected: "type_corrected",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

// Fallback names why the host's interpretation was left in place.
type Fallback int

const (
	FallbackNone Fallback = iota
	FallbackNoSlug
	FallbackRecordNotFound
	FallbackTranslationMissing
	FallbackFrontPageUntranslated
	FallbackLookupFailed
)

var fallbackNames = [...]string{
	FallbackNone:                  "none",
	FallbackNoSlug:                "no_slug",
	FallbackRecordNotFound:        "record_not_found",
	FallbackTranslationMissing:    "translation_missing",
	FallbackFrontPageUntranslated: "front_page_untranslated",
	FallbackLookupFailed:          "lookup_failed",
}

func (f Fallback) String() string {
	if int(f) < len(fallbackNames) {
		return fallbackNames[f]
	}
	return "fallback(" + strconv.Itoa(int(f)) + ")"
}

// Decision is the rewritten query plus how it was reached.
type Decision struct {
	Vars     QueryVars
	Action   Action
	Fallback Fallback
}

var paginationSuffix = regexp.MustCompile(`/page/([0-9]+)/?$`)

// Rewriter adjusts the host's query variables so that they select the
// variant of a record in the requested language. It never fails: every
// ambiguity leaves the host's interpretation in place and is reported as a
// Fallback.
type Rewriter struct {
	site     Site
	repo     Repository
	resolver *translation.Resolver
	logger   *slog.Logger
}

// NewRewriter returns a Rewriter.
func NewRewriter(site Site, repo Repository, resolver *translation.Resolver, logger *slog.Logger) *Rewriter {
	return &Rewriter{site: site, repo: repo, resolver: resolver, logger: logger}
}

// Rewrite applies collision correction, front page resolution, pagination
// recovery, the posts index special case, language correction and type
// correction, in that order.
func (rw *Rewriter) Rewrite(ctx context.Context, reg *language.Registry, p ParsedPath, vars QueryVars) Decision {
	d := Decision{Vars: vars}
	if p.Outcome == OutcomeNotFound {
		return d
	}

	mountSeg := rw.site.mountSegment()
	if mountSeg != "" && d.Vars.Category == mountSeg {
		d.Vars.Category = ""
		d.Action = ActionCollisionOnly
	}

	lang, def := p.Language, reg.Default()
	if lang == def {
		return d
	}

	internal := util.UntrailingSlashIt(p.InternalPath)
	if internal == util.UntrailingSlashIt(rw.site.Mount) {
		if done := rw.frontPage(ctx, &d, lang, def); done {
			return d
		}
	}

	slug := d.Vars.Name
	if slug == "" {
		slug = d.Vars.PageName
	}

	paged := 0
	if m := paginationSuffix.FindStringSubmatch(internal); m != nil {
		paged, _ = strconv.Atoi(m[1])
	}
	if paged > 0 {
		if slug == "" || slug == "page" {
			reduced := paginationSuffix.ReplaceAllString(internal, "")
			if last := util.LastSegment(reduced); last != "" && last != mountSeg {
				slug = last
			}
		}
		if d.Vars.Paged == 0 && d.Vars.Page == 0 {
			d.Vars.Paged = paged
		}
	}

	if slug == "" {
		slug = d.Vars.Attachment
	}
	if slug == "" {
		return rw.fallback(d, FallbackNoSlug, "no slug to resolve", "path", p.InternalPath)
	}

	found, err := rw.repo.FindRecordBySlug(ctx, slug, model.RecordStatusPublished)
	if errors.Is(err, store.ErrNotFound) {
		return rw.fallback(d, FallbackRecordNotFound, "no published record for slug", "slug", slug)
	}
	if err != nil {
		rw.logger.Warn("slug lookup failed", "slug", slug, "error", err)
		return rw.fallback(d, FallbackLookupFailed, "slug lookup failed", "slug", slug)
	}

	if rw.isPostsIndex(ctx, found, lang, def) {
		d.Vars.Type = model.RecordTypePost
		if paged > 0 {
			d.Vars.Paged = paged
		} else if d.Vars.Page > 0 {
			d.Vars.Paged = d.Vars.Page
		}
		d.Vars.Page = 0
		d.Vars.PageName = ""
		d.Vars.Name = ""
		d.Vars.RecordID = 0
		d.Vars.Attachment = ""
		d.Vars.Category = ""
		d.Vars.PostsIndex = true
		d.Action = ActionPostsIndex
		return d
	}

	if found.LanguageOr(def) != lang {
		res, err := rw.resolver.Resolve(ctx, found, lang, def)
		if err != nil {
			rw.logger.Warn("translation lookup failed", "record_id", found.ID, "language", lang, "error", err)
			return rw.fallback(d, FallbackLookupFailed, "translation lookup failed", "record_id", found.ID)
		}
		if !res.OK() {
			return rw.fallback(d, FallbackTranslationMissing, "no translation", "record_id", found.ID, "language", lang)
		}

		sib := res.Record
		switch {
		case d.Vars.Name != "":
			d.Vars.Name = sib.Slug
		case d.Vars.PageName != "":
			d.Vars.PageName = sib.Slug
		case sib.IsPage():
			d.Vars.PageName = sib.Slug
		default:
			d.Vars.Name = sib.Slug
		}
		d.Vars.Attachment = ""
		d.Action = ActionLanguageSwap
		return d
	}

	switch found.Type {
	case model.RecordTypePage:
		d.Vars.PageName = found.Slug
		d.Vars.Name = ""
		d.Vars.Type = model.RecordTypePage
		d.Vars.RecordID = found.ID
		d.Vars.Attachment = ""
	case model.RecordTypePost:
		d.Vars.Name = found.Slug
		d.Vars.PageName = ""
		d.Vars.Type = model.RecordTypePost
		d.Vars.Attachment = ""
	default:
		d.Vars.Attachment = found.Slug
		d.Vars.Type = found.Type
	}
	d.Action = ActionTypeCorrected
	return d
}

// frontPage selects the variant of the configured front page. It reports
// whether the decision is final.
func (rw *Rewriter) frontPage(ctx context.Context, d *Decision, lang, def string) bool {
	frontID, err := rw.repo.GetFrontPageID(ctx)
	if err != nil {
		rw.logger.Warn("reading front page option failed", "error", err)
		d.Fallback = FallbackLookupFailed
		return false
	}
	if frontID == 0 {
		return false
	}

	res, err := rw.resolver.ResolveID(ctx, frontID, lang, def)
	if err != nil {
		rw.logger.Warn("front page lookup failed", "front_page_id", frontID, "error", err)
		d.Fallback = FallbackLookupFailed
		return false
	}
	if !res.OK() {
		rw.logger.Debug("front page has no translation", "front_page_id", frontID, "language", lang)
		d.Fallback = FallbackFrontPageUntranslated
		return false
	}

	d.Vars.RecordID = res.Record.ID
	d.Vars.Type = model.RecordTypePage
	d.Action = ActionFrontPage
	d.Fallback = FallbackNone
	return true
}

func (rw *Rewriter) isPostsIndex(ctx context.Context, found model.Record, lang, def string) bool {
	postsID, err := rw.repo.GetPostsIndexID(ctx)
	if err != nil {
		rw.logger.Warn("reading posts page option failed", "error", err)
		return false
	}
	if postsID == 0 {
		return false
	}
	res, err := rw.resolver.ResolveID(ctx, postsID, lang, def)
	if err != nil {
		rw.logger.Warn("posts page lookup failed", "posts_page_id", postsID, "error", err)
		return false
	}
	return res.OK() && res.Record.ID == found.ID
}

// fallback records f unless an earlier step already recorded one.
func (rw *Rewriter) fallback(d Decision, f Fallback, msg string, args ...any) Decision {
	if d.Fallback == FallbackNone {
		d.Fallback = f
	}
	rw.logger.Debug("rewrite fallback: "+msg, append(args, "fallback", f.String())...)
	return d
}
