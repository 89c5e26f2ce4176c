// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/translation"
	"github.com/olegiv/langroute/internal/util"
)

var (
	langAttr = regexp.MustCompile(`lang="([^"]+)"`)
	dirAttr  = regexp.MustCompile(`\bdir="`)
)

// Composer builds public URLs that embed the language of their target.
// Every URL is built from the clean site base, never from a URL that may
// already carry a request language.
type Composer struct {
	site     Site
	repo     Repository
	resolver *translation.Resolver
	logger   *slog.Logger
}

// NewComposer returns a Composer.
func NewComposer(site Site, repo Repository, resolver *translation.Resolver, logger *slog.Logger) *Composer {
	return &Composer{site: site, repo: repo, resolver: resolver, logger: logger}
}

// ContentURL returns the canonical absolute URL of rec.
func (c *Composer) ContentURL(ctx context.Context, reg *language.Registry, rec model.Record) string {
	return c.Permalink(ctx, reg, reg.Default(), rec, c.site.Base+c.hostPath(ctx, rec))
}

// hostPath is the language-free path the host would link rec at.
func (c *Composer) hostPath(ctx context.Context, rec model.Record) string {
	frontID, err := c.repo.GetFrontPageID(ctx)
	if err != nil {
		c.logger.Warn("reading front page option failed", "error", err)
	}
	if frontID != 0 && rec.ID == frontID {
		return "/"
	}
	return "/" + rec.Slug + "/"
}

// Permalink rewrites a host-generated URL for rec so that it carries the
// record's language. current is the language of the request the URL was
// generated in: a host URL built while serving /es/ may already start with
// /es even when rec is in another language. Applying Permalink to its own
// output returns the same URL.
func (c *Composer) Permalink(ctx context.Context, reg *language.Registry, current string, rec model.Record, hostURL string) string {
	def := reg.Default()
	target := rec.LanguageOr(def)
	clean := c.site.Base

	if !hasSegmentPrefix(hostURL, clean) {
		return hostURL
	}

	used := clean
	if current != def && hasSegmentPrefix(hostURL, clean+"/"+current) {
		used = clean + "/" + current
	}
	path := strings.TrimLeft(hostURL[len(used):], "/")

	if target != def && c.isFrontVariant(ctx, rec, target, def) {
		return clean + "/" + target + "/"
	}

	path = stripLanguageSegment(reg, path)
	if target != def {
		return clean + "/" + target + "/" + path
	}
	return clean + "/" + path
}

func (c *Composer) isFrontVariant(ctx context.Context, rec model.Record, lang, def string) bool {
	frontID, err := c.repo.GetFrontPageID(ctx)
	if err != nil {
		c.logger.Warn("reading front page option failed", "error", err)
		return false
	}
	if frontID == 0 {
		return false
	}
	res, err := c.resolver.ResolveID(ctx, frontID, lang, def)
	if err != nil {
		c.logger.Warn("front page lookup failed", "front_page_id", frontID, "error", err)
		return false
	}
	return res.OK() && res.Record.ID == rec.ID
}

// HomeURL returns the root URL of lang.
func (c *Composer) HomeURL(reg *language.Registry, lang string) string {
	if lang == reg.Default() || lang == "" {
		return c.site.Base + "/"
	}
	return c.site.Base + "/" + lang + "/"
}

// TranslationURL returns the URL of rec's variant in lang. It reports false
// when the translation group has no such variant.
func (c *Composer) TranslationURL(ctx context.Context, reg *language.Registry, rec model.Record, lang string) (string, bool) {
	res, err := c.resolver.Resolve(ctx, rec, lang, reg.Default())
	if err != nil {
		c.logger.Warn("translation lookup failed", "record_id", rec.ID, "language", lang, "error", err)
		return "", false
	}
	if !res.OK() {
		return "", false
	}
	return c.ContentURL(ctx, reg, res.Record), true
}

// FilterHomeURL injects the request language into a host URL built from
// the clean site base. The language root always ends with a slash and a URL
// that already carries the prefix is returned unchanged.
func (c *Composer) FilterHomeURL(reg *language.Registry, current, u string) string {
	if current == reg.Default() || current == "" {
		return u
	}

	base, query := util.SplitQuery(u)
	clean := c.site.Base
	if !hasSegmentPrefix(base, clean) {
		return u
	}

	rel := base[len(clean):]
	prefix := "/" + current
	if strings.HasPrefix(rel, prefix+"/") {
		return u
	}

	filtered := clean + prefix + rel
	if rel == "" || rel == "/" || rel == prefix {
		filtered = clean + prefix + "/"
	}
	if query != "" {
		filtered += "?" + query
	}
	return filtered
}

// FilterPagenumLink collapses /lang/mount/ into /lang/ in pagination links
// of sites served from a sub-path.
func (c *Composer) FilterPagenumLink(reg *language.Registry, current, link string) string {
	if current == reg.Default() || current == "" || c.site.Mount == "" {
		return link
	}
	return strings.ReplaceAll(link, "/"+current+c.site.Mount+"/", "/"+current+"/")
}

// LanguageAttribute replaces the lang attribute in the attribute string of
// the document root element with the BCP 47 tag of lang, adding it when
// absent. A dir attribute is added for right-to-left languages.
func (c *Composer) LanguageAttribute(reg *language.Registry, existing, lang string) string {
	attr := `lang="` + reg.HTMLLang(lang) + `"`

	var out string
	if langAttr.MatchString(existing) {
		out = langAttr.ReplaceAllLiteralString(existing, attr)
	} else {
		out = strings.TrimSpace(existing + " " + attr)
	}

	if reg.Direction(lang) == model.DirectionRTL && !dirAttr.MatchString(out) {
		out += ` dir="rtl"`
	}
	return out
}

// hasSegmentPrefix reports whether s starts with prefix followed by the end
// of the string, a slash or a query.
func hasSegmentPrefix(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	if len(s) == len(prefix) {
		return true
	}
	switch s[len(prefix)] {
	case '/', '?', '#':
		return true
	}
	return false
}

// stripLanguageSegment removes a leading supported language segment from a
// relative path such as "es/about/".
func stripLanguageSegment(reg *language.Registry, path string) string {
	seg, rest, found := strings.Cut(path, "/")
	if !reg.IsSupported(seg) {
		return path
	}
	if !found {
		return ""
	}
	return rest
}
