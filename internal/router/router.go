// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"context"
	"html/template"
	"log/slog"

	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/seo"
	"github.com/olegiv/langroute/internal/translation"
)

// Router is the set of hook points the HTTP adapter calls during a request.
// It holds no per-request state; that lives in the RequestState carried by
// the context.
type Router struct {
	site     Site
	langs    Languages
	repo     Repository
	resolver *translation.Resolver
	parser   *Parser
	rewriter *Rewriter
	composer *Composer
	policy   RedirectPolicy
	logger   *slog.Logger
}

// New wires a Router.
func New(site Site, langs Languages, repo Repository, logger *slog.Logger) *Router {
	resolver := translation.NewResolver(repo)
	return &Router{
		site:     site,
		langs:    langs,
		repo:     repo,
		resolver: resolver,
		parser:   NewParser(site),
		rewriter: NewRewriter(site, repo, resolver, logger),
		composer: NewComposer(site, repo, resolver, logger),
		logger:   logger,
	}
}

// Site returns the site configuration.
func (r *Router) Site() Site {
	return r.site
}

// Composer returns the URL composer.
func (r *Router) Composer() *Composer {
	return r.composer
}

// Registry returns the language registry of the current request: the
// snapshot taken at detection, or a fresh one outside a request.
func (r *Router) Registry(ctx context.Context) *language.Registry {
	if s := StateFrom(ctx); s != nil {
		if reg := s.registry(); reg != nil {
			return reg
		}
	}
	return r.langs.Registry(ctx)
}

// OnRequestInit detects the request language before routing. Within one
// request the first result is memoized and returned on every later call.
func (r *Router) OnRequestInit(ctx context.Context, req RequestInfo) ParsedPath {
	detect := func() (ParsedPath, *language.Registry, RequestInfo) {
		reg := r.langs.Registry(ctx)
		return r.parser.ParseRequest(reg, req), reg, req
	}

	s := StateFrom(ctx)
	if s == nil {
		p, _, _ := detect()
		return p
	}
	p := s.detect(detect)
	r.logger.Debug("language detected",
		"request_id", s.RequestID,
		"language", p.Language,
		"outcome", p.Outcome.String(),
		"internal_path", p.InternalPath)
	return p
}

// parsed returns the detection result of the request, treating a request
// without detection as the default language.
func (r *Router) parsed(ctx context.Context) (ParsedPath, RequestInfo) {
	if s := StateFrom(ctx); s != nil {
		if p, ok := s.Parsed(); ok {
			info, _ := s.requestInfo()
			return p, info
		}
	}
	def := r.langs.Registry(ctx).Default()
	return ParsedPath{Language: def, DefaultImplied: true, Active: true, Outcome: OutcomeDefault}, RequestInfo{}
}

// CurrentLanguage returns the language of the request. An inactive language
// reports the default.
func (r *Router) CurrentLanguage(ctx context.Context) string {
	p, _ := r.parsed(ctx)
	if p.Outcome == OutcomeNotFound {
		return r.Registry(ctx).Default()
	}
	return p.Language
}

// OnResolveQuery rewrites the host's query variables to select the variant
// in the request language. Administrative requests pass through.
func (r *Router) OnResolveQuery(ctx context.Context, vars QueryVars) Decision {
	p, info := r.parsed(ctx)
	if info.Admin {
		return Decision{Vars: vars}
	}

	d := r.rewriter.Rewrite(ctx, r.Registry(ctx), p, vars)
	if d.Action == ActionPostsIndex {
		if s := StateFrom(ctx); s != nil {
			s.setPostsPage()
		}
	}
	if s := StateFrom(ctx); s != nil {
		r.logger.Debug("query rewritten",
			"request_id", s.RequestID,
			"action", d.Action.String(),
			"fallback", d.Fallback.String())
	}
	return d
}

// OnExecuteQuery returns the language constraint for content queries. An
// inactive language always yields NotFound.
func (r *Router) OnExecuteQuery(ctx context.Context) Filter {
	p, _ := r.parsed(ctx)
	if p.Outcome == OutcomeNotFound {
		return Filter{NotFound: true}
	}

	postsIndex := false
	if s := StateFrom(ctx); s != nil {
		postsIndex = s.IsPostsPage()
	}
	def := r.Registry(ctx).Default()
	return Filter{
		Language:     p.Language,
		IncludeUnset: p.Language == def,
		PostsIndex:   postsIndex,
	}
}

// OnGeneratePermalink re-embeds the language of rec into a host URL.
func (r *Router) OnGeneratePermalink(ctx context.Context, rec model.Record, hostURL string) string {
	return r.composer.Permalink(ctx, r.Registry(ctx), r.CurrentLanguage(ctx), rec, hostURL)
}

// ContentURL returns the canonical URL of rec.
func (r *Router) ContentURL(ctx context.Context, rec model.Record) string {
	return r.composer.ContentURL(ctx, r.Registry(ctx), rec)
}

// HomeURL returns the root URL of lang.
func (r *Router) HomeURL(ctx context.Context, lang string) string {
	return r.composer.HomeURL(r.Registry(ctx), lang)
}

// OnHomeURL injects the request language into a host-built site URL.
func (r *Router) OnHomeURL(ctx context.Context, u string) string {
	return r.composer.FilterHomeURL(r.Registry(ctx), r.CurrentLanguage(ctx), u)
}

// OnPagenumLink fixes pagination links of sites served from a sub-path.
func (r *Router) OnPagenumLink(ctx context.Context, link string) string {
	return r.composer.FilterPagenumLink(r.Registry(ctx), r.CurrentLanguage(ctx), link)
}

// OnHostCanonicalRedirect filters the host's own canonical redirect. It
// reports false, suppressing the redirect, for non-default languages.
func (r *Router) OnHostCanonicalRedirect(ctx context.Context, target string) (string, bool) {
	if r.CurrentLanguage(ctx) != r.Registry(ctx).Default() {
		return "", false
	}
	return target, true
}

// OnCanonicalRedirect decides whether the singular record being served must
// be redirected to its canonical URL.
func (r *Router) OnCanonicalRedirect(ctx context.Context, rec model.Record) Directive {
	s := StateFrom(ctx)
	if s == nil || s.RequestedURL == "" {
		return Directive{}
	}
	_, info := r.parsed(ctx)
	return r.policy.Decide(info, s.RequestedURL, r.ContentURL(ctx, rec))
}

// Alternates lists the URL of every active-language member of rec's
// translation group, plus x-default for the default-language member.
func (r *Router) Alternates(ctx context.Context, rec model.Record) []seo.Alternate {
	reg := r.Registry(ctx)
	members, err := r.resolver.Members(ctx, rec, reg.Default())
	if err != nil {
		r.logger.Warn("listing translations failed", "record_id", rec.ID, "error", err)
		return nil
	}

	var alts []seo.Alternate
	for _, lang := range reg.Active() {
		m, ok := members[lang]
		if !ok {
			continue
		}
		u := r.composer.ContentURL(ctx, reg, m)
		alts = append(alts, seo.Alternate{HrefLang: lang, URL: u})
		if lang == reg.Default() {
			alts = append(alts, seo.Alternate{HrefLang: seo.XDefault, URL: u})
		}
	}
	return alts
}

// OnHeadRender returns the hreflang links for the head of rec's page.
func (r *Router) OnHeadRender(ctx context.Context, rec model.Record) template.HTML {
	return seo.RenderAlternates(r.Alternates(ctx, rec))
}

// OnLanguageAttributes substitutes the request locale into the attribute
// string of the document root element.
func (r *Router) OnLanguageAttributes(ctx context.Context, existing string) string {
	return r.composer.LanguageAttribute(r.Registry(ctx), existing, r.CurrentLanguage(ctx))
}
