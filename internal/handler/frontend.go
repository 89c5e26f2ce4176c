// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the public site.
package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/olegiv/langroute/internal/cache"
	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/router"
	"github.com/olegiv/langroute/internal/seo"
	"github.com/olegiv/langroute/internal/store"
	"github.com/olegiv/langroute/internal/translation"
	"github.com/olegiv/langroute/internal/util"
)

const defaultPostsPerPage = 10

var pagedSuffix = regexp.MustCompile(`^(.*?)/page/([0-9]+)/?$`)

// FrontendConfig holds site-wide settings of the public pages.
type FrontendConfig struct {
	SiteName        string
	SiteDescription string
	PostsPerPage    int
	// DisallowIndexing asks crawlers to skip the whole site.
	DisallowIndexing bool
	// SitemapCache holds the generated sitemap when set.
	SitemapCache cache.Cacher
	SitemapTTL   time.Duration
}

// FrontendHandler serves records and post listings in the language of the
// request.
type FrontendHandler struct {
	rt        *router.Router
	queries   *store.Queries
	resolver  *translation.Resolver
	md        goldmark.Markdown
	templates map[string]*template.Template
	cfg       FrontendConfig
	logger    *slog.Logger
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(rt *router.Router, queries *store.Queries, cfg FrontendConfig, logger *slog.Logger) (*FrontendHandler, error) {
	tmpls, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	if cfg.PostsPerPage <= 0 {
		cfg.PostsPerPage = defaultPostsPerPage
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "langroute"
	}
	return &FrontendHandler{
		rt:        rt,
		queries:   queries,
		resolver:  translation.NewResolver(queries),
		md:        goldmark.New(),
		templates: tmpls,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Routes returns the public routes, relative to the site mount.
func (h *FrontendHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/*", h.Serve)
	return r
}

// postView is a post in a listing.
type postView struct {
	Title string
	URL   string
	Date  string
}

// viewData is passed to every page template.
type viewData struct {
	HTMLAttrs template.HTMLAttr
	Meta      *seo.Meta
	Schema    template.JS
	BodyClass string
	HomeURL   string
	Switcher  []router.SwitcherOption

	// single
	Record *model.Record
	Body   template.HTML

	// listing
	Title   string
	Posts   []postView
	PrevURL string
	NextURL string
}

// Serve resolves the request path to a record or listing and renders it.
func (h *FrontendHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vars := hostQueryVars(h.rt.Site().Relative(r.URL.Path), r.URL.Query())
	d := h.rt.OnResolveQuery(ctx, vars)
	filter := h.rt.OnExecuteQuery(ctx)
	if filter.NotFound {
		h.renderNotFound(w, r)
		return
	}
	vars = d.Vars

	if vars.PostsIndex || filter.PostsIndex {
		page, _ := h.postsPage(ctx)
		h.listing(w, r, filter, vars.Paged, page)
		return
	}

	if isHomeQuery(vars) {
		h.home(w, r, filter, vars.Paged)
		return
	}

	rec, err := h.lookup(ctx, vars)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !matchesFilter(filter, rec)) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("failed to load record", "path", r.URL.Path, "error", err)
		h.renderError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if h.isPostsPage(ctx, rec) {
		h.listing(w, r, filter, vars.Paged, &rec)
		return
	}

	if q := r.URL.Query(); vars.RecordID > 0 && (q.Has("p") || q.Has("page_id")) {
		if target, ok := h.rt.OnHostCanonicalRedirect(ctx, h.hostPermalink(ctx, rec)); ok {
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
	}

	h.single(w, r, rec)
}

// hostPermalink is the language-free pretty URL of rec.
func (h *FrontendHandler) hostPermalink(ctx context.Context, rec model.Record) string {
	if id, err := h.queries.GetFrontPageID(ctx); err == nil && id == rec.ID {
		return h.rt.Site().Base + "/"
	}
	return h.rt.Site().Base + "/" + rec.Slug + "/"
}

// hostQueryVars interprets a mount-relative path the way a permalink-based
// host would, without any knowledge of languages.
func hostQueryVars(rel string, q url.Values) router.QueryVars {
	var v router.QueryVars

	if id, err := strconv.ParseInt(q.Get("page_id"), 10, 64); err == nil && id > 0 {
		v.RecordID = id
		v.Type = model.RecordTypePage
		return v
	}
	if id, err := strconv.ParseInt(q.Get("p"), 10, 64); err == nil && id > 0 {
		v.RecordID = id
		return v
	}

	if m := pagedSuffix.FindStringSubmatch(rel); m != nil {
		v.Paged, _ = strconv.Atoi(m[2])
		rel = m[1]
	}

	segs := strings.FieldsFunc(rel, func(r rune) bool { return r == '/' })
	switch len(segs) {
	case 0:
	case 1:
		v.PageName = segs[0]
	case 2:
		v.Category, v.Name = segs[0], segs[1]
	default:
		v.PageName = segs[len(segs)-1]
	}
	return v
}

func isHomeQuery(v router.QueryVars) bool {
	return v.RecordID == 0 && v.PageName == "" && v.Name == "" && v.Attachment == ""
}

// matchesFilter applies the language constraint of the request.
func matchesFilter(f router.Filter, rec model.Record) bool {
	if rec.Language == "" {
		return f.IncludeUnset
	}
	return rec.Language == f.Language
}

// lookup loads the published record selected by vars.
func (h *FrontendHandler) lookup(ctx context.Context, v router.QueryVars) (model.Record, error) {
	var (
		rec model.Record
		err error
	)
	switch {
	case v.RecordID > 0:
		rec, err = h.queries.GetRecord(ctx, v.RecordID)
	case v.PageName != "":
		rec, err = h.queries.FindRecordBySlug(ctx, v.PageName, model.RecordStatusPublished)
	case v.Name != "":
		rec, err = h.queries.FindRecordBySlug(ctx, v.Name, model.RecordStatusPublished)
	default:
		rec, err = h.queries.FindRecordBySlug(ctx, v.Attachment, model.RecordStatusPublished)
	}
	if err != nil {
		return model.Record{}, err
	}
	if !rec.IsPublished() || (v.Type != "" && rec.Type != v.Type) {
		return model.Record{}, store.ErrNotFound
	}
	return rec, nil
}

// postsPage returns the variant of the posts page in the request language.
func (h *FrontendHandler) postsPage(ctx context.Context) (*model.Record, error) {
	id, err := h.queries.GetPostsIndexID(ctx)
	if err != nil || id == 0 {
		return nil, err
	}
	res, err := h.resolver.ResolveID(ctx, id, h.rt.CurrentLanguage(ctx), h.rt.Registry(ctx).Default())
	if err != nil {
		h.logger.Warn("posts page lookup failed", "posts_page_id", id, "error", err)
		return nil, err
	}
	if !res.OK() {
		return nil, nil
	}
	return &res.Record, nil
}

func (h *FrontendHandler) isPostsPage(ctx context.Context, rec model.Record) bool {
	id, err := h.queries.GetPostsIndexID(ctx)
	if err != nil || id == 0 || !rec.IsPage() {
		return false
	}
	ok, err := h.resolver.IsVariantOf(ctx, rec, id)
	if err != nil {
		h.logger.Warn("posts page check failed", "record_id", rec.ID, "error", err)
		return false
	}
	return ok
}

// home serves the site root: the front page variant of the request
// language, or the posts listing when there is none.
func (h *FrontendHandler) home(w http.ResponseWriter, r *http.Request, filter router.Filter, paged int) {
	ctx := r.Context()

	frontID, err := h.queries.GetFrontPageID(ctx)
	if err != nil {
		h.logger.Warn("reading front page option failed", "error", err)
	}
	if frontID != 0 && paged <= 1 {
		res, err := h.resolver.ResolveID(ctx, frontID, filter.Language, h.rt.Registry(ctx).Default())
		if err != nil {
			h.logger.Warn("front page lookup failed", "front_page_id", frontID, "error", err)
		}
		if err == nil && res.OK() {
			h.single(w, r, res.Record)
			return
		}
	}
	h.listing(w, r, filter, paged, nil)
}

// single renders one record after canonicalizing the requested URL.
func (h *FrontendHandler) single(w http.ResponseWriter, r *http.Request, rec model.Record) {
	ctx := r.Context()

	if dir := h.rt.OnCanonicalRedirect(ctx, rec); dir.IsRedirect() {
		http.Redirect(w, r, dir.Target, dir.Status)
		return
	}

	body, err := renderBody(h.md, rec.Body)
	if err != nil {
		h.logger.Error("failed to render body", "record_id", rec.ID, "error", err)
		h.renderError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	data := h.baseData(ctx)
	data.Record = &rec
	data.Body = body
	data.BodyClass = "single-" + rec.Type
	data.Switcher = h.rt.Switcher(ctx, &rec)

	page := &seo.PageData{
		Title:        rec.Title,
		Body:         string(body),
		CanonicalURL: h.rt.ContentURL(ctx, rec),
		Locale:       h.locale(ctx),
		AltLocales:   h.altLocales(ctx, data.Switcher),
		Article:      rec.Type == model.RecordTypePost,
	}
	site := h.siteConfig(ctx, data.HomeURL)
	data.Meta = seo.BuildMeta(page, site)
	data.Meta.Alternates = h.rt.OnHeadRender(ctx, rec)
	if page.Article {
		lang := h.rt.Registry(ctx).HTMLLang(h.rt.CurrentLanguage(ctx))
		data.Schema = seo.BuildArticleSchema(page, site, lang, rec.CreatedAt, rec.UpdatedAt)
	}

	h.render(w, r, tmplSingle, data)
}

// listing renders a page of posts in the request language. page is the
// posts page variant, or nil for the home listing.
func (h *FrontendHandler) listing(w http.ResponseWriter, r *http.Request, filter router.Filter, paged int, page *model.Record) {
	ctx := r.Context()
	if paged < 1 {
		paged = 1
	}

	if page != nil && paged == 1 {
		if dir := h.rt.OnCanonicalRedirect(ctx, *page); dir.IsRedirect() {
			http.Redirect(w, r, dir.Target, dir.Status)
			return
		}
	}

	perPage := h.cfg.PostsPerPage
	posts, err := h.queries.ListPublishedPosts(ctx, store.ListPostsParams{
		Language:     filter.Language,
		IncludeUnset: filter.IncludeUnset,
		Limit:        int64(perPage + 1),
		Offset:       int64((paged - 1) * perPage),
	})
	if err != nil {
		h.logger.Error("failed to list posts", "language", filter.Language, "error", err)
		h.renderError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if paged > 1 && len(posts) == 0 {
		h.renderNotFound(w, r)
		return
	}
	hasNext := len(posts) > perPage
	if hasNext {
		posts = posts[:perPage]
	}

	data := h.baseData(ctx)
	data.BodyClass = "listing"
	data.Switcher = h.rt.Switcher(ctx, page)
	for _, p := range posts {
		host := h.rt.OnHomeURL(ctx, h.rt.Site().Base+"/"+p.Slug+"/")
		data.Posts = append(data.Posts, postView{
			Title: p.Title,
			URL:   h.rt.OnGeneratePermalink(ctx, p, host),
			Date:  p.CreatedAt.Format("2006-01-02"),
		})
	}
	if paged > 1 {
		data.PrevURL = h.pagenumLink(ctx, r.URL.Path, paged-1)
	}
	if hasNext {
		data.NextURL = h.pagenumLink(ctx, r.URL.Path, paged+1)
	}

	pd := &seo.PageData{
		CanonicalURL: h.pagenumLink(ctx, r.URL.Path, paged),
		Locale:       h.locale(ctx),
		AltLocales:   h.altLocales(ctx, data.Switcher),
		NoIndex:      paged > 1,
	}
	if page != nil {
		data.Title = page.Title
		pd.Title = page.Title
	}
	data.Meta = seo.BuildMeta(pd, h.siteConfig(ctx, data.HomeURL))
	if page != nil {
		data.Meta.Alternates = h.rt.OnHeadRender(ctx, *page)
	}

	h.render(w, r, tmplListing, data)
}

// pagenumLink builds a listing page link the way the host does: the
// request path with the home path removed, appended to the language-aware
// home URL, then passed through the pagination filter. When the home URL
// carries a language the mount is not removed, which the filter repairs.
func (h *FrontendHandler) pagenumLink(ctx context.Context, internalPath string, n int) string {
	p := internalPath
	if m := pagedSuffix.FindStringSubmatch(p); m != nil {
		p = m[1]
	}
	p = util.TrailingSlashIt(util.EnsureLeadingSlash(p))

	home := h.rt.OnHomeURL(ctx, h.rt.Site().Base+"/")
	homePath := "/"
	if u, err := url.Parse(home); err == nil && u.Path != "" {
		homePath = u.Path
	}
	if strings.HasPrefix(p, homePath) {
		p = p[len(homePath):]
	} else {
		p = strings.TrimPrefix(p, "/")
	}

	link := home + p
	if n > 1 {
		link += "page/" + strconv.Itoa(n) + "/"
	}
	return h.rt.OnPagenumLink(ctx, link)
}

func (h *FrontendHandler) baseData(ctx context.Context) viewData {
	return viewData{
		HTMLAttrs: template.HTMLAttr(h.rt.OnLanguageAttributes(ctx, "")),
		HomeURL:   h.rt.OnHomeURL(ctx, h.rt.Site().Base+"/"),
	}
}

func (h *FrontendHandler) locale(ctx context.Context) string {
	return h.rt.Registry(ctx).Locale(h.rt.CurrentLanguage(ctx))
}

func (h *FrontendHandler) altLocales(ctx context.Context, opts []router.SwitcherOption) []string {
	reg := h.rt.Registry(ctx)
	var out []string
	for _, o := range opts {
		if !o.Current {
			out = append(out, reg.Locale(o.Code))
		}
	}
	return out
}

func (h *FrontendHandler) siteConfig(ctx context.Context, homeURL string) *seo.SiteConfig {
	return &seo.SiteConfig{
		SiteName:        h.cfg.SiteName,
		SiteURL:         homeURL,
		SiteDescription: h.cfg.SiteDescription,
		Locale:          h.locale(ctx),
	}
}

// render renders a page template inside the layout.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, name string, data viewData) {
	h.renderStatus(w, r, http.StatusOK, name, data)
}

func (h *FrontendHandler) renderStatus(w http.ResponseWriter, _ *http.Request, status int, name string, data viewData) {
	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := h.templates[name].ExecuteTemplate(buf, "layout", data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		h.renderError(w, http.StatusInternalServerError, "Template rendering error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderNotFound renders the 404 page.
func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := h.baseData(ctx)
	data.BodyClass = "error-404"
	data.Meta = seo.BuildMeta(&seo.PageData{
		Title:        "Page Not Found",
		CanonicalURL: data.HomeURL,
		Locale:       h.locale(ctx),
		NoIndex:      true,
	}, h.siteConfig(ctx, data.HomeURL))
	h.renderStatus(w, r, http.StatusNotFound, tmplNotFound, data)
}

// renderError renders an error page.
func (h *FrontendHandler) renderError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Error</title></head>
<body>
<h1>%d - %s</h1>
<p>An error occurred while processing your request.</p>
</body>
</html>`, statusCode, template.HTMLEscapeString(message))
}
