// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/langroute/internal/cache"
	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/middleware"
	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/router"
	"github.com/olegiv/langroute/internal/store"
	"github.com/olegiv/langroute/internal/testutil"
)

type testSite struct {
	mux     http.Handler
	queries *store.Queries
	cache   *cache.MemoryCache
}

// newTestSite serves the seeded demo content at siteURL through the same
// middleware chain as the server.
func newTestSite(t *testing.T, siteURL string) *testSite {
	t.Helper()

	db, cleanup := testutil.SeededDB(t)
	t.Cleanup(cleanup)
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { _ = mem.Close() })

	q := store.New(db)
	logger := testutil.TestLoggerSilent()
	langs := language.NewProvider(q, mem, time.Minute, language.Settings{DefaultLanguage: "en"}, logger)
	rt := router.New(router.NewSite(siteURL, nil), langs, q, logger)

	fh, err := NewFrontendHandler(rt, q, FrontendConfig{
		SiteName:     "Test Site",
		PostsPerPage: 1,
		SitemapCache: mem,
		SitemapTTL:   time.Minute,
	}, logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.Language(rt, logger))
	mount := rt.Site().Mount
	if mount == "" {
		mount = "/"
	}
	r.Mount(mount, fh.Routes())

	return &testSite{mux: r, queries: q, cache: mem}
}

func (s *testSite) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

// addPost creates a published post in lang as the root of its own group.
func (s *testSite) addPost(t *testing.T, slug, lang string) model.Record {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Add(time.Hour)

	rec, err := s.queries.CreateRecord(ctx, store.CreateRecordParams{
		Type: model.RecordTypePost, Slug: slug, Title: slug, Status: model.RecordStatusPublished,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, s.queries.SetRecordMeta(ctx, rec.ID, model.MetaLanguage, lang))
	require.NoError(t, s.queries.SetRecordMeta(ctx, rec.ID, model.MetaGroup, strconv.FormatInt(rec.ID, 10)))
	return rec
}

func TestFrontendHandler_Pages(t *testing.T) {
	site := newTestSite(t, "http://example.com")

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
	}{
		{
			name:   "default front page",
			path:   "/",
			status: http.StatusOK,
			contains: []string{
				`<html lang="en-US">`,
				"<strong>English</strong>",
				`<link rel="alternate" hreflang="es" href="http://example.com/es/" />`,
				`<link rel="alternate" hreflang="x-default" href="http://example.com/" />`,
				`<link rel="canonical" href="http://example.com/">`,
			},
		},
		{
			name:   "translated front page",
			path:   "/es/",
			status: http.StatusOK,
			contains: []string{
				`<html lang="es-ES">`,
				"<strong>inicio</strong>",
				`<meta property="og:locale" content="es_ES">`,
				`<meta property="og:locale:alternate" content="en_US">`,
			},
		},
		{
			name:     "translated page",
			path:     "/es/sobre-nosotros/",
			status:   http.StatusOK,
			contains: []string{"Acerca de este sitio.", `<a href="http://example.com/about/" hreflang="en" lang="en">`},
		},
		{
			name:     "default language post",
			path:     "/hello-world/",
			status:   http.StatusOK,
			contains: []string{"The first post.", `application/ld+json`, `"inLanguage": "en-US"`},
		},
		{
			name:     "translated post",
			path:     "/es/hola-mundo/",
			status:   http.StatusOK,
			contains: []string{"La primera entrada.", `"inLanguage": "es-ES"`},
		},
		{
			name:     "record without language in default language",
			path:     "/release-notes/",
			status:   http.StatusOK,
			contains: []string{"Only available in English."},
		},
		{
			name:     "untranslated record in other language",
			path:     "/es/release-notes/",
			status:   http.StatusNotFound,
			contains: []string{`<meta name="robots" content="noindex,follow">`},
		},
		{
			name:   "translated record under default language",
			path:   "/sobre-nosotros/",
			status: http.StatusNotFound,
		},
		{
			name:   "inactive language",
			path:   "/fr/",
			status: http.StatusNotFound,
		},
		{
			name:   "unknown slug",
			path:   "/es/missing/",
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := site.get(t, tt.path)
			assert.Equal(t, tt.status, w.Code)
			for _, want := range tt.contains {
				assert.Contains(t, w.Body.String(), want)
			}
		})
	}
}

func TestFrontendHandler_Redirects(t *testing.T) {
	site := newTestSite(t, "http://example.com")

	tests := []struct {
		name     string
		path     string
		location string
	}{
		{"default slug under language prefix", "/es/about/", "http://example.com/es/sobre-nosotros/"},
		{"front page by slug", "/home/", "http://example.com/"},
		{"translated front page by slug", "/es/inicio/", "http://example.com/es/"},
		{"posts page by default slug", "/es/blog/", "http://example.com/es/noticias/"},
		{"record by id", "/?p=7", "http://example.com/hello-world/"},
		{"page by id", "/?page_id=5", "http://example.com/about/"},
		{"missing trailing slash", "/es/sobre-nosotros", "http://example.com/es/sobre-nosotros/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := site.get(t, tt.path)
			assert.Equal(t, http.StatusMovedPermanently, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestFrontendHandler_PostsListing(t *testing.T) {
	site := newTestSite(t, "http://example.com")

	t.Run("default language includes records without language", func(t *testing.T) {
		w := site.get(t, "/blog/")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `<a href="http://example.com/release-notes/">Release notes</a>`)
		assert.Contains(t, body, `href="http://example.com/blog/page/2/" rel="next"`)
		assert.NotContains(t, body, "Hola mundo")
	})

	t.Run("second page", func(t *testing.T) {
		w := site.get(t, "/blog/page/2/")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `<a href="http://example.com/hello-world/">Hello world</a>`)
		assert.Contains(t, body, `href="http://example.com/blog/" rel="prev"`)
		assert.Contains(t, body, `<meta name="robots" content="noindex,follow">`)
	})

	t.Run("past the last page", func(t *testing.T) {
		w := site.get(t, "/blog/page/9/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("translated posts page", func(t *testing.T) {
		w := site.get(t, "/es/noticias/")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "<h1>Noticias</h1>")
		assert.Contains(t, body, `<a href="http://example.com/es/hola-mundo/">Hola mundo</a>`)
		assert.NotContains(t, body, "Release notes")
		assert.Contains(t, body, `<link rel="alternate" hreflang="en" href="http://example.com/blog/" />`)
		assert.NotContains(t, body, `rel="next"`)
	})
}

func TestFrontendHandler_MountedPagination(t *testing.T) {
	site := newTestSite(t, "http://example.com/site")
	site.addPost(t, "segunda-entrada", "es")

	w := site.get(t, "/site/es/noticias/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="http://example.com/site/es/noticias/page/2/" rel="next"`)
	assert.Contains(t, body, `<a href="http://example.com/site/es/segunda-entrada/">segunda-entrada</a>`)

	w = site.get(t, "/site/es/noticias/page/2/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<a href="http://example.com/site/es/hola-mundo/">Hola mundo</a>`)
	assert.Contains(t, w.Body.String(), `href="http://example.com/site/es/noticias/" rel="prev"`)
}

func TestFrontendHandler_Robots(t *testing.T) {
	site := newTestSite(t, "http://example.com")

	w := site.get(t, "/robots.txt")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Disallow: /admin\n")
	assert.Contains(t, w.Body.String(), "Sitemap: http://example.com/sitemap.xml\n")
}

func TestFrontendHandler_Sitemap(t *testing.T) {
	site := newTestSite(t, "http://example.com")

	w := site.get(t, "/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `xmlns:xhtml="http://www.w3.org/1999/xhtml"`)
	assert.Contains(t, body, "<loc>http://example.com/es/sobre-nosotros/</loc>")
	assert.Contains(t, body, "<loc>http://example.com/release-notes/</loc>")
	assert.Contains(t, body, `<xhtml:link rel="alternate" hreflang="es" href="http://example.com/es/"></xhtml:link>`)
	assert.Contains(t, body, `hreflang="x-default" href="http://example.com/about/"`)

	cached, err := site.cache.Get(context.Background(), sitemapCacheKey)
	require.NoError(t, err)
	assert.Equal(t, w.Body.Bytes(), cached)
}

func TestHostQueryVars(t *testing.T) {
	tests := []struct {
		rel   string
		query string
		want  router.QueryVars
	}{
		{"/", "", router.QueryVars{}},
		{"/about/", "", router.QueryVars{PageName: "about"}},
		{"/news/hello-world/", "", router.QueryVars{Category: "news", Name: "hello-world"}},
		{"/parent/child/leaf/", "", router.QueryVars{PageName: "leaf"}},
		{"/blog/page/3/", "", router.QueryVars{PageName: "blog", Paged: 3}},
		{"/page/2/", "", router.QueryVars{Paged: 2}},
		{"/", "p=7", router.QueryVars{RecordID: 7}},
		{"/", "page_id=5", router.QueryVars{RecordID: 5, Type: model.RecordTypePage}},
		{"/about/", "p=abc", router.QueryVars{PageName: "about"}},
	}

	for _, tt := range tests {
		t.Run(tt.rel+"?"+tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hostQueryVars(tt.rel, q))
		})
	}
}

func TestMatchesFilter(t *testing.T) {
	unset := model.Record{}
	es := model.Record{Language: "es"}

	assert.True(t, matchesFilter(router.Filter{Language: "en", IncludeUnset: true}, unset))
	assert.False(t, matchesFilter(router.Filter{Language: "es"}, unset))
	assert.True(t, matchesFilter(router.Filter{Language: "es"}, es))
	assert.False(t, matchesFilter(router.Filter{Language: "en", IncludeUnset: true}, es))
}

func TestRenderBodySanitizes(t *testing.T) {
	fh, err := NewFrontendHandler(nil, nil, FrontendConfig{}, testutil.TestLoggerSilent())
	require.NoError(t, err)

	out, err := renderBody(fh.md, "Hello **world**\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<strong>world</strong>")
	assert.NotContains(t, string(out), "<script>")
}
