// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseActiveLanguages(t *testing.T) {
	reg := testRegistry()
	remainders := []string{"", "about/", "a/b/c/", "news/page/2/", "hello", "x.html"}

	for _, mount := range []string{"", "/blog"} {
		p := NewParser(NewSite(testBase+mount, nil))
		for _, lang := range reg.Active() {
			for _, rest := range remainders {
				got := p.Parse(reg, mount+"/"+lang+"/"+rest)
				assert.Equal(t, lang, got.Language, "mount=%q rest=%q", mount, rest)
				assert.Equal(t, "/"+rest, got.Remainder, "mount=%q lang=%q", mount, lang)
				assert.Equal(t, OutcomeDetected, got.Outcome)
				assert.True(t, got.Active)
				assert.False(t, got.DefaultImplied)
				assert.Equal(t, mount+"/"+rest, got.InternalPath)
			}
		}
	}
}

func TestParseInactiveLanguage(t *testing.T) {
	reg := testRegistry()
	p := NewParser(NewSite(testBase, nil))

	for _, path := range []string{"/fr/", "/fr", "/fr/about/", "/de/x/y/z", "/ar/page/2/"} {
		got := p.Parse(reg, path)
		assert.Equal(t, OutcomeNotFound, got.Outcome, path)
		assert.False(t, got.Active, path)
	}
}

func TestParseDefaultImplied(t *testing.T) {
	reg := testRegistry()
	p := NewParser(NewSite(testBase+"/blog", nil))

	tests := []struct {
		path      string
		remainder string
	}{
		{"/blog/", "/"},
		{"/blog", "/"},
		{"/blog/about/", "/about/"},
		{"/blog/xx/about/", "/xx/about/"},
		{"/blog/esp/", "/esp/"},
		{"/blogger/es/", "/blogger/es/"},
		{"", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := p.Parse(reg, tt.path)
			assert.Equal(t, OutcomeDefault, got.Outcome)
			assert.Equal(t, "en", got.Language)
			assert.True(t, got.DefaultImplied)
			assert.Equal(t, tt.remainder, got.Remainder)
		})
	}
}

func TestParseRootMount(t *testing.T) {
	reg := testRegistry()
	p := NewParser(NewSite(testBase+"/", nil))

	got := p.Parse(reg, "/es/")
	assert.Equal(t, "es", got.Language)
	assert.Equal(t, "/", got.Remainder)
	assert.Equal(t, "/", got.InternalPath)
}

func TestParseRequestTrailingSlashRedirect(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name   string
		site   string
		req    RequestInfo
		target string
	}{
		{
			name:   "missing slash",
			site:   testBase,
			req:    RequestInfo{Method: http.MethodGet, Path: "/es/hello"},
			target: testBase + "/es/hello/",
		},
		{
			name:   "language root",
			site:   testBase,
			req:    RequestInfo{Method: http.MethodGet, Path: "/es"},
			target: testBase + "/es/",
		},
		{
			name:   "query preserved",
			site:   testBase,
			req:    RequestInfo{Method: http.MethodGet, Path: "/es/hello", RawQuery: "a=1&b=2"},
			target: testBase + "/es/hello/?a=1&b=2",
		},
		{
			name:   "mounted",
			site:   testBase + "/blog",
			req:    RequestInfo{Method: http.MethodGet, Path: "/blog/es/news/page/2"},
			target: testBase + "/blog/es/news/page/2/",
		},
		{name: "has slash", site: testBase, req: RequestInfo{Path: "/es/hello/"}},
		{name: "file", site: testBase, req: RequestInfo{Path: "/es/sitemap.xml"}},
		{name: "default language", site: testBase, req: RequestInfo{Path: "/hello"}},
		{name: "inactive language", site: testBase, req: RequestInfo{Path: "/fr/hello"}},
		{name: "excluded after language", site: testBase, req: RequestInfo{Path: "/es/admin/users"}},
		{name: "excluded api", site: testBase, req: RequestInfo{Path: "/es/api"}},
		{name: "preview", site: testBase, req: RequestInfo{Path: "/es/hello", Preview: true}},
		{name: "builder", site: testBase, req: RequestInfo{Path: "/es/hello", Builder: true}},
		{name: "admin", site: testBase, req: RequestInfo{Path: "/es/hello", Admin: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewParser(NewSite(tt.site, nil)).ParseRequest(reg, tt.req)
			if tt.target == "" {
				assert.False(t, got.Redirect.IsRedirect(), "unexpected redirect to %q", got.Redirect.Target)
				return
			}
			assert.Equal(t, Directive{Target: tt.target, Status: http.StatusMovedPermanently}, got.Redirect)
		})
	}
}

func TestParseRequestConfiguredExclusion(t *testing.T) {
	p := NewParser(NewSite(testBase, []string{"shop/", " "}))
	got := p.ParseRequest(testRegistry(), RequestInfo{Path: "/es/shop/cart"})
	assert.False(t, got.Redirect.IsRedirect())
	assert.Equal(t, "es", got.Language)
}
