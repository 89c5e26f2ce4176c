// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func testSite() *SiteConfig {
	return &SiteConfig{
		SiteName:        "My Site",
		SiteURL:         "https://example.com/blog",
		SiteDescription: "A great website",
		Locale:          "en_US",
	}
}

func TestBuildMetaHomepage(t *testing.T) {
	meta := BuildMeta(nil, testSite())

	if meta.Title != "My Site" {
		t.Errorf("Title = %q, want %q", meta.Title, "My Site")
	}
	if meta.Description != "A great website" {
		t.Errorf("Description = %q, want %q", meta.Description, "A great website")
	}
	if meta.OGType != "website" {
		t.Errorf("OGType = %q, want %q", meta.OGType, "website")
	}
	if meta.Canonical != "https://example.com/blog" {
		t.Errorf("Canonical = %q", meta.Canonical)
	}
	if meta.Robots != "index,follow" {
		t.Errorf("Robots = %q, want %q", meta.Robots, "index,follow")
	}
	if meta.OGLocale != "en_US" {
		t.Errorf("OGLocale = %q, want %q", meta.OGLocale, "en_US")
	}
}

func TestBuildMetaTranslatedPage(t *testing.T) {
	page := &PageData{
		Title:        "Sobre nosotros",
		Body:         "<p>Somos un <strong>equipo</strong> pequeño.</p>",
		CanonicalURL: "https://example.com/blog/es/sobre-nosotros/",
		Locale:       "es_ES",
		AltLocales:   []string{"en_US", "es_ES", ""},
		Article:      true,
		Alternates: []Alternate{
			{HrefLang: "en", URL: "https://example.com/blog/about/"},
			{HrefLang: "es", URL: "https://example.com/blog/es/sobre-nosotros/"},
		},
	}

	meta := BuildMeta(page, testSite())

	if meta.Title != "Sobre nosotros" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Description != "Somos un equipo pequeño." {
		t.Errorf("Description = %q", meta.Description)
	}
	if meta.OGType != "article" {
		t.Errorf("OGType = %q, want article", meta.OGType)
	}
	if meta.OGURL != page.CanonicalURL {
		t.Errorf("OGURL = %q, want %q", meta.OGURL, page.CanonicalURL)
	}
	if meta.OGLocale != "es_ES" {
		t.Errorf("OGLocale = %q, want es_ES", meta.OGLocale)
	}
	if len(meta.OGLocaleAlts) != 1 || meta.OGLocaleAlts[0] != "en_US" {
		t.Errorf("OGLocaleAlts = %v, want [en_US]", meta.OGLocaleAlts)
	}
	if !strings.Contains(string(meta.Alternates), `hreflang="es"`) {
		t.Errorf("Alternates missing es link: %s", meta.Alternates)
	}
}

func TestBuildMetaFallbacks(t *testing.T) {
	meta := BuildMeta(&PageData{NoIndex: true}, testSite())

	if meta.Title != "My Site" {
		t.Errorf("Title = %q, want site name", meta.Title)
	}
	if meta.Description != "A great website" {
		t.Errorf("Description = %q, want site description", meta.Description)
	}
	if meta.Canonical != "https://example.com/blog" {
		t.Errorf("Canonical = %q, want site URL", meta.Canonical)
	}
	if meta.Robots != "noindex,follow" {
		t.Errorf("Robots = %q, want noindex,follow", meta.Robots)
	}
	if meta.Alternates != "" {
		t.Errorf("Alternates = %q, want empty", meta.Alternates)
	}
}

func TestBuildArticleSchema(t *testing.T) {
	page := &PageData{
		Title:        "Hola mundo",
		Body:         "<p>Primera entrada.</p>",
		CanonicalURL: "https://example.com/blog/es/hola-mundo/",
	}
	published := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	schema := string(BuildArticleSchema(page, testSite(), "es-ES", published, time.Time{}))

	for _, want := range []string{
		`"@type": "Article"`,
		`"headline": "Hola mundo"`,
		`"inLanguage": "es-ES"`,
		`"datePublished": "2026-01-15T10:00:00Z"`,
		`"mainEntityOfPage": "https://example.com/blog/es/hola-mundo/"`,
		`"name": "My Site"`,
	} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %s:\n%s", want, schema)
		}
	}
	if strings.Contains(schema, "dateModified") {
		t.Error("schema should omit zero dateModified")
	}
}

func TestBuildArticleSchemaNilPage(t *testing.T) {
	if got := BuildArticleSchema(nil, testSite(), "en", time.Time{}, time.Time{}); got != "" {
		t.Errorf("BuildArticleSchema(nil) = %q, want empty", got)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple paragraph", input: "<p>Hello World</p>", want: "Hello World"},
		{name: "nested tags", input: "<div><p>Hello <strong>World</strong></p></div>", want: "Hello World"},
		{name: "multiple spaces", input: "<p>Hello</p>  <p>World</p>", want: "Hello World"},
		{name: "empty", input: "", want: ""},
		{name: "no tags", input: "Plain text", want: "Plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripHTML(tt.input)
			if got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{name: "short text", text: "Hello", maxLen: 100, want: "Hello"},
		{name: "exact length", text: "Hello", maxLen: 5, want: "Hello"},
		{name: "truncate at word boundary", text: "Hello World and more text here", maxLen: 15, want: "Hello World..."},
		{name: "multibyte runes", text: "Привет мир и еще текст", maxLen: 10, want: "Привет..."},
		{name: "empty text", text: "", maxLen: 100, want: ""},
		{name: "whitespace trimmed", text: "  Hello World  ", maxLen: 100, want: "Hello World"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateText(tt.text, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.text, tt.maxLen, got, tt.want)
			}
		})
	}
}
