// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds head metadata, hreflang alternates, sitemaps and
// robots.txt for language-routed pages.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

// Meta holds the head metadata for a page.
type Meta struct {
	Title         string
	Description   string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGType        string // website, article
	OGSiteName    string
	OGURL         string
	OGLocale      string   // og:locale, e.g. es_ES
	OGLocaleAlts  []string // og:locale:alternate
	Robots        string
	Alternates    template.HTML
}

// PageData contains page information for building meta tags.
type PageData struct {
	Title        string
	Body         string
	CanonicalURL string
	Locale       string
	// AltLocales are the locales of the other group members.
	AltLocales []string
	NoIndex    bool
	Article    bool
	Alternates []Alternate
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	Locale          string
}

// BuildMeta creates a Meta struct from page and site data with proper fallbacks.
func BuildMeta(page *PageData, site *SiteConfig) *Meta {
	meta := &Meta{
		OGType:     "website",
		OGSiteName: site.SiteName,
		OGLocale:   site.Locale,
	}

	if page == nil {
		meta.Title = site.SiteName
		meta.OGTitle = site.SiteName
		meta.Description = site.SiteDescription
		meta.OGDescription = site.SiteDescription
		meta.Canonical = site.SiteURL
		meta.OGURL = site.SiteURL
		meta.Robots = buildRobotsDirective(false)
		return meta
	}

	if page.Article {
		meta.OGType = "article"
	}
	meta.Title = page.Title
	if page.Title == "" {
		meta.Title = site.SiteName
	}
	meta.OGTitle = meta.Title

	if page.Body != "" {
		meta.Description = truncateText(stripHTML(page.Body), 160)
	} else {
		meta.Description = site.SiteDescription
	}
	meta.OGDescription = meta.Description

	meta.Canonical = page.CanonicalURL
	if meta.Canonical == "" {
		meta.Canonical = site.SiteURL
	}
	meta.OGURL = meta.Canonical

	if page.Locale != "" {
		meta.OGLocale = page.Locale
	}
	for _, l := range page.AltLocales {
		if l != "" && l != meta.OGLocale {
			meta.OGLocaleAlts = append(meta.OGLocaleAlts, l)
		}
	}

	meta.Robots = buildRobotsDirective(page.NoIndex)
	meta.Alternates = RenderAlternates(page.Alternates)
	return meta
}

func buildRobotsDirective(noIndex bool) string {
	if noIndex {
		return "noindex,follow"
	}
	return "index,follow"
}

// ArticleSchema represents JSON-LD Article structured data.
type ArticleSchema struct {
	Context          string     `json:"@context"`
	Type             string     `json:"@type"`
	Headline         string     `json:"headline"`
	Description      string     `json:"description,omitempty"`
	InLanguage       string     `json:"inLanguage,omitempty"`
	DatePublished    string     `json:"datePublished,omitempty"`
	DateModified     string     `json:"dateModified,omitempty"`
	Publisher        *OrgSchema `json:"publisher,omitempty"`
	MainEntityOfPage string     `json:"mainEntityOfPage,omitempty"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// BuildArticleSchema creates JSON-LD Article structured data for a page.
// lang is a BCP 47 tag.
func BuildArticleSchema(page *PageData, site *SiteConfig, lang string, publishedAt, modifiedAt time.Time) template.JS {
	if page == nil {
		return ""
	}

	article := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         page.Title,
		Description:      truncateText(stripHTML(page.Body), 160),
		InLanguage:       lang,
		MainEntityOfPage: page.CanonicalURL,
		Publisher: &OrgSchema{
			Type: "Organization",
			Name: site.SiteName,
		},
	}
	if !publishedAt.IsZero() {
		article.DatePublished = publishedAt.UTC().Format(time.RFC3339)
	}
	if !modifiedAt.IsZero() {
		article.DateModified = modifiedAt.UTC().Format(time.RFC3339)
	}

	return marshalJSONLD(article)
}

func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// stripHTML removes HTML tags from a string.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// truncateText truncates text to maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	truncated := string([]rune(text)[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}
