// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"time"
)

// XML namespaces used by the sitemap.
const (
	XMLNamespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace    = "http://www.w3.org/1999/xhtml"
	alternateRelation = "alternate"
)

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// XHTMLLink is an hreflang alternate inside a sitemap entry.
type XHTMLLink struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq  `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Alternates []XHTMLLink `xml:"xhtml:link"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSXHTML string       `xml:"xmlns:xhtml,attr,omitempty"`
	URLs       []SitemapURL `xml:"url"`
}

// SitemapEntry is one language variant of a record.
type SitemapEntry struct {
	URL        string
	UpdatedAt  time.Time
	Home       bool
	Alternates []Alternate
}

// SitemapBuilder builds sitemap XML with hreflang alternates.
type SitemapBuilder struct {
	urls      []SitemapURL
	hasXHTMLs bool
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder() *SitemapBuilder {
	return &SitemapBuilder{urls: make([]SitemapURL, 0)}
}

// Add appends an entry. Every variant of a group should be added with the
// same alternates so that the annotations are reciprocal.
func (b *SitemapBuilder) Add(e SitemapEntry) {
	u := SitemapURL{
		Loc:        e.URL,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if e.Home {
		u.ChangeFreq = ChangeFreqDaily
		u.Priority = "1.0"
	}
	if !e.UpdatedAt.IsZero() {
		u.LastMod = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, a := range SortAlternates(e.Alternates) {
		u.Alternates = append(u.Alternates, XHTMLLink{
			Rel:      alternateRelation,
			HrefLang: a.HrefLang,
			Href:     a.URL,
		})
	}
	if len(u.Alternates) > 0 {
		b.hasXHTMLs = true
	}
	b.urls = append(b.urls, u)
}

// Len returns the number of entries added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}
	if b.hasXHTMLs {
		sitemap.XMLNSXHTML = XHTMLNamespace
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
