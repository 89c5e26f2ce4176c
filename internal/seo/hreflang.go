// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"html/template"
	"sort"
	"strings"
)

// XDefault is the hreflang value for the language-neutral fallback.
const XDefault = "x-default"

// Alternate is one language variant of the current page.
type Alternate struct {
	HrefLang string
	URL      string
}

// SortAlternates orders alternates by hreflang, keeping x-default last and
// dropping entries with a repeated hreflang or an empty URL.
func SortAlternates(alts []Alternate) []Alternate {
	seen := make(map[string]bool, len(alts))
	out := make([]Alternate, 0, len(alts))
	for _, a := range alts {
		key := strings.ToLower(a.HrefLang)
		if a.URL == "" || key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		xi, xj := out[i].HrefLang == XDefault, out[j].HrefLang == XDefault
		if xi != xj {
			return xj
		}
		return out[i].HrefLang < out[j].HrefLang
	})
	return out
}

// RenderAlternates renders <link rel="alternate"> tags for the head.
func RenderAlternates(alts []Alternate) template.HTML {
	alts = SortAlternates(alts)
	if len(alts) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, a := range alts {
		sb.WriteString(`<link rel="alternate" hreflang="`)
		sb.WriteString(template.HTMLEscapeString(a.HrefLang))
		sb.WriteString(`" href="`)
		sb.WriteString(template.HTMLEscapeString(a.URL))
		sb.WriteString("\" />\n")
	}
	return template.HTML(sb.String())
}
