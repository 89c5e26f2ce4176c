// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates. Each is rendered inside the shared layout.
const (
	tmplSingle   = "single"
	tmplListing  = "listing"
	tmplNotFound = "404"
)

// loadTemplates parses the layout once per page template.
func loadTemplates() (map[string]*template.Template, error) {
	set := make(map[string]*template.Template, 3)
	for _, name := range []string{tmplSingle, tmplListing, tmplNotFound} {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		set[name] = t
	}
	return set, nil
}

// bodySanitizer allows the safe subset of HTML produced by Markdown.
var bodySanitizer = bluemonday.UGCPolicy()

// renderBody converts a Markdown record body to sanitized HTML.
func renderBody(md goldmark.Markdown, body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("rendering body: %w", err)
	}
	return template.HTML(bodySanitizer.SanitizeBytes(buf.Bytes())), nil
}
