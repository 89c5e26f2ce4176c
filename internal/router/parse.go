// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"strings"

	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/util"
)

// Parser splits request paths into a language and a remainder.
type Parser struct {
	site Site
}

// NewParser returns a Parser for site.
func NewParser(site Site) *Parser {
	return &Parser{site: site}
}

// Parse detects the language of a raw path (without query).
func (p *Parser) Parse(reg *language.Registry, rawPath string) ParsedPath {
	stripped := p.site.stripMount(rawPath)

	candidate, rest, _ := strings.Cut(strings.TrimPrefix(stripped, "/"), "/")

	if candidate != "" && reg.IsSupported(candidate) {
		if !reg.IsActive(candidate) {
			return ParsedPath{
				Language:     candidate,
				Remainder:    stripped,
				Outcome:      OutcomeNotFound,
				InternalPath: p.site.Mount + stripped,
			}
		}
		remainder := "/" + rest
		return ParsedPath{
			Language:     candidate,
			Remainder:    remainder,
			Active:       true,
			Outcome:      OutcomeDetected,
			InternalPath: p.site.Mount + remainder,
		}
	}

	return ParsedPath{
		Language:       reg.Default(),
		DefaultImplied: true,
		Remainder:      stripped,
		Active:         true,
		Outcome:        OutcomeDefault,
		InternalPath:   p.site.Mount + stripped,
	}
}

// ParseRequest is Parse plus the trailing-slash canonicalization policy: a
// detected language path without a trailing slash, whose last segment is
// not a file name and which is not an excluded system path, is redirected
// permanently to the same path with a slash appended. The query string is
// kept.
func (p *Parser) ParseRequest(reg *language.Registry, req RequestInfo) ParsedPath {
	parsed := p.Parse(reg, req.Path)
	if parsed.Outcome != OutcomeDetected || req.isEditorContext() {
		return parsed
	}

	path := util.EnsureLeadingSlash(req.Path)
	if util.HasTrailingSlash(path) || util.HasFileExtension(path) {
		return parsed
	}
	if p.site.isExcluded(p.site.stripMount(path)) || p.site.isExcluded(parsed.Remainder) {
		return parsed
	}

	target := p.site.Base + "/" + parsed.Language + util.TrailingSlashIt(parsed.Remainder)
	if req.RawQuery != "" {
		target = strings.TrimRight(target, "/") + "/?" + req.RawQuery
	}
	parsed.Redirect = permanent(target)
	return parsed
}
