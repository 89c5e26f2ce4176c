// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"net/url"
	"strings"

	"github.com/olegiv/langroute/internal/util"
)

// defaultExcluded are path prefixes that are never language-canonicalized.
var defaultExcluded = []string{"/admin", "/api", "/login", "/xmlrpc", "/health"}

// Site is the clean base configuration of the site. It never carries a
// language prefix.
type Site struct {
	// Base is the absolute site URL without a trailing slash, including the
	// mount path.
	Base string
	// Mount is "" for a site at the domain root, otherwise e.g. "/blog".
	Mount string
	// Excluded lists path prefixes, relative to the mount, that are skipped
	// by trailing-slash canonicalization.
	Excluded []string
}

// NewSite builds a Site from the public site URL and extra excluded prefixes.
func NewSite(siteURL string, excluded []string) Site {
	base := strings.TrimRight(siteURL, "/")
	mount := ""
	if u, err := url.Parse(base); err == nil {
		mount = util.NormalizeMount(u.Path)
	}

	ex := append([]string(nil), defaultExcluded...)
	for _, p := range excluded {
		p = strings.TrimSpace(p)
		if p != "" {
			ex = append(ex, util.UntrailingSlashIt(util.EnsureLeadingSlash(p)))
		}
	}
	return Site{Base: base, Mount: mount, Excluded: ex}
}

// mountSegment returns the mount path without slashes, e.g. "blog".
func (s Site) mountSegment() string {
	return strings.Trim(s.Mount, "/")
}

// stripMount removes the mount from p on a segment boundary. The result
// always starts with "/".
func (s Site) stripMount(p string) string {
	p = util.EnsureLeadingSlash(p)
	if s.Mount == "" || !util.HasPathPrefix(p, s.Mount) {
		return p
	}
	return util.EnsureLeadingSlash(p[len(s.Mount):])
}

// Relative returns p with the mount removed.
func (s Site) Relative(p string) string {
	return s.stripMount(p)
}

// IsExcluded reports whether the mount-relative path p is a system path.
func (s Site) IsExcluded(p string) bool {
	return s.isExcluded(p)
}

func (s Site) isExcluded(p string) bool {
	for _, prefix := range s.Excluded {
		if util.HasPathPrefix(p, prefix) {
			return true
		}
	}
	return false
}
