// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL string // base URL including the mount path
	// Mount is the path prefix of the site, "" when served from the root.
	Mount       string
	DisallowAll bool // staging sites
	// DisallowPaths are mount-relative prefixes, e.g. /admin.
	DisallowPaths []string
}

// RobotsBuilder builds robots.txt content.
type RobotsBuilder struct {
	config RobotsConfig
}

// NewRobotsBuilder creates a new robots.txt builder.
func NewRobotsBuilder(config RobotsConfig) *RobotsBuilder {
	return &RobotsBuilder{config: config}
}

// Build generates the robots.txt content.
func (b *RobotsBuilder) Build() string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")

	if b.config.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	mount := strings.TrimSuffix(b.config.Mount, "/")
	seen := make(map[string]bool, len(b.config.DisallowPaths))
	for _, p := range b.config.DisallowPaths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		sb.WriteString("Disallow: ")
		sb.WriteString(mount + p)
		sb.WriteString("\n")
	}
	sb.WriteString("Allow: ")
	sb.WriteString(mount + "/")
	sb.WriteString("\n")

	if b.config.SiteURL != "" {
		sb.WriteString("\nSitemap: ")
		sb.WriteString(strings.TrimSuffix(b.config.SiteURL, "/"))
		sb.WriteString("/sitemap.xml\n")
	}

	return sb.String()
}
