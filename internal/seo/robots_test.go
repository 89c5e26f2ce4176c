// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsBuilderBuildDefault(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{
		SiteURL:       "https://example.com",
		DisallowPaths: []string{"/admin", "/api", "/admin"},
	}).Build()

	if !strings.HasPrefix(content, "User-agent: *\n") {
		t.Error("Build() should start with 'User-agent: *'")
	}
	if strings.Count(content, "Disallow: /admin\n") != 1 {
		t.Errorf("Build() should disallow /admin exactly once:\n%s", content)
	}
	if !strings.Contains(content, "Disallow: /api\n") {
		t.Error("Build() should disallow /api")
	}
	if !strings.Contains(content, "Allow: /\n") {
		t.Error("Build() should contain 'Allow: /'")
	}
	if !strings.Contains(content, "Sitemap: https://example.com/sitemap.xml") {
		t.Error("Build() should contain sitemap reference")
	}
}

func TestRobotsBuilderBuildMounted(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{
		SiteURL:       "https://example.com/site/",
		Mount:         "/site",
		DisallowPaths: []string{"admin"},
	}).Build()

	for _, want := range []string{
		"Disallow: /site/admin\n",
		"Allow: /site/\n",
		"Sitemap: https://example.com/site/sitemap.xml\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Build() missing %q:\n%s", want, content)
		}
	}
}

func TestRobotsBuilderBuildDisallowAll(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{
		SiteURL:     "https://staging.example.com",
		DisallowAll: true,
	}).Build()

	if content != "User-agent: *\nDisallow: /\n" {
		t.Errorf("Build() = %q", content)
	}
}

func TestRobotsBuilderBuildNoSiteURL(t *testing.T) {
	content := NewRobotsBuilder(RobotsConfig{}).Build()
	if strings.Contains(content, "Sitemap:") {
		t.Error("Build() without site URL should not contain a sitemap reference")
	}
}
