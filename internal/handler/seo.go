// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/olegiv/langroute/internal/cache"
	"github.com/olegiv/langroute/internal/seo"
)

const sitemapCacheKey = "sitemap.xml"

// Robots serves robots.txt.
func (h *FrontendHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	site := h.rt.Site()
	body := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:       site.Base,
		Mount:         site.Mount,
		DisallowAll:   h.cfg.DisallowIndexing,
		DisallowPaths: site.Excluded,
	}).Build()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// Sitemap serves the multilingual sitemap. Every published record in an
// active language is listed with the hreflang alternates of its group.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	xml, err := h.cachedSitemap(ctx)
	if err != nil {
		h.logger.Error("failed to build sitemap", "error", err)
		h.renderError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(xml)))
	_, _ = w.Write(xml)
}

func (h *FrontendHandler) cachedSitemap(ctx context.Context) ([]byte, error) {
	c := h.cfg.SitemapCache
	if c == nil {
		return h.buildSitemap(ctx)
	}

	xml, err := c.Get(ctx, sitemapCacheKey)
	if err == nil {
		return xml, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		h.logger.Warn("reading cached sitemap failed", "error", err)
	}

	xml, err = h.buildSitemap(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, sitemapCacheKey, xml, h.cfg.SitemapTTL); err != nil {
		h.logger.Warn("caching sitemap failed", "error", err)
	}
	return xml, nil
}

func (h *FrontendHandler) buildSitemap(ctx context.Context) ([]byte, error) {
	reg := h.rt.Registry(ctx)
	recs, err := h.queries.ListPublishedRecords(ctx)
	if err != nil {
		return nil, err
	}

	b := seo.NewSitemapBuilder()
	for _, rec := range recs {
		lang := rec.LanguageOr(reg.Default())
		if !reg.IsActive(lang) {
			continue
		}
		u := h.rt.ContentURL(ctx, rec)
		b.Add(seo.SitemapEntry{
			URL:        u,
			UpdatedAt:  rec.UpdatedAt,
			Home:       u == h.rt.HomeURL(ctx, lang),
			Alternates: h.rt.Alternates(ctx, rec),
		})
	}
	return b.Build()
}
