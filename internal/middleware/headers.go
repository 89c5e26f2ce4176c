// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"

	"github.com/olegiv/langroute/internal/router"
)

// HeadersConfig configures ResponseHeaders.
type HeadersConfig struct {
	// IsDevelopment disables HSTS.
	IsDevelopment bool
	// HSTSMaxAge in seconds; 0 disables HSTS.
	HSTSMaxAge int
	// ContentSecurityPolicy is sent on every response when set.
	ContentSecurityPolicy string
}

// DefaultHeadersConfig returns the production defaults, relaxed in
// development.
func DefaultHeadersConfig(isDev bool) HeadersConfig {
	return HeadersConfig{
		IsDevelopment:         isDev,
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data: https:; style-src 'self' 'unsafe-inline'; object-src 'none'; base-uri 'self'",
	}
}

// ResponseHeaders sets security headers and the Content-Language of the
// request language. It must run after Language.
func ResponseHeaders(rt *router.Router, cfg HeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
				h.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(cfg.HSTSMaxAge))
			}

			ctx := r.Context()
			h.Set("Content-Language", rt.Registry(ctx).HTMLLang(rt.CurrentLanguage(ctx)))
			next.ServeHTTP(w, r)
		})
	}
}
