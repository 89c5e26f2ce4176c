// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware adapts the language router to net/http and chi.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/langroute/internal/router"
	"github.com/olegiv/langroute/internal/util"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Language runs language detection before routing. It answers the
// trailing-slash redirect itself, and otherwise hands the request on with
// the language segment removed from the path. The detected language is
// available to later handlers through the router hooks.
func Language(rt *router.Router, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, state := router.WithRequestState(r.Context())
			state.RequestID = r.Header.Get(RequestIDHeader)
			if state.RequestID == "" {
				state.RequestID = uuid.NewString()
			}
			state.RequestedURL = RequestedURL(r)
			w.Header().Set(RequestIDHeader, state.RequestID)

			parsed := rt.OnRequestInit(ctx, RequestInfoFrom(r, rt.Site()))
			if parsed.Redirect.IsRedirect() {
				logger.Debug("trailing slash redirect",
					"request_id", state.RequestID,
					"from", r.URL.Path,
					"to", parsed.Redirect.Target)
				http.Redirect(w, r, parsed.Redirect.Target, parsed.Redirect.Status)
				return
			}

			r = r.WithContext(ctx)
			if parsed.Outcome == router.OutcomeDetected {
				u := *r.URL
				u.Path = parsed.InternalPath
				u.RawPath = ""
				r.URL = &u
				if rctx := chi.RouteContext(ctx); rctx != nil {
					rctx.RoutePath = parsed.InternalPath
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestInfoFrom classifies r for the routing policies.
func RequestInfoFrom(r *http.Request, site router.Site) router.RequestInfo {
	rel := site.Relative(r.URL.Path)
	q := r.URL.Query()

	return router.RequestInfo{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Admin:    util.HasPathPrefix(rel, "/admin") || util.HasPathPrefix(rel, "/login"),
		Preview:  q.Get("preview") == "true" || q.Get("preview") == "1",
		Builder:  q.Has("builder"),
		API:      util.HasPathPrefix(rel, "/api") || util.HasPathPrefix(rel, "/xmlrpc"),
		Ajax:     strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest"),
		Search:   q.Has("s"),
	}
}

// RequestedURL rebuilds the absolute URL the client asked for.
func RequestedURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}

	uri := r.RequestURI
	if uri == "" || !strings.HasPrefix(uri, "/") {
		uri = r.URL.RequestURI()
	}
	return scheme + "://" + r.Host + uri
}
