// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"net/http"

	"github.com/olegiv/langroute/internal/util"
)

// RedirectPolicy decides whether a singular request must be moved to its
// canonical URL.
type RedirectPolicy struct{}

// skip reports requests that are never canonicalized.
func (RedirectPolicy) skip(req RequestInfo) bool {
	if req.isEditorContext() || req.API || req.Ajax || req.Search {
		return true
	}
	return req.Method != http.MethodGet
}

// Decide compares the requested URL with the canonical one, ignoring the
// query. A different path, or a trailing slash on only one side, yields a
// permanent redirect to canonical with the requested query appended.
// Decide(req, u, u) is never a redirect.
func (p RedirectPolicy) Decide(req RequestInfo, requested, canonical string) Directive {
	if p.skip(req) || requested == "" || canonical == "" {
		return Directive{}
	}

	reqBase, query := util.SplitQuery(requested)
	canBase, _ := util.SplitQuery(canonical)

	sameBase := util.UntrailingSlashIt(reqBase) == util.UntrailingSlashIt(canBase)
	sameSlash := util.HasTrailingSlash(reqBase) == util.HasTrailingSlash(canBase)
	if sameBase && sameSlash {
		return Directive{}
	}

	target := canonical
	if query != "" {
		target = canBase + "?" + query
	}
	return permanent(target)
}
