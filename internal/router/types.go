// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package router maps request paths to language variants of content records
// and composes language-prefixed URLs for them.
package router

import (
	"context"
	"net/http"

	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/translation"
)

// Repository is the content store as seen by the router.
type Repository interface {
	translation.Repository
	FindRecordBySlug(ctx context.Context, slug, status string) (model.Record, error)
	GetFrontPageID(ctx context.Context) (int64, error)
	GetPostsIndexID(ctx context.Context) (int64, error)
}

// Languages supplies the registry snapshot for a request.
type Languages interface {
	Registry(ctx context.Context) *language.Registry
}

// RequestInfo describes the request context the routing policies depend on.
type RequestInfo struct {
	Method   string
	Path     string // raw path, no query
	RawQuery string

	Admin   bool // administrative screen
	Preview bool // draft or customizer preview
	Builder bool // visual page builder editor or preview
	API     bool // REST or XML-RPC
	Ajax    bool
	Search  bool
}

// isEditorContext reports requests in which URLs must never be rewritten
// or canonicalized.
func (r RequestInfo) isEditorContext() bool {
	return r.Admin || r.Preview || r.Builder
}

// Outcome is the result of language detection.
type Outcome int

const (
	// OutcomeDefault means no language segment: the default language applies.
	OutcomeDefault Outcome = iota
	// OutcomeDetected means an active language segment was found.
	OutcomeDetected
	// OutcomeNotFound means the path names a supported but inactive language.
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDetected:
		return "detected"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "default"
	}
}

// ParsedPath is the decomposition of a request path.
type ParsedPath struct {
	// Language is the detected code, the default code when implied, or the
	// inactive candidate when Outcome is OutcomeNotFound.
	Language       string
	DefaultImplied bool
	// Remainder is the path after the mount and language segment. It always
	// starts with "/".
	Remainder string
	Active    bool
	Outcome   Outcome
	// InternalPath is what the host routing layer should see: the mount
	// followed by Remainder.
	InternalPath string
	// Redirect is set when the request must first be canonicalized to a
	// trailing slash.
	Redirect Directive
}

// Directive is a redirect decision. The zero value means no redirect.
type Directive struct {
	Target string
	Status int
}

// IsRedirect reports whether d requires a redirect.
func (d Directive) IsRedirect() bool {
	return d.Target != ""
}

func permanent(target string) Directive {
	return Directive{Target: target, Status: http.StatusMovedPermanently}
}

// QueryVars is the host routing layer's tentative interpretation of a path.
type QueryVars struct {
	Name       string // post slug
	PageName   string // page slug
	Attachment string // attachment slug
	RecordID   int64  // explicit record selection
	Type       string // record type selector
	Category   string // category archive filter
	Paged      int    // listing page number
	Page       int    // page number inside a paginated singular record
	PostsIndex bool   // listing view of the posts page
}

// Filter constrains query execution to a language.
type Filter struct {
	// NotFound forces a 404 regardless of the query.
	NotFound bool
	Language string
	// IncludeUnset also matches records without a language attribute.
	IncludeUnset bool
	PostsIndex   bool
}
