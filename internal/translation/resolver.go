// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translation links records that represent the same content in
// different languages.
package translation

import (
	"context"
	"fmt"

	"github.com/olegiv/langroute/internal/model"
)

// Repository is the read side of the content store used for resolution.
type Repository interface {
	GetRecord(ctx context.Context, id int64) (model.Record, error)
	QueryRecordsByGroupAndLanguage(ctx context.Context, groupID int64, lang string, includeUnset bool) ([]model.Record, error)
	ListGroupMembers(ctx context.Context, groupID int64) ([]model.Record, error)
}

// Outcome tells how a resolution ended.
type Outcome int

const (
	// Missing means the group has no published member in the language.
	Missing Outcome = iota
	// Self means the record itself is already in the language.
	Self
	// Found means a sibling in the language was found.
	Found
)

func (o Outcome) String() string {
	switch o {
	case Self:
		return "self"
	case Found:
		return "found"
	default:
		return "missing"
	}
}

// Result is the variant chosen for a language.
type Result struct {
	Record  model.Record
	Outcome Outcome
}

// OK reports whether a variant exists.
func (r Result) OK() bool {
	return r.Outcome != Missing
}

// Resolver finds the variant of a record in a target language.
type Resolver struct {
	repo Repository
}

// NewResolver returns a Resolver over repo.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the member of rec's translation group in lang. A record
// without a language attribute counts as being in defaultLang. When several
// members share the language, the lowest ID wins.
func (r *Resolver) Resolve(ctx context.Context, rec model.Record, lang, defaultLang string) (Result, error) {
	if rec.LanguageOr(defaultLang) == lang {
		return Result{Record: rec, Outcome: Self}, nil
	}

	items, err := r.repo.QueryRecordsByGroupAndLanguage(ctx, rec.Group(), lang, lang == defaultLang)
	if err != nil {
		return Result{}, fmt.Errorf("resolving record %d in %q: %w", rec.ID, lang, err)
	}
	for _, item := range items {
		if item.ID != rec.ID {
			return Result{Record: item, Outcome: Found}, nil
		}
	}
	return Result{Outcome: Missing}, nil
}

// ResolveID loads the record with the given ID and resolves it.
func (r *Resolver) ResolveID(ctx context.Context, id int64, lang, defaultLang string) (Result, error) {
	rec, err := r.repo.GetRecord(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("resolving record %d: %w", id, err)
	}
	return r.Resolve(ctx, rec, lang, defaultLang)
}

// IsVariantOf reports whether rec belongs to the same translation group as
// the record with the given ID.
func (r *Resolver) IsVariantOf(ctx context.Context, rec model.Record, id int64) (bool, error) {
	if rec.ID == id || rec.Group() == id {
		return true, nil
	}
	other, err := r.repo.GetRecord(ctx, id)
	if err != nil {
		return false, fmt.Errorf("loading record %d: %w", id, err)
	}
	return other.Group() == rec.Group(), nil
}

// Members returns every published member of rec's translation group keyed
// by language. Unset languages are reported as defaultLang and the lowest
// ID wins per language.
func (r *Resolver) Members(ctx context.Context, rec model.Record, defaultLang string) (map[string]model.Record, error) {
	items, err := r.repo.ListGroupMembers(ctx, rec.Group())
	if err != nil {
		return nil, fmt.Errorf("listing translations of record %d: %w", rec.ID, err)
	}

	out := make(map[string]model.Record, len(items)+1)
	for _, item := range items {
		lang := item.LanguageOr(defaultLang)
		if _, seen := out[lang]; !seen {
			out[lang] = item
		}
	}
	if rec.IsPublished() {
		if _, seen := out[rec.LanguageOr(defaultLang)]; !seen {
			out[rec.LanguageOr(defaultLang)] = rec
		}
	}
	return out, nil
}
