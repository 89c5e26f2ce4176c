// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package language holds the set of languages a site is served in.
package language

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/olegiv/langroute/internal/model"
)

// FallbackDefault is used when no valid default language is configured.
const FallbackDefault = "en"

var supported = func() map[string]model.Language {
	m := make(map[string]model.Language, len(model.SupportedLanguages))
	for _, l := range model.SupportedLanguages {
		m[l.Code] = l
	}
	return m
}()

// Registry is an immutable snapshot of the default and active languages.
// The zero value is not usable; build one with NewRegistry.
type Registry struct {
	def    string
	active []string
	set    map[string]bool
}

// NewRegistry builds a registry. An empty or unsupported default becomes
// "en". Unsupported and duplicate active codes are dropped, and the default
// is put first when it is missing from the list.
func NewRegistry(defaultCode string, active []string) *Registry {
	def := normalize(defaultCode)
	if _, ok := supported[def]; !ok {
		def = FallbackDefault
	}

	r := &Registry{def: def, set: make(map[string]bool, len(active)+1)}
	for _, code := range active {
		code = normalize(code)
		if _, ok := supported[code]; !ok || r.set[code] {
			continue
		}
		r.set[code] = true
		r.active = append(r.active, code)
	}
	if !r.set[def] {
		r.set[def] = true
		r.active = append([]string{def}, r.active...)
	}
	return r
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Default returns the default language code.
func (r *Registry) Default() string {
	return r.def
}

// Active returns the active codes in configured order. The slice is a copy.
func (r *Registry) Active() []string {
	return slices.Clone(r.active)
}

// IsActive reports whether code is routable.
func (r *Registry) IsActive(code string) bool {
	return r.set[code]
}

// IsDefault reports whether code is the default language.
func (r *Registry) IsDefault(code string) bool {
	return code == r.def
}

// IsSupported reports whether code is in the fixed table of known languages,
// active or not.
func (r *Registry) IsSupported(code string) bool {
	_, ok := supported[code]
	return ok
}

// Lookup returns display information for a supported code.
func (r *Registry) Lookup(code string) (model.Language, bool) {
	l, ok := supported[code]
	return l, ok
}

// Locale returns the locale of code, or code_CODE for unknown codes.
func (r *Registry) Locale(code string) string {
	if l, ok := supported[code]; ok {
		return l.Locale
	}
	return code + "_" + strings.ToUpper(code)
}

// Direction returns "rtl" or "ltr".
func (r *Registry) Direction(code string) string {
	if l, ok := supported[code]; ok && l.IsRTL() {
		return model.DirectionRTL
	}
	return model.DirectionLTR
}

// HTMLLang renders the locale of code as a BCP 47 tag (es_ES becomes
// es-ES). Locales that do not parse are returned with underscores replaced.
func (r *Registry) HTMLLang(code string) string {
	return BCP47(r.Locale(code))
}

// BCP47 converts a POSIX-style locale such as es_ES to a BCP 47 tag.
func BCP47(locale string) string {
	s := strings.ReplaceAll(locale, "_", "-")
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	return tag.String()
}
