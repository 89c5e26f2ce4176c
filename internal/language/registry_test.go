// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name       string
		def        string
		active     []string
		wantDef    string
		wantActive []string
	}{
		{"missing configuration", "", nil, "en", []string{"en"}},
		{"default already active", "en", []string{"en", "es"}, "en", []string{"en", "es"}},
		{"default added first", "en", []string{"es", "fr"}, "en", []string{"en", "es", "fr"}},
		{"duplicates dropped", "es", []string{"es", "fr", "es", "fr"}, "es", []string{"es", "fr"}},
		{"unsupported default", "xx", []string{"es"}, "en", []string{"en", "es"}},
		{"unsupported active", "en", []string{"xx", "de"}, "en", []string{"en", "de"}},
		{"normalized", " EN ", []string{"Es"}, "en", []string{"en", "es"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(tt.def, tt.active)
			assert.Equal(t, tt.wantDef, r.Default())
			assert.Equal(t, tt.wantActive, r.Active())
			assert.True(t, r.IsActive(r.Default()))
		})
	}
}

func TestRegistryActiveIsCopy(t *testing.T) {
	r := NewRegistry("en", []string{"es"})
	a := r.Active()
	a[0] = "zz"
	assert.Equal(t, []string{"en", "es"}, r.Active())
}

func TestRegistryMembership(t *testing.T) {
	r := NewRegistry("en", []string{"es"})

	assert.True(t, r.IsActive("es"))
	assert.False(t, r.IsActive("fr"))
	assert.True(t, r.IsSupported("fr"))
	assert.False(t, r.IsSupported("xx"))
	assert.True(t, r.IsDefault("en"))
	assert.False(t, r.IsDefault("es"))
}

func TestRegistryLocale(t *testing.T) {
	r := NewRegistry("en", nil)

	assert.Equal(t, "es_ES", r.Locale("es"))
	assert.Equal(t, "pt_BR", r.Locale("pt"))
	assert.Equal(t, "xx_XX", r.Locale("xx"))
}

func TestRegistryHTMLLang(t *testing.T) {
	r := NewRegistry("en", nil)

	tests := map[string]string{
		"es": "es-ES",
		"en": "en-US",
		"ja": "ja",
		"zh": "zh-CN",
		"xx": "xx-XX",
	}
	for code, want := range tests {
		assert.Equal(t, want, r.HTMLLang(code), code)
	}
}

func TestRegistryDirectionAndLookup(t *testing.T) {
	r := NewRegistry("en", []string{"ar"})

	assert.Equal(t, "rtl", r.Direction("ar"))
	assert.Equal(t, "ltr", r.Direction("es"))
	assert.Equal(t, "ltr", r.Direction("xx"))

	l, ok := r.Lookup("es")
	assert.True(t, ok)
	assert.Equal(t, "Español", l.NativeName)

	_, ok = r.Lookup("xx")
	assert.False(t, ok)
}
