// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Language describes a language the router knows about.
type Language struct {
	Code       string `json:"code"`        // ISO 639-1: en, es, fr
	Name       string `json:"name"`        // English, Spanish, French
	NativeName string `json:"native_name"` // English, Español, Français
	Locale     string `json:"locale"`      // en_US, es_ES, fr_FR
	Direction  string `json:"direction"`   // ltr, rtl
}

// IsRTL returns true if the language is right-to-left.
func (l *Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// SupportedLanguages is the fixed table of languages that may appear as a
// path prefix. Only the active subset is routable.
var SupportedLanguages = []Language{
	{"en", "English", "English", "en_US", DirectionLTR},
	{"es", "Spanish", "Español", "es_ES", DirectionLTR},
	{"fr", "French", "Français", "fr_FR", DirectionLTR},
	{"de", "German", "Deutsch", "de_DE", DirectionLTR},
	{"it", "Italian", "Italiano", "it_IT", DirectionLTR},
	{"pt", "Portuguese", "Português", "pt_BR", DirectionLTR},
	{"ru", "Russian", "Русский", "ru_RU", DirectionLTR},
	{"ja", "Japanese", "日本語", "ja", DirectionLTR},
	{"zh", "Chinese", "中文", "zh_CN", DirectionLTR},
	{"nl", "Dutch", "Nederlands", "nl_NL", DirectionLTR},
	{"pl", "Polish", "Polski", "pl_PL", DirectionLTR},
	{"tr", "Turkish", "Türkçe", "tr_TR", DirectionLTR},
	{"uk", "Ukrainian", "Українська", "uk_UA", DirectionLTR},
	{"ko", "Korean", "한국어", "ko_KR", DirectionLTR},
	{"ar", "Arabic", "العربية", "ar", DirectionRTL},
	{"he", "Hebrew", "עברית", "he_IL", DirectionRTL},
}
