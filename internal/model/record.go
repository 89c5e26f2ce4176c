// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Record types
const (
	RecordTypePage       = "page"
	RecordTypePost       = "post"
	RecordTypeAttachment = "attachment"
)

// Record statuses
const (
	RecordStatusDraft     = "draft"
	RecordStatusPublished = "published"
)

// Metadata keys owned by the router. Every key shares MetaPrefix so that
// uninstall can remove them in bulk.
const (
	MetaPrefix   = "_langroute_"
	MetaLanguage = MetaPrefix + "language"
	MetaGroup    = MetaPrefix + "group"

	// MetaBuilderData holds the JSON element tree of records edited with a
	// visual page builder.
	MetaBuilderData = "_builder_data"
)

// Record represents a content item (page or post) stored in the repository.
type Record struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Language is the record's language code. Empty means the record predates
	// translation support and belongs to the default language.
	Language string `json:"language,omitempty"`
	// GroupID is the ID of the record this one was translated from.
	// Zero means the record is the root of its own translation group.
	GroupID int64 `json:"group_id,omitempty"`
}

// Group returns the translation group identity of the record.
func (r *Record) Group() int64 {
	if r.GroupID != 0 {
		return r.GroupID
	}
	return r.ID
}

// LanguageOr returns the record language, or def when it is unset.
func (r *Record) LanguageOr(def string) string {
	if r.Language == "" {
		return def
	}
	return r.Language
}

// IsPage returns true for page-like records.
func (r *Record) IsPage() bool {
	return r.Type == RecordTypePage
}

// IsPublished returns true if the record is published.
func (r *Record) IsPublished() bool {
	return r.Status == RecordStatusPublished
}
