// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "strings"

// TrailingSlashIt returns s with exactly one trailing slash.
func TrailingSlashIt(s string) string {
	return strings.TrimRight(s, "/") + "/"
}

// UntrailingSlashIt returns s without trailing slashes.
func UntrailingSlashIt(s string) string {
	return strings.TrimRight(s, "/")
}

// HasTrailingSlash reports whether the path ends with a slash.
func HasTrailingSlash(p string) bool {
	return strings.HasSuffix(p, "/")
}

// EnsureLeadingSlash returns p with a single leading slash.
// An empty path becomes "/".
func EnsureLeadingSlash(p string) string {
	return "/" + strings.TrimLeft(p, "/")
}

// NormalizeMount turns a mount path such as "", "/", "blog/" or "/blog"
// into either "" (site at the domain root) or "/blog".
func NormalizeMount(mount string) string {
	trimmed := strings.Trim(mount, "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}

// HasPathPrefix reports whether p starts with prefix on a segment boundary,
// so "/blog/x" has prefix "/blog" but "/blogger/x" does not.
func HasPathPrefix(p, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	return len(p) == len(prefix) || p[len(prefix)] == '/'
}

// LastSegment returns the last non-empty segment of a slash separated path.
func LastSegment(p string) string {
	p = strings.Trim(p, "/")
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

// HasFileExtension reports whether the last segment of the path looks like a
// file name (contains a dot).
func HasFileExtension(p string) bool {
	if HasTrailingSlash(p) {
		return false
	}
	return strings.Contains(LastSegment(p), ".")
}

// SplitQuery splits a URL or path at the first '?' and returns the part
// before it and the raw query after it.
func SplitQuery(u string) (string, string) {
	base, query, _ := strings.Cut(u, "?")
	return base, query
}
