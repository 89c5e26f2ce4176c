// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"context"
	"strings"

	"github.com/olegiv/langroute/internal/model"
)

// SwitcherOption is one entry of the language switcher.
type SwitcherOption struct {
	Code       string
	Label      string
	NativeName string
	URL        string
	Current    bool
}

// Switcher returns the language switcher for the current view. rec is the
// record being shown, or the posts page when serving the posts listing; nil
// means a view without a record, whose options are the language roots.
// Languages without a variant are omitted, and nil is returned when fewer
// than two options remain.
func (r *Router) Switcher(ctx context.Context, rec *model.Record) []SwitcherOption {
	reg := r.Registry(ctx)
	current := r.CurrentLanguage(ctx)

	var opts []SwitcherOption
	for _, code := range reg.Active() {
		var u string
		if rec == nil {
			u = r.composer.HomeURL(reg, code)
		} else {
			var ok bool
			if u, ok = r.composer.TranslationURL(ctx, reg, *rec, code); !ok {
				continue
			}
		}

		opt := SwitcherOption{
			Code:    code,
			Label:   strings.ToUpper(code),
			URL:     u,
			Current: code == current,
		}
		if l, ok := reg.Lookup(code); ok {
			opt.Label = l.Name
			opt.NativeName = l.NativeName
		}
		opts = append(opts, opt)
	}

	if len(opts) <= 1 {
		return nil
	}
	return opts
}
