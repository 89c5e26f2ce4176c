// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"context"

	"github.com/olegiv/langroute/internal/language"
	"github.com/olegiv/langroute/internal/model"
	"github.com/olegiv/langroute/internal/store"
	"github.com/olegiv/langroute/internal/testutil"
	"github.com/olegiv/langroute/internal/translation"
)

const testBase = "https://example.com"

// fakeRepo is an in-memory Repository. Records must be listed in ID order.
type fakeRepo struct {
	records []model.Record
	front   int64
	posts   int64
	findErr error
}

func (f *fakeRepo) GetRecord(_ context.Context, id int64) (model.Record, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Record{}, store.ErrNotFound
}

func (f *fakeRepo) FindRecordBySlug(_ context.Context, slug, status string) (model.Record, error) {
	if f.findErr != nil {
		return model.Record{}, f.findErr
	}
	for _, r := range f.records {
		if r.Slug == slug && (status == "" || r.Status == status) {
			return r, nil
		}
	}
	return model.Record{}, store.ErrNotFound
}

func (f *fakeRepo) QueryRecordsByGroupAndLanguage(_ context.Context, group int64, lang string, includeUnset bool) ([]model.Record, error) {
	var out []model.Record
	for _, r := range f.records {
		if r.Group() != group || !r.IsPublished() {
			continue
		}
		if r.Language == lang || (includeUnset && r.Language == "") {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListGroupMembers(_ context.Context, group int64) ([]model.Record, error) {
	var out []model.Record
	for _, r := range f.records {
		if r.Group() == group && r.IsPublished() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetFrontPageID(context.Context) (int64, error) { return f.front, nil }

func (f *fakeRepo) GetPostsIndexID(context.Context) (int64, error) { return f.posts, nil }

type staticLangs struct {
	reg *language.Registry
}

func (s staticLangs) Registry(context.Context) *language.Registry { return s.reg }

// testRegistry has en as default and es active; fr, de and ar are
// supported but inactive.
func testRegistry() *language.Registry {
	return language.NewRegistry("en", []string{"en", "es"})
}

func page(id, group int64, lang, slug string) model.Record {
	return model.Record{
		ID: id, GroupID: group, Language: lang, Slug: slug, Title: slug,
		Type: model.RecordTypePage, Status: model.RecordStatusPublished,
	}
}

func post(id, group int64, lang, slug string) model.Record {
	r := page(id, group, lang, slug)
	r.Type = model.RecordTypePost
	return r
}

// Fixture records.
var (
	recHome      = page(1, 0, "en", "home")
	recInicio    = page(2, 1, "es", "inicio")
	recAbout     = page(3, 0, "en", "about")
	recAboutES   = page(4, 3, "es", "about-es")
	recBlog      = page(5, 0, "en", "blog")
	recNoticias  = page(6, 5, "es", "noticias")
	recHello     = post(7, 0, "en", "hello-world")
	recHola      = post(8, 7, "es", "hola-mundo")
	recContact   = page(9, 0, "en", "contact")
	recLegacy    = post(10, 0, "", "legacy")
	recAboutFR   = page(11, 3, "fr", "a-propos")
	recAboutESv2 = page(12, 3, "es", "about-es-2")
)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: []model.Record{
			recHome, recInicio, recAbout, recAboutES, recBlog, recNoticias,
			recHello, recHola, recContact, recLegacy, recAboutFR, recAboutESv2,
		},
		front: recHome.ID,
		posts: recBlog.ID,
	}
}

func newTestRouter(siteURL string, repo *fakeRepo) *Router {
	return New(NewSite(siteURL, nil), staticLangs{reg: testRegistry()}, repo, testutil.TestLoggerSilent())
}

func newTestRewriter(siteURL string, repo *fakeRepo) *Rewriter {
	return NewRewriter(NewSite(siteURL, nil), repo, translation.NewResolver(repo), testutil.TestLoggerSilent())
}

func newTestComposer(siteURL string, repo *fakeRepo) *Composer {
	return NewComposer(NewSite(siteURL, nil), repo, translation.NewResolver(repo), testutil.TestLoggerSilent())
}

// requestContext returns a context in which detection already ran for path.
func requestContext(r *Router, path string) context.Context {
	ctx, _ := WithRequestState(context.Background())
	r.OnRequestInit(ctx, RequestInfo{Method: "GET", Path: path})
	return ctx
}
