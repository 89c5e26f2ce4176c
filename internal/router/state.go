// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/olegiv/langroute/internal/language"
)

type stateKey struct{}

// RequestState carries the language detection result through one request.
// Detection runs at most once; later calls return the memoized value.
type RequestState struct {
	once   sync.Once
	done   atomic.Bool
	parsed ParsedPath
	reg    *language.Registry
	info   RequestInfo

	// RequestID identifies the request in logs.
	RequestID string
	// RequestedURL is the absolute URL as originally requested, before the
	// language segment was removed.
	RequestedURL string

	mu        sync.Mutex
	postsPage bool
}

// WithRequestState returns a context carrying a fresh RequestState.
func WithRequestState(ctx context.Context) (context.Context, *RequestState) {
	s := &RequestState{}
	return context.WithValue(ctx, stateKey{}, s), s
}

// StateFrom returns the request state, or nil outside a request.
func StateFrom(ctx context.Context) *RequestState {
	s, _ := ctx.Value(stateKey{}).(*RequestState)
	return s
}

// detect runs fn once and returns its memoized result.
func (s *RequestState) detect(fn func() (ParsedPath, *language.Registry, RequestInfo)) ParsedPath {
	s.once.Do(func() {
		s.parsed, s.reg, s.info = fn()
		s.done.Store(true)
	})
	return s.parsed
}

// Parsed returns the detection result and whether detection has run.
func (s *RequestState) Parsed() (ParsedPath, bool) {
	if !s.done.Load() {
		return ParsedPath{}, false
	}
	return s.parsed, true
}

// registry returns the registry used for detection, or nil before it ran.
func (s *RequestState) registry() *language.Registry {
	if !s.done.Load() {
		return nil
	}
	return s.reg
}

func (s *RequestState) requestInfo() (RequestInfo, bool) {
	if !s.done.Load() {
		return RequestInfo{}, false
	}
	return s.info, true
}

func (s *RequestState) setPostsPage() {
	s.mu.Lock()
	s.postsPage = true
	s.mu.Unlock()
}

// IsPostsPage reports whether the rewriter selected the posts listing.
func (s *RequestState) IsPostsPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.postsPage
}
