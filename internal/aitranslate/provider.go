// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package aitranslate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/gjson"

	"github.com/olegiv/langroute/internal/model"
)

// ErrNotConfigured is returned when no translation provider is set up.
var ErrNotConfigured = errors.New("aitranslate: no translation provider configured")

// Provider translates a batch of segments between two languages. The
// returned map is keyed by segment ID and may omit segments.
type Provider interface {
	Translate(ctx context.Context, segs []Segment, from, to model.Language) (map[string]string, error)
}

// OpenAIConfig configures an OpenAIProvider.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string // optional OpenAI-compatible endpoint
	MaxRetries int
}

// DefaultModel is used when OpenAIConfig.Model is empty.
const DefaultModel = "gpt-4o-mini"

// OpenAIProvider translates segments with the chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider returns a provider for cfg, or ErrNotConfigured when
// the API key is empty.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	m := cfg.Model
	if m == "" {
		m = DefaultModel
	}
	return &OpenAIProvider{client: openai.NewClient(opts...), model: m}, nil
}

const systemPrompt = "You are a professional translator for website content. " +
	"Reply with JSON only."

// Translate implements Provider.
func (p *OpenAIProvider) Translate(ctx context.Context, segs []Segment, from, to model.Language) (map[string]string, error) {
	if len(segs) == 0 {
		return map[string]string{}, nil
	}
	prompt, err := buildPrompt(segs, from, to)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices returned")
	}
	return parseResults(resp.Choices[0].Message.Content)
}

// buildPrompt asks for a JSON object holding a "results" array of
// {id, translation} pairs, one per input segment.
func buildPrompt(segs []Segment, from, to model.Language) (string, error) {
	items, err := json.Marshal(segs)
	if err != nil {
		return "", fmt.Errorf("encoding segments: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following website strings from %s (%s) to %s (%s).\n",
		from.Name, from.Code, to.Name, to.Code)
	b.WriteString("Keep HTML tags, Markdown syntax, URLs and placeholders unchanged. ")
	b.WriteString("Do not translate brand names.\n")
	b.WriteString(`Return a JSON object of the form {"results": [{"id": "...", "translation": "..."}]} `)
	b.WriteString("with exactly one entry per input id.\n\nInput:\n")
	b.Write(items)
	return b.String(), nil
}

// parseResults accepts either {"results": [...]} or a bare array, optionally
// wrapped in a Markdown code fence.
func parseResults(content string) (map[string]string, error) {
	content = stripCodeFence(content)
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("provider returned invalid JSON")
	}

	doc := gjson.Parse(content)
	list := doc
	if r := doc.Get("results"); r.Exists() {
		list = r
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("provider response has no results array")
	}

	out := make(map[string]string)
	list.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id")
		tr := item.Get("translation")
		if id.Exists() && tr.Type == gjson.String {
			out[id.String()] = tr.String()
		}
		return true
	})
	return out, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop a language tag such as ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
