// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package aitranslate fills a translated record with machine translations
// of its title, body and page builder texts.
package aitranslate

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/olegiv/langroute/internal/model"
)

// Segment kinds.
const (
	KindTitle       = "title"
	KindBody        = "body"
	KindBuilder     = "builder"
	KindBuilderList = "builder_list"
)

// Segment IDs of the core fields.
const (
	SegmentTitle = "title"
	SegmentBody  = "body"
)

// Segment is one translatable string.
type Segment struct {
	ID    string `json:"id"`
	Kind  string `json:"-"`
	Label string `json:"label"`
	Value string `json:"value"`

	// path locates a builder value for sjson.
	path string
}

// translatableKeys are the element settings that hold visible text.
var translatableKeys = map[string]bool{
	"title": true, "title_text": true, "description_text": true, "caption": true,
	"text": true, "content": true, "link_text": true, "editor": true, "html": true,
	"placeholder": true, "testimonial_name": true, "testimonial_content": true,
	"testimonial_job": true, "testimonial_company": true, "tab_title": true,
	"tab_content": true, "name": true, "job": true, "description": true,
	"subtitle": true, "button_text": true, "image_caption": true, "image_alt": true,
	"heading": true, "subheading": true, "sub_title": true, "item_title": true,
	"item_text": true, "item_description": true, "pricing_title": true,
	"pricing_description": true, "pricing_button_text": true, "alert_title": true,
	"alert_description": true, "label": true, "note": true, "info": true,
	"alt_text": true,
}

// Extract lists the translatable strings of rec. builderData is the JSON
// element tree of a page built with the visual builder, or "". The body is
// skipped for builder pages because the builder owns their content.
func Extract(rec model.Record, builderData string) ([]Segment, error) {
	segs := []Segment{{ID: SegmentTitle, Kind: KindTitle, Label: "Title", Value: rec.Title}}

	if builderData == "" {
		if rec.Body != "" {
			segs = append(segs, Segment{ID: SegmentBody, Kind: KindBody, Label: "Content", Value: rec.Body})
		}
		return segs, nil
	}

	builder, err := extractBuilder(builderData)
	if err != nil {
		return nil, err
	}
	return append(segs, builder...), nil
}

type frame struct {
	path string
	elem gjson.Result
}

// extractBuilder walks the element tree depth first with an explicit stack,
// so nesting depth is bounded only by memory.
func extractBuilder(doc string) ([]Segment, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("builder data is not valid JSON")
	}
	root := gjson.Parse(doc)
	if !root.IsArray() {
		return nil, fmt.Errorf("builder data is not an element list")
	}

	var stack []frame
	pushChildren := func(prefix string, list gjson.Result) {
		items := list.Array()
		// reverse so that elements pop in document order
		for i := len(items) - 1; i >= 0; i-- {
			stack = append(stack, frame{path: prefix + strconv.Itoa(i), elem: items[i]})
		}
	}
	pushChildren("", root)

	var segs []Segment
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		elemID := f.elem.Get("id").String()
		widget := f.elem.Get("widgetType").String()
		if widget == "" {
			widget = "widget"
		}

		f.elem.Get("settings").ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			switch {
			case value.Type == gjson.String && translatableKeys[k] && value.String() != "":
				segs = append(segs, Segment{
					ID:    elemID + "|" + k,
					Kind:  KindBuilder,
					Label: fmt.Sprintf("Builder %s (%s)", widget, k),
					Value: value.String(),
					path:  f.path + ".settings." + escapeKey(k),
				})
			case value.IsArray() && value.Get("0").IsObject():
				for idx, item := range value.Array() {
					item.ForEach(func(sub, subValue gjson.Result) bool {
						sk := sub.String()
						if subValue.Type == gjson.String && translatableKeys[sk] && subValue.String() != "" {
							n := strconv.Itoa(idx)
							segs = append(segs, Segment{
								ID:    elemID + "|" + k + "|" + n + "|" + sk,
								Kind:  KindBuilderList,
								Label: fmt.Sprintf("Builder list item (%s)", sk),
								Value: subValue.String(),
								path:  f.path + ".settings." + escapeKey(k) + "." + n + "." + escapeKey(sk),
							})
						}
						return true
					})
				}
			}
			return true
		})

		if children := f.elem.Get("elements"); children.IsArray() {
			pushChildren(f.path+".elements.", children)
		}
	}
	return segs, nil
}

// ApplyBuilder writes translated values back into the builder document.
// Segments without a translation are left unchanged.
func ApplyBuilder(doc string, segs []Segment, translated map[string]string) (string, error) {
	var err error
	for _, s := range segs {
		if s.path == "" {
			continue
		}
		v, ok := translated[s.ID]
		if !ok {
			continue
		}
		doc, err = sjson.Set(doc, s.path, v)
		if err != nil {
			return "", fmt.Errorf("setting %s: %w", s.ID, err)
		}
	}
	return doc, nil
}

// escapeKey escapes the gjson/sjson path metacharacters in a key.
func escapeKey(k string) string {
	out := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case '.', '*', '?', '|', '#', '@', '\\':
			out = append(out, '\\')
		}
		out = append(out, k[i])
	}
	return string(out)
}
