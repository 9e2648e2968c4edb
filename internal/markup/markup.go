// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markup renders operator-entered descriptions from Markdown to
// sanitised HTML.
package markup

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

	// htmlSanitizer allows the safe subset of HTML for user-generated content.
	htmlSanitizer = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		return p
	}()
)

// Render converts Markdown to sanitised HTML. Empty input renders to "".
func Render(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		// goldmark only fails on writer errors; fall back to escaped text.
		return htmlSanitizer.Sanitize(bluemonday.StrictPolicy().Sanitize(source))
	}
	return strings.TrimSpace(htmlSanitizer.Sanitize(buf.String()))
}

// RenderPtr renders *source, returning nil when source is nil or empty.
func RenderPtr(source *string) *string {
	if source == nil {
		return nil
	}
	out := Render(*source)
	if out == "" {
		return nil
	}
	return &out
}
