// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package markup

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{"empty", "   ", nil, []string{"<p>"}},
		{"paragraph", "Complete brand identity", []string{"<p>Complete brand identity</p>"}, nil},
		{"emphasis", "A **bold** move", []string{"<strong>bold</strong>"}, nil},
		{"list", "- one\n- two", []string{"<ul>", "<li>one</li>"}, nil},
		{"link", "[site](https://example.com)", []string{`href="https://example.com"`, `rel="nofollow`}, nil},
		{"script stripped", "hi <script>alert(1)</script>", nil, []string{"<script", "alert(1)</script>"}},
		{"javascript url", "[x](javascript:alert(1))", nil, []string{"javascript:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.in)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Render(%q) = %q, want it to contain %q", tt.in, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Render(%q) = %q, must not contain %q", tt.in, got, bad)
				}
			}
		})
	}
}

func TestRenderPtr(t *testing.T) {
	if RenderPtr(nil) != nil {
		t.Error("RenderPtr(nil) != nil")
	}
	empty := ""
	if RenderPtr(&empty) != nil {
		t.Error("RenderPtr(empty) != nil")
	}
	s := "text"
	if got := RenderPtr(&s); got == nil || *got != "<p>text</p>" {
		t.Errorf("RenderPtr(text) = %v", got)
	}
}
