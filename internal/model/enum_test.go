// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"sync"
	"testing"
)

func TestParseIcon(t *testing.T) {
	tests := map[string]bool{
		"Palette":  true,
		"sparkles": true,
		" Share2 ": true,
		"Rocket":   false,
		"":         false,
	}
	for token, want := range tests {
		if _, ok := ParseIcon(token); ok != want {
			t.Errorf("ParseIcon(%q) ok = %v, want %v", token, ok, want)
		}
	}
}

func TestIconOrDefault(t *testing.T) {
	if got := IconOrDefault("Layers"); got != IconLayers {
		t.Errorf("IconOrDefault(Layers) = %q", got)
	}
	if got := IconOrDefault("Unknown"); got != DefaultIcon {
		t.Errorf("IconOrDefault(Unknown) = %q, want %q", got, DefaultIcon)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"branding", CategoryBranding, true},
		{"Web Design", CategoryWebDesign, true},
		{"social_media", CategorySocialMedia, true},
		{"Packaging", CategoryPackaging, true},
		{"Sculpture", Category("sculpture"), false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryWebDesign.Label(); got != "Web Design" {
		t.Errorf("Label() = %q, want %q", got, "Web Design")
	}
	if got := CategorySocialMedia.Label(); got != "Social Media" {
		t.Errorf("Label() = %q, want %q", got, "Social Media")
	}
}

func TestCategoryLabelConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	labels := make([]string, 64)
	for i := range labels {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			labels[i] = Categories[i%len(Categories)].Label()
		}(i)
	}
	wg.Wait()

	for i, got := range labels {
		c := Categories[i%len(Categories)]
		if want := c.Label(); got != want {
			t.Errorf("%s: Label() = %q, want %q", c, got, want)
		}
	}
}
