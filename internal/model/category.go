// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/olegiv/studio-go/internal/util"
)

// Category groups portfolio items on the public site.
type Category string

// Portfolio categories offered by the admin console.
const (
	CategoryBranding     Category = "branding"
	CategoryWebDesign    Category = "web-design"
	CategoryPrint        Category = "print"
	CategoryIllustration Category = "illustration"
	CategoryPackaging    Category = "packaging"
	CategorySocialMedia  Category = "social-media"
)

// DefaultCategory is preselected for new portfolio items.
const DefaultCategory = CategoryBranding

// Categories lists the supported categories in menu order.
var Categories = []Category{
	CategoryBranding,
	CategoryWebDesign,
	CategoryPrint,
	CategoryIllustration,
	CategoryPackaging,
	CategorySocialMedia,
}

// ParseCategory normalises s to a slug and reports whether it names a known category.
// "Web Design", "web_design" and "web-design" all parse to CategoryWebDesign.
func ParseCategory(s string) (Category, bool) {
	slug := util.Slugify(s)
	for _, c := range Categories {
		if string(c) == slug {
			return c, true
		}
	}
	return Category(slug), false
}

// Label returns the human-readable name, e.g. "Web Design". A Caser keeps
// state, so each call builds its own.
func (c Category) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "-", " "))
}
