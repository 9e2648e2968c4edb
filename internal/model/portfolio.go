// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"net/url"
	"strings"
	"time"
)

// PortfolioItem is a project shown in the portfolio section.
type PortfolioItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	ImageURL     string    `json:"image_url"`
	Category     *string   `json:"category"`
	IsFeatured   *bool     `json:"is_featured"`
	DisplayOrder *int64    `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EntityID returns the store-assigned identifier.
func (p PortfolioItem) EntityID() string { return p.ID }

// Featured reports whether the item passes the public featured filter.
func (p PortfolioItem) Featured() bool { return p.IsFeatured != nil && *p.IsFeatured }

// Input returns the editable fields of the item, as loaded into an edit form.
func (p PortfolioItem) Input() PortfolioInput {
	in := PortfolioInput{
		Title:        p.Title,
		Description:  textValue(p.Description),
		ImageURL:     p.ImageURL,
		Category:     textValue(p.Category),
		IsFeatured:   p.Featured(),
		DisplayOrder: p.DisplayOrder,
	}
	if in.Category == "" {
		in.Category = string(DefaultCategory)
	}
	return in
}

// PortfolioInput is the editable field set of a portfolio item.
// Updates replace every field.
type PortfolioInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	Category     string `json:"category"`
	IsFeatured   bool   `json:"is_featured"`
	DisplayOrder *int64 `json:"display_order"`
}

// NewPortfolioInput returns the defaults of the "add project" form.
func NewPortfolioInput(displayOrder int64) PortfolioInput {
	return PortfolioInput{
		Category:     string(DefaultCategory),
		DisplayOrder: &displayOrder,
	}
}

// Normalize trims and strips markup from text fields and canonicalises the category.
func (in PortfolioInput) Normalize() PortfolioInput {
	in.Title = CleanText(in.Title)
	in.Description = CleanText(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if c := strings.TrimSpace(in.Category); c != "" {
		cat, _ := ParseCategory(c)
		in.Category = string(cat)
	} else {
		in.Category = ""
	}
	return in
}

// Validate checks the normalised input.
func (in PortfolioInput) Validate() error {
	v := &ValidationError{}
	n := in.Normalize()

	if n.Title == "" {
		v.Add("title", "Title is required")
	} else if len(n.Title) > 200 {
		v.Add("title", "Title must be at most 200 characters")
	}

	if n.ImageURL == "" {
		v.Add("image_url", "Image is required")
	} else if !IsImageReference(n.ImageURL) {
		v.Add("image_url", "Image must be an http(s) URL or an uploaded file path")
	}

	if n.Category != "" {
		if _, ok := ParseCategory(n.Category); !ok {
			v.Add("category", "Unknown category")
		}
	}

	return v.Err()
}

// OptionalDescription returns the description, or nil when empty.
func (in PortfolioInput) OptionalDescription() *string { return optionalText(in.Description) }

// OptionalCategory returns the category, or nil when empty.
func (in PortfolioInput) OptionalCategory() *string { return optionalText(in.Category) }

// UploadsPathPrefix is the URL path under which uploaded files are served.
const UploadsPathPrefix = "/uploads/"

// IsImageReference reports whether s is an absolute http(s) URL or a local uploads path.
func IsImageReference(s string) bool {
	if strings.HasPrefix(s, UploadsPathPrefix) {
		return !strings.Contains(s, "..")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
