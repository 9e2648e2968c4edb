// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"time"
)

// Service is an offering listed in the services section.
type Service struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	Icon         *string   `json:"icon"`
	Features     []string  `json:"features"`
	IsActive     *bool     `json:"is_active"`
	DisplayOrder *int64    `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EntityID returns the store-assigned identifier.
func (s Service) EntityID() string { return s.ID }

// Active reports whether the service passes the public active filter.
func (s Service) Active() bool { return s.IsActive != nil && *s.IsActive }

// IconOrDefault returns the icon to render, falling back to DefaultIcon.
func (s Service) IconOrDefault() Icon { return IconOrDefault(textValue(s.Icon)) }

// Input returns the editable fields of the service.
// A missing activation flag is treated as active, matching the edit form.
func (s Service) Input() ServiceInput {
	active := s.IsActive == nil || *s.IsActive
	return ServiceInput{
		Title:        s.Title,
		Description:  textValue(s.Description),
		Icon:         string(s.IconOrDefault()),
		Features:     append([]string(nil), s.Features...),
		IsActive:     active,
		DisplayOrder: s.DisplayOrder,
	}
}

// ServiceInput is the editable field set of a service.
type ServiceInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Icon         string   `json:"icon"`
	Features     []string `json:"features"`
	IsActive     bool     `json:"is_active"`
	DisplayOrder *int64   `json:"display_order"`
}

// NewServiceInput returns the defaults of the "add service" form.
func NewServiceInput(displayOrder int64) ServiceInput {
	return ServiceInput{
		Icon:         string(DefaultIcon),
		Features:     []string{},
		IsActive:     true,
		DisplayOrder: &displayOrder,
	}
}

// AddFeature appends a trimmed, non-empty feature.
func (in *ServiceInput) AddFeature(feature string) bool {
	feature = CleanText(feature)
	if feature == "" {
		return false
	}
	in.Features = append(in.Features, feature)
	return true
}

// RemoveFeature drops the feature at index i; out-of-range indexes are ignored.
func (in *ServiceInput) RemoveFeature(i int) {
	if i < 0 || i >= len(in.Features) {
		return
	}
	in.Features = append(in.Features[:i:i], in.Features[i+1:]...)
}

// Normalize trims text fields, canonicalises the icon and drops empty features.
func (in ServiceInput) Normalize() ServiceInput {
	in.Title = CleanText(in.Title)
	in.Description = CleanText(in.Description)
	if icon, ok := ParseIcon(in.Icon); ok {
		in.Icon = string(icon)
	}
	features := make([]string, 0, len(in.Features))
	for _, f := range in.Features {
		if f = CleanText(f); f != "" {
			features = append(features, f)
		}
	}
	in.Features = features
	return in
}

// Validate checks the normalised input. Unknown icons are rejected here
// so that only supported tokens are ever stored.
func (in ServiceInput) Validate() error {
	v := &ValidationError{}
	n := in.Normalize()

	if n.Title == "" {
		v.Add("title", "Title is required")
	} else if len(n.Title) > 200 {
		v.Add("title", "Title must be at most 200 characters")
	}

	if _, ok := ParseIcon(n.Icon); !ok {
		v.Add("icon", "Unknown icon "+strconv.Quote(in.Icon))
	}

	for i, f := range in.Features {
		if CleanText(f) == "" {
			v.Add("features", "Feature "+strconv.Itoa(i+1)+" is empty")
			break
		}
	}

	return v.Err()
}

// OptionalDescription returns the description, or nil when empty.
func (in ServiceInput) OptionalDescription() *string { return optionalText(in.Description) }
