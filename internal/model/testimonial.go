// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Rating bounds for testimonials.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Testimonial is a client quote shown in the testimonials carousel.
type Testimonial struct {
	ID            string    `json:"id"`
	ClientName    string    `json:"client_name"`
	ClientRole    *string   `json:"client_role"`
	ClientCompany *string   `json:"client_company"`
	Content       string    `json:"content"`
	Rating        int       `json:"rating"`
	IsFeatured    *bool     `json:"is_featured"`
	DisplayOrder  *int64    `json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EntityID returns the store-assigned identifier.
func (t Testimonial) EntityID() string { return t.ID }

// Featured reports whether the testimonial passes the public featured filter.
func (t Testimonial) Featured() bool { return t.IsFeatured != nil && *t.IsFeatured }

// Input returns the editable fields of the testimonial.
func (t Testimonial) Input() TestimonialInput {
	rating := t.Rating
	if rating == 0 {
		rating = DefaultRating
	}
	return TestimonialInput{
		ClientName:    t.ClientName,
		ClientRole:    textValue(t.ClientRole),
		ClientCompany: textValue(t.ClientCompany),
		Content:       t.Content,
		Rating:        rating,
		IsFeatured:    t.IsFeatured == nil || *t.IsFeatured,
		DisplayOrder:  t.DisplayOrder,
	}
}

// TestimonialInput is the editable field set of a testimonial.
type TestimonialInput struct {
	ClientName    string `json:"client_name"`
	ClientRole    string `json:"client_role"`
	ClientCompany string `json:"client_company"`
	Content       string `json:"content"`
	Rating        int    `json:"rating"`
	IsFeatured    bool   `json:"is_featured"`
	DisplayOrder  *int64 `json:"display_order"`
}

// NewTestimonialInput returns the defaults of the "add testimonial" form.
func NewTestimonialInput(displayOrder int64) TestimonialInput {
	return TestimonialInput{
		Rating:       DefaultRating,
		IsFeatured:   true,
		DisplayOrder: &displayOrder,
	}
}

// Normalize trims and strips markup from text fields.
func (in TestimonialInput) Normalize() TestimonialInput {
	in.ClientName = CleanText(in.ClientName)
	in.ClientRole = CleanText(in.ClientRole)
	in.ClientCompany = CleanText(in.ClientCompany)
	in.Content = CleanText(in.Content)
	return in
}

// Validate checks the normalised input.
func (in TestimonialInput) Validate() error {
	v := &ValidationError{}
	n := in.Normalize()

	if n.ClientName == "" {
		v.Add("client_name", "Client name is required")
	}
	if n.Content == "" {
		v.Add("content", "Content is required")
	}
	if !ValidRating(n.Rating) {
		v.Add("rating", "Rating must be between 1 and 5")
	}

	return v.Err()
}

// ValidRating reports whether r is within [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// OptionalRole returns the client role, or nil when empty.
func (in TestimonialInput) OptionalRole() *string { return optionalText(in.ClientRole) }

// OptionalCompany returns the client company, or nil when empty.
func (in TestimonialInput) OptionalCompany() *string { return optionalText(in.ClientCompany) }
