// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"slices"
	"testing"
)

// fieldErrors extracts the field map from a validation error.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error %v is not a *ValidationError", err)
	}
	return ve.Fields
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	if v.Err() != nil {
		t.Fatal("empty ValidationError should convert to nil error")
	}

	v.Add("title", "Title is required")
	v.Add("title", "ignored")
	v.Add("image_url", "Image is required")

	if v.Fields["title"] != "Title is required" {
		t.Errorf("first message should win, got %q", v.Fields["title"])
	}
	want := "validation failed: image_url: Image is required; title: Title is required"
	if got := v.Err().Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Logo Design  ", "Logo Design"},
		{"<b>Bold</b> move", "<b>Bold</b> move"},
		{"AT&amp;T <Design> Team", "AT&amp;T <Design> Team"},
		{"\tTom & Jerry\n", "Tom & Jerry"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPortfolioInputValidate(t *testing.T) {
	valid := PortfolioInput{
		Title:    "Luxe Coffee Roasters",
		ImageURL: "https://example.com/a.jpg",
		Category: "branding",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	tests := []struct {
		name  string
		mut   func(*PortfolioInput)
		field string
	}{
		{"empty title", func(in *PortfolioInput) { in.Title = "   " }, "title"},
		{"markup-only title", func(in *PortfolioInput) { in.Title = "<i></i>" }, "title"},
		{"missing image", func(in *PortfolioInput) { in.ImageURL = "" }, "image_url"},
		{"bad image", func(in *PortfolioInput) { in.ImageURL = "file:///etc/passwd" }, "image_url"},
		{"unknown category", func(in *PortfolioInput) { in.Category = "sculpture" }, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mut(&in)
			fields := fieldErrors(t, in.Validate())
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, fields)
			}
		})
	}
}

func TestPortfolioInputNormalize(t *testing.T) {
	in := PortfolioInput{
		Title:       " <b>Nova</b> Fitness ",
		Description: "",
		ImageURL:    " /uploads/originals/x/y.jpg ",
		Category:    "Web Design",
	}.Normalize()

	if in.Title != "Nova Fitness" {
		t.Errorf("Title = %q", in.Title)
	}
	if in.ImageURL != "/uploads/originals/x/y.jpg" {
		t.Errorf("ImageURL = %q", in.ImageURL)
	}
	if in.Category != string(CategoryWebDesign) {
		t.Errorf("Category = %q", in.Category)
	}
	if in.OptionalDescription() != nil {
		t.Error("empty description should be nil")
	}
}

func TestTestimonialRatingBounds(t *testing.T) {
	base := TestimonialInput{ClientName: "Sarah Mitchell", Content: "Great work"}
	for _, rating := range []int{0, 6, -1} {
		in := base
		in.Rating = rating
		fields := fieldErrors(t, in.Validate())
		if _, ok := fields["rating"]; !ok {
			t.Errorf("rating %d should be rejected", rating)
		}
	}
	for rating := MinRating; rating <= MaxRating; rating++ {
		in := base
		in.Rating = rating
		if err := in.Validate(); err != nil {
			t.Errorf("rating %d rejected: %v", rating, err)
		}
	}
}

func TestTestimonialInputRequiredFields(t *testing.T) {
	fields := fieldErrors(t, TestimonialInput{Rating: 5}.Validate())
	for _, f := range []string{"client_name", "content"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected error on %q", f)
		}
	}
}

func TestServiceInputValidate(t *testing.T) {
	in := NewServiceInput(0)
	in.Title = "Logo Design"
	if err := in.Validate(); err != nil {
		t.Fatalf("default service input rejected: %v", err)
	}

	in.Icon = "Rocket"
	fields := fieldErrors(t, in.Validate())
	if _, ok := fields["icon"]; !ok {
		t.Errorf("unknown icon should be rejected, got %v", fields)
	}

	in.Icon = "pentool"
	if err := in.Validate(); err != nil {
		t.Errorf("case-insensitive icon rejected: %v", err)
	}
	if got := in.Normalize().Icon; got != string(IconPenTool) {
		t.Errorf("Normalize().Icon = %q, want %q", got, IconPenTool)
	}

	in.Features = []string{"Vector Files", "  "}
	fields = fieldErrors(t, in.Validate())
	if _, ok := fields["features"]; !ok {
		t.Errorf("blank feature should be rejected, got %v", fields)
	}
}

func TestServiceInputFeatures(t *testing.T) {
	in := NewServiceInput(0)
	if in.AddFeature("   ") {
		t.Error("blank feature should not be added")
	}
	in.AddFeature("Custom Concepts")
	in.AddFeature("Multiple Revisions")
	in.AddFeature("Vector Files")

	in.RemoveFeature(1)
	in.RemoveFeature(7)

	want := []string{"Custom Concepts", "Vector Files"}
	if !slices.Equal(in.Features, want) {
		t.Errorf("Features = %v, want %v", in.Features, want)
	}
}

func TestEntityInputRoundTrip(t *testing.T) {
	order := int64(4)
	svc := Service{ID: "s1", Title: "Brand Refresh", Icon: nil, DisplayOrder: &order}
	in := svc.Input()
	if in.Icon != string(DefaultIcon) {
		t.Errorf("missing icon should default to %q, got %q", DefaultIcon, in.Icon)
	}
	if !in.IsActive {
		t.Error("missing is_active should load as active")
	}

	tm := Testimonial{ClientName: "Emma", Content: "Seamless", Rating: 0}
	if got := tm.Input().Rating; got != DefaultRating {
		t.Errorf("zero rating should load as %d, got %d", DefaultRating, got)
	}

	item := PortfolioItem{Title: "Apex"}
	if item.Input().Category != string(DefaultCategory) {
		t.Error("missing category should load as default")
	}
	if item.Featured() {
		t.Error("nil is_featured must not count as featured")
	}
}
