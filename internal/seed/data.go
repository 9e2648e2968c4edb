// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seed

import "github.com/olegiv/studio-go/internal/model"

func order(n int64) *int64 { return &n }

// PortfolioItems is the sample portfolio.
var PortfolioItems = []model.PortfolioInput{
	{
		Title:        "Luxe Coffee Roasters",
		Description:  "Complete brand identity for an artisan coffee company",
		ImageURL:     "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=800&h=600&fit=crop",
		Category:     string(model.CategoryBranding),
		IsFeatured:   true,
		DisplayOrder: order(1),
	},
	{
		Title:        "TechFlow AI",
		Description:  "Modern tech startup logo and visual identity",
		ImageURL:     "https://images.unsplash.com/photo-1551650975-87deedd944c3?w=800&h=600&fit=crop",
		Category:     string(model.CategoryWebDesign),
		IsFeatured:   true,
		DisplayOrder: order(2),
	},
	{
		Title:        "Evergreen Gardens",
		Description:  "Organic landscaping company branding",
		ImageURL:     "https://images.unsplash.com/photo-1416879595882-3373a0480b5b?w=800&h=600&fit=crop",
		Category:     string(model.CategoryBranding),
		IsFeatured:   true,
		DisplayOrder: order(3),
	},
	{
		Title:        "Nova Fitness",
		Description:  "Dynamic fitness brand with bold aesthetics",
		ImageURL:     "https://images.unsplash.com/photo-1534438327276-14e5300c3a48?w=800&h=600&fit=crop",
		Category:     string(model.CategoryBranding),
		IsFeatured:   true,
		DisplayOrder: order(4),
	},
	{
		Title:        "Apex Consulting",
		Description:  "Professional consulting firm rebrand",
		ImageURL:     "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=800&h=600&fit=crop",
		Category:     string(model.CategoryWebDesign),
		IsFeatured:   false,
		DisplayOrder: order(5),
	},
	{
		Title:        "Artisan Bakery Co.",
		Description:  "Rustic bakery brand and packaging system",
		ImageURL:     "https://images.unsplash.com/photo-1555507036-ab1f4038808a?w=800&h=600&fit=crop",
		Category:     string(model.CategoryPackaging),
		IsFeatured:   true,
		DisplayOrder: order(6),
	},
}

// Testimonials is the sample set of client quotes.
var Testimonials = []model.TestimonialInput{
	{
		ClientName:    "Sarah Mitchell",
		ClientRole:    "CEO",
		ClientCompany: "TechFlow AI",
		Content:       "Working with Creative Studio transformed our brand completely. The logo captures our innovative spirit perfectly, and the comprehensive brand identity has elevated how clients perceive us. Highly recommend!",
		Rating:        5,
		IsFeatured:    true,
		DisplayOrder:  order(1),
	},
	{
		ClientName:    "Michael Chen",
		ClientRole:    "Founder",
		ClientCompany: "Luxe Coffee",
		Content:       "Exceptional attention to detail and a deep understanding of what makes a brand memorable. Our new identity has received countless compliments and helped us stand out in a competitive market.",
		Rating:        5,
		IsFeatured:    true,
		DisplayOrder:  order(2),
	},
	{
		ClientName:    "Emma Rodriguez",
		ClientRole:    "Marketing Director",
		ClientCompany: "Nova Fitness",
		Content:       "The creative process was seamless and collaborative. They truly listened to our vision and delivered beyond expectations. Our rebrand has significantly boosted engagement and brand recognition.",
		Rating:        5,
		IsFeatured:    true,
		DisplayOrder:  order(3),
	},
	{
		ClientName:    "David Thompson",
		ClientRole:    "Owner",
		ClientCompany: "Artisan Bakery Co.",
		Content:       "From concept to final delivery, the experience was outstanding. The packaging design has become a talking point with customers and perfectly represents our artisan values.",
		Rating:        5,
		IsFeatured:    true,
		DisplayOrder:  order(4),
	},
}

// Services is the sample list of offered services.
var Services = []model.ServiceInput{
	{
		Title:        "Logo Design",
		Description:  "Distinctive, memorable logos that capture your brand essence and leave a lasting impression on your audience.",
		Icon:         string(model.IconPenTool),
		Features:     []string{"Custom Concepts", "Multiple Revisions", "Vector Files"},
		IsActive:     true,
		DisplayOrder: order(1),
	},
	{
		Title:        "Brand Identity",
		Description:  "Complete visual identity systems including colors, typography, patterns, and comprehensive brand guidelines.",
		Icon:         string(model.IconLayers),
		Features:     []string{"Brand Strategy", "Visual Systems", "Brand Book"},
		IsActive:     true,
		DisplayOrder: order(2),
	},
	{
		Title:        "Graphic Design",
		Description:  "Eye-catching marketing materials, packaging, and print designs that amplify your brand message.",
		Icon:         string(model.IconPalette),
		Features:     []string{"Print Design", "Packaging", "Marketing Materials"},
		IsActive:     true,
		DisplayOrder: order(3),
	},
	{
		Title:        "Social Media",
		Description:  "Scroll-stopping social media graphics and templates designed for maximum engagement and brand consistency.",
		Icon:         string(model.IconShare2),
		Features:     []string{"Post Templates", "Story Designs", "Content Kits"},
		IsActive:     true,
		DisplayOrder: order(4),
	},
	{
		Title:        "Visual Branding",
		Description:  "Strategic visual communication that builds recognition and connects emotionally with your target audience.",
		Icon:         string(model.IconEye),
		Features:     []string{"Visual Strategy", "Brand Assets", "Style Guides"},
		IsActive:     true,
		DisplayOrder: order(5),
	},
	{
		Title:        "Brand Refresh",
		Description:  "Revitalize existing brands with modern updates while preserving brand equity and recognition.",
		Icon:         string(model.IconSparkles),
		Features:     []string{"Brand Audit", "Modernization", "Rollout Support"},
		IsActive:     true,
		DisplayOrder: order(6),
	},
}
