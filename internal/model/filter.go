// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Collection names, also used as table names and API paths.
const (
	CollectionPortfolio    = "portfolio"
	CollectionServices     = "services"
	CollectionTestimonials = "testimonials"
)

// ListFilter restricts a collection read. Results are always ordered by
// display_order ascending with unset orders last.
type ListFilter struct {
	// VisibleOnly keeps only rows whose visibility flag (is_featured or
	// is_active) is true.
	VisibleOnly bool
	// Limit caps the number of rows; zero or negative means no cap.
	Limit int
}

// Entity is implemented by every content record.
type Entity interface {
	EntityID() string
}
