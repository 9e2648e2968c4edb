// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/util"
)

const testimonialColumns = `id, client_name, client_role, client_company, content, rating, is_featured, display_order, created_at, updated_at`

// TestimonialsTable reads and writes the testimonials table.
type TestimonialsTable struct {
	db DBTX
}

func scanTestimonial(row rowScanner) (model.Testimonial, error) {
	var (
		tm       model.Testimonial
		role     sql.NullString
		company  sql.NullString
		featured sql.NullBool
		order    sql.NullInt64
	)
	err := row.Scan(&tm.ID, &tm.ClientName, &role, &company, &tm.Content, &tm.Rating,
		&featured, &order, &tm.CreatedAt, &tm.UpdatedAt)
	if err != nil {
		return model.Testimonial{}, err
	}
	tm.ClientRole = util.StringPtr(role)
	tm.ClientCompany = util.StringPtr(company)
	tm.IsFeatured = util.BoolPtr(featured)
	tm.DisplayOrder = util.Int64Ptr(order)
	return tm, nil
}

// checkRating rejects ratings outside [1,5] before they reach the table constraint.
func checkRating(rating int) error {
	if !model.ValidRating(rating) {
		return fmt.Errorf("rating %d out of range [%d,%d]", rating, model.MinRating, model.MaxRating)
	}
	return nil
}

// List returns testimonials ordered by display order, optionally restricted
// to featured testimonials and capped to f.Limit rows.
func (t TestimonialsTable) List(ctx context.Context, f model.ListFilter) ([]model.Testimonial, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE (? = 0 OR is_featured = 1)`+orderClause,
		listArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("listing testimonials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []model.Testimonial{}
	for rows.Next() {
		tm, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning testimonial: %w", err)
		}
		items = append(items, tm)
	}
	return items, rows.Err()
}

// Get returns one testimonial by id.
func (t TestimonialsTable) Get(ctx context.Context, id string) (model.Testimonial, error) {
	row := t.db.QueryRowContext(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = ?`, id)
	tm, err := scanTestimonial(row)
	if err != nil {
		return model.Testimonial{}, notFound(err)
	}
	return tm, nil
}

// Insert stores a new testimonial with a fresh id and timestamps.
func (t TestimonialsTable) Insert(ctx context.Context, in model.TestimonialInput) (model.Testimonial, error) {
	in = in.Normalize()
	if err := checkRating(in.Rating); err != nil {
		return model.Testimonial{}, fmt.Errorf("inserting testimonial: %w", err)
	}
	now := time.Now().UTC()
	featured := in.IsFeatured
	tm := model.Testimonial{
		ID:            uuid.NewString(),
		ClientName:    in.ClientName,
		ClientRole:    in.OptionalRole(),
		ClientCompany: in.OptionalCompany(),
		Content:       in.Content,
		Rating:        in.Rating,
		IsFeatured:    &featured,
		DisplayOrder:  in.DisplayOrder,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := t.db.ExecContext(ctx,
		`INSERT INTO testimonials (`+testimonialColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tm.ID, tm.ClientName, util.NullStringFromPtr(tm.ClientRole), util.NullStringFromPtr(tm.ClientCompany),
		tm.Content, tm.Rating, featured, util.NullInt64FromPtr(tm.DisplayOrder), tm.CreatedAt, tm.UpdatedAt)
	if err != nil {
		return model.Testimonial{}, fmt.Errorf("inserting testimonial: %w", err)
	}
	return tm, nil
}

// Update replaces every editable field of the testimonial with the given id.
func (t TestimonialsTable) Update(ctx context.Context, id string, in model.TestimonialInput) (model.Testimonial, error) {
	in = in.Normalize()
	if err := checkRating(in.Rating); err != nil {
		return model.Testimonial{}, fmt.Errorf("updating testimonial %s: %w", id, err)
	}
	err := execByID(ctx, t.db,
		`UPDATE testimonials SET client_name = ?, client_role = ?, client_company = ?, content = ?,
			rating = ?, is_featured = ?, display_order = ?, updated_at = ? WHERE id = ?`,
		in.ClientName, util.NullStringFromPtr(in.OptionalRole()), util.NullStringFromPtr(in.OptionalCompany()),
		in.Content, in.Rating, in.IsFeatured, util.NullInt64FromPtr(in.DisplayOrder), time.Now().UTC(), id)
	if err != nil {
		return model.Testimonial{}, fmt.Errorf("updating testimonial %s: %w", id, err)
	}
	return t.Get(ctx, id)
}

// Delete removes the testimonial with the given id.
func (t TestimonialsTable) Delete(ctx context.Context, id string) error {
	if err := execByID(ctx, t.db, `DELETE FROM testimonials WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting testimonial %s: %w", id, err)
	}
	return nil
}

// Count returns the number of testimonial rows.
func (t TestimonialsTable) Count(ctx context.Context) (int64, error) {
	return count(ctx, t.db, model.CollectionTestimonials)
}
