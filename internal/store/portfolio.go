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

const portfolioColumns = `id, title, description, image_url, category, is_featured, display_order, created_at, updated_at`

// PortfolioTable reads and writes the portfolio table.
type PortfolioTable struct {
	db DBTX
}

func scanPortfolioItem(row rowScanner) (model.PortfolioItem, error) {
	var (
		p           model.PortfolioItem
		description sql.NullString
		category    sql.NullString
		featured    sql.NullBool
		order       sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Title, &description, &p.ImageURL, &category, &featured, &order, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.PortfolioItem{}, err
	}
	p.Description = util.StringPtr(description)
	p.Category = util.StringPtr(category)
	p.IsFeatured = util.BoolPtr(featured)
	p.DisplayOrder = util.Int64Ptr(order)
	return p, nil
}

// List returns portfolio items ordered by display order, optionally
// restricted to featured items and capped to f.Limit rows.
func (t PortfolioTable) List(ctx context.Context, f model.ListFilter) ([]model.PortfolioItem, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT `+portfolioColumns+` FROM portfolio WHERE (? = 0 OR is_featured = 1)`+orderClause,
		listArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("listing portfolio: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []model.PortfolioItem{}
	for rows.Next() {
		p, err := scanPortfolioItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning portfolio item: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Get returns one portfolio item by id.
func (t PortfolioTable) Get(ctx context.Context, id string) (model.PortfolioItem, error) {
	row := t.db.QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolio WHERE id = ?`, id)
	p, err := scanPortfolioItem(row)
	if err != nil {
		return model.PortfolioItem{}, notFound(err)
	}
	return p, nil
}

// Insert stores a new item with a fresh id and timestamps.
func (t PortfolioTable) Insert(ctx context.Context, in model.PortfolioInput) (model.PortfolioItem, error) {
	in = in.Normalize()
	now := time.Now().UTC()
	featured := in.IsFeatured
	p := model.PortfolioItem{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.OptionalDescription(),
		ImageURL:     in.ImageURL,
		Category:     in.OptionalCategory(),
		IsFeatured:   &featured,
		DisplayOrder: in.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := t.db.ExecContext(ctx,
		`INSERT INTO portfolio (`+portfolioColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, util.NullStringFromPtr(p.Description), p.ImageURL,
		util.NullStringFromPtr(p.Category), featured, util.NullInt64FromPtr(p.DisplayOrder),
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return model.PortfolioItem{}, fmt.Errorf("inserting portfolio item: %w", err)
	}
	return p, nil
}

// Update replaces every editable field of the item with the given id.
func (t PortfolioTable) Update(ctx context.Context, id string, in model.PortfolioInput) (model.PortfolioItem, error) {
	in = in.Normalize()
	err := execByID(ctx, t.db,
		`UPDATE portfolio SET title = ?, description = ?, image_url = ?, category = ?,
			is_featured = ?, display_order = ?, updated_at = ? WHERE id = ?`,
		in.Title, util.NullStringFromPtr(in.OptionalDescription()), in.ImageURL,
		util.NullStringFromPtr(in.OptionalCategory()), in.IsFeatured,
		util.NullInt64FromPtr(in.DisplayOrder), time.Now().UTC(), id)
	if err != nil {
		return model.PortfolioItem{}, fmt.Errorf("updating portfolio item %s: %w", id, err)
	}
	return t.Get(ctx, id)
}

// Delete removes the item with the given id.
func (t PortfolioTable) Delete(ctx context.Context, id string) error {
	if err := execByID(ctx, t.db, `DELETE FROM portfolio WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting portfolio item %s: %w", id, err)
	}
	return nil
}

// Count returns the number of portfolio rows.
func (t PortfolioTable) Count(ctx context.Context) (int64, error) {
	return count(ctx, t.db, model.CollectionPortfolio)
}

// ImageURLs returns every stored image reference.
func (t PortfolioTable) ImageURLs(ctx context.Context) ([]string, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT image_url FROM portfolio`)
	if err != nil {
		return nil, fmt.Errorf("listing portfolio images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
