// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/util"
)

const serviceColumns = `id, title, description, icon, features, is_active, display_order, created_at, updated_at`

// ServicesTable reads and writes the services table.
type ServicesTable struct {
	db DBTX
}

func scanService(row rowScanner) (model.Service, error) {
	var (
		s           model.Service
		description sql.NullString
		icon        sql.NullString
		features    sql.NullString
		active      sql.NullBool
		order       sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.Title, &description, &icon, &features, &active, &order, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Service{}, err
	}
	s.Description = util.StringPtr(description)
	s.Icon = util.StringPtr(icon)
	s.IsActive = util.BoolPtr(active)
	s.DisplayOrder = util.Int64Ptr(order)
	if features.Valid && features.String != "" {
		if err := json.Unmarshal([]byte(features.String), &s.Features); err != nil {
			return model.Service{}, fmt.Errorf("decoding features of service %s: %w", s.ID, err)
		}
	}
	return s, nil
}

// encodeFeatures stores the feature list as a JSON array.
func encodeFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	b, err := json.Marshal(features)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// List returns services ordered by display order, optionally restricted
// to active services and capped to f.Limit rows.
func (t ServicesTable) List(ctx context.Context, f model.ListFilter) ([]model.Service, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE (? = 0 OR is_active = 1)`+orderClause,
		listArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []model.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// Get returns one service by id.
func (t ServicesTable) Get(ctx context.Context, id string) (model.Service, error) {
	row := t.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	s, err := scanService(row)
	if err != nil {
		return model.Service{}, notFound(err)
	}
	return s, nil
}

// Insert stores a new service with a fresh id and timestamps.
func (t ServicesTable) Insert(ctx context.Context, in model.ServiceInput) (model.Service, error) {
	in = in.Normalize()
	features, err := encodeFeatures(in.Features)
	if err != nil {
		return model.Service{}, fmt.Errorf("encoding features: %w", err)
	}
	now := time.Now().UTC()
	active := in.IsActive
	icon := in.Icon
	s := model.Service{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.OptionalDescription(),
		Icon:         &icon,
		Features:     in.Features,
		IsActive:     &active,
		DisplayOrder: in.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = t.db.ExecContext(ctx,
		`INSERT INTO services (`+serviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Title, util.NullStringFromPtr(s.Description), icon, features, active,
		util.NullInt64FromPtr(s.DisplayOrder), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return model.Service{}, fmt.Errorf("inserting service: %w", err)
	}
	return s, nil
}

// Update replaces every editable field of the service with the given id.
func (t ServicesTable) Update(ctx context.Context, id string, in model.ServiceInput) (model.Service, error) {
	in = in.Normalize()
	features, err := encodeFeatures(in.Features)
	if err != nil {
		return model.Service{}, fmt.Errorf("encoding features: %w", err)
	}
	err = execByID(ctx, t.db,
		`UPDATE services SET title = ?, description = ?, icon = ?, features = ?,
			is_active = ?, display_order = ?, updated_at = ? WHERE id = ?`,
		in.Title, util.NullStringFromPtr(in.OptionalDescription()), in.Icon, features,
		in.IsActive, util.NullInt64FromPtr(in.DisplayOrder), time.Now().UTC(), id)
	if err != nil {
		return model.Service{}, fmt.Errorf("updating service %s: %w", id, err)
	}
	return t.Get(ctx, id)
}

// Delete removes the service with the given id.
func (t ServicesTable) Delete(ctx context.Context, id string) error {
	if err := execByID(ctx, t.db, `DELETE FROM services WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting service %s: %w", id, err)
	}
	return nil
}

// Count returns the number of service rows.
func (t ServicesTable) Count(ctx context.Context) (int64, error) {
	return count(ctx, t.db, model.CollectionServices)
}
