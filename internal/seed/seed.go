// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seed fills empty content collections with sample data.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/store"
)

// GroupResult reports the outcome for one collection. A collection that
// already holds rows is left alone and its row count is reported as skipped.
type GroupResult struct {
	Inserted int    `json:"inserted"`
	Skipped  int64  `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Results reports the outcome for every collection.
type Results struct {
	Portfolio    GroupResult `json:"portfolio"`
	Testimonials GroupResult `json:"testimonials"`
	Services     GroupResult `json:"services"`
}

// Total returns the number of inserted rows across all collections.
func (r Results) Total() int {
	return r.Portfolio.Inserted + r.Testimonials.Inserted + r.Services.Inserted
}

// Run seeds every empty collection. Each collection is written in its own
// transaction, so a failure rolls back that group only and the others are
// still attempted. The returned error joins the failures of all groups.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) (Results, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var res Results
	var errs []error

	res.Portfolio = seedGroup(ctx, db, logger, model.CollectionPortfolio, PortfolioItems,
		func(q *store.Queries) (int64, error) { return q.Portfolio().Count(ctx) },
		func(q *store.Queries, in model.PortfolioInput) error {
			_, err := q.Portfolio().Insert(ctx, in)
			return err
		}, &errs)

	res.Testimonials = seedGroup(ctx, db, logger, model.CollectionTestimonials, Testimonials,
		func(q *store.Queries) (int64, error) { return q.Testimonials().Count(ctx) },
		func(q *store.Queries, in model.TestimonialInput) error {
			_, err := q.Testimonials().Insert(ctx, in)
			return err
		}, &errs)

	res.Services = seedGroup(ctx, db, logger, model.CollectionServices, Services,
		func(q *store.Queries) (int64, error) { return q.Services().Count(ctx) },
		func(q *store.Queries, in model.ServiceInput) error {
			_, err := q.Services().Insert(ctx, in)
			return err
		}, &errs)

	return res, errors.Join(errs...)
}

func seedGroup[In any](
	ctx context.Context,
	db *sql.DB,
	logger *slog.Logger,
	name string,
	rows []In,
	count func(*store.Queries) (int64, error),
	insert func(*store.Queries, In) error,
	errs *[]error,
) GroupResult {
	var res GroupResult

	fail := func(err error) GroupResult {
		err = fmt.Errorf("seeding %s: %w", name, err)
		logger.Error("seed failed", "category", model.EventCategorySeed, "collection", name, "error", err)
		*errs = append(*errs, err)
		res.Inserted = 0
		res.Error = err.Error()
		return res
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("beginning transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(db).WithTx(tx)

	existing, err := count(q)
	if err != nil {
		return fail(fmt.Errorf("counting rows: %w", err))
	}
	if existing > 0 {
		res.Skipped = existing
		logger.Info("collection not empty, skipping seed", "collection", name, "rows", existing)
		return res
	}

	for _, row := range rows {
		if err := insert(q, row); err != nil {
			return fail(err)
		}
		res.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("committing: %w", err))
	}

	logger.Info("seeded collection", "category", model.EventCategorySeed, "collection", name, "inserted", res.Inserted)
	return res
}
