// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/studio-go/internal/model"
)

// ErrNotFound is returned when an update or delete targets a missing id.
var ErrNotFound = errors.New("record not found")

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries groups the per-table accessors over one connection or transaction.
type Queries struct {
	db DBTX
}

// New creates Queries over db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Portfolio returns the portfolio table accessor.
func (q *Queries) Portfolio() PortfolioTable { return PortfolioTable{db: q.db} }

// Services returns the services table accessor.
func (q *Queries) Services() ServicesTable { return ServicesTable{db: q.db} }

// Testimonials returns the testimonials table accessor.
func (q *Queries) Testimonials() TestimonialsTable { return TestimonialsTable{db: q.db} }

// orderClause sorts by display order with NULLs last. Ties fall back to
// creation time and then id so that reads are repeatable.
const orderClause = ` ORDER BY display_order IS NULL, display_order ASC, created_at ASC, id ASC LIMIT ?`

// listArgs converts a filter into the (visible, limit) placeholders
// shared by every list query. SQLite treats LIMIT -1 as unbounded.
func listArgs(f model.ListFilter) []any {
	visible := 0
	if f.VisibleOnly {
		visible = 1
	}
	limit := int64(-1)
	if f.Limit > 0 {
		limit = int64(f.Limit)
	}
	return []any{visible, limit}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// execByID runs a single-row statement and maps zero affected rows to ErrNotFound.
func execByID(ctx context.Context, db DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// count returns the number of rows in table.
func count(ctx context.Context, db DBTX, table string) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
