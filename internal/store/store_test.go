// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/studio-go/internal/model"
)

// testDB opens a migrated database in a temp directory.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "studio-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if _, err := Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}
	return db, func() { _ = db.Close() }
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer func() { _ = db.Close() }()
	ctx := context.Background()

	n, err := Migrate(ctx, db)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if n != 2 {
		t.Errorf("first Migrate applied %d migrations, want 2", n)
	}

	n, err = Migrate(ctx, db)
	if err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if n != 0 {
		t.Errorf("second Migrate applied %d migrations, want 0", n)
	}

	v, err := SchemaVersion(ctx, db)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 2 {
		t.Errorf("SchemaVersion = %d, want 2", v)
	}
}

func order(n int64) *int64 { return &n }

// displayOrders extracts display orders, using -1 for NULL.
func displayOrders[T any](items []T, get func(T) *int64) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		if o := get(it); o != nil {
			out[i] = *o
		} else {
			out[i] = -1
		}
	}
	return out
}

func assertOrders(t *testing.T, got, want []int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got orders %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got orders %v, want %v", got, want)
		}
	}
}

// unorderedInputs mirrors display orders [3, 1, null, 2].
var unorderedInputs = []*int64{order(3), order(1), nil, order(2)}

func TestPortfolioOrderingNullsLast(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Portfolio()

	for i, o := range unorderedInputs {
		_, err := table.Insert(ctx, model.PortfolioInput{
			Title:        "Project",
			ImageURL:     "https://example.com/p.jpg",
			IsFeatured:   i != 1,
			DisplayOrder: o,
		})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := table.List(ctx, model.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertOrders(t, displayOrders(items, func(p model.PortfolioItem) *int64 { return p.DisplayOrder }), []int64{1, 2, 3, -1})

	featured, err := table.List(ctx, model.ListFilter{VisibleOnly: true})
	if err != nil {
		t.Fatalf("List featured: %v", err)
	}
	assertOrders(t, displayOrders(featured, func(p model.PortfolioItem) *int64 { return p.DisplayOrder }), []int64{2, 3, -1})
}

func TestServicesOrderingNullsLast(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Services()

	for _, o := range unorderedInputs {
		in := model.NewServiceInput(0)
		in.Title = "Service"
		in.DisplayOrder = o
		if _, err := table.Insert(ctx, in); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := table.List(ctx, model.ListFilter{VisibleOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertOrders(t, displayOrders(items, func(s model.Service) *int64 { return s.DisplayOrder }), []int64{1, 2, 3, -1})
}

func TestTestimonialsOrderingNullsLast(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Testimonials()

	for _, o := range unorderedInputs {
		in := model.NewTestimonialInput(0)
		in.ClientName = "Client"
		in.Content = "Great"
		in.DisplayOrder = o
		if _, err := table.Insert(ctx, in); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := table.List(ctx, model.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertOrders(t, displayOrders(items, func(tm model.Testimonial) *int64 { return tm.DisplayOrder }), []int64{1, 2, 3, -1})
}

func TestListLimit(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Testimonials()

	for i := int64(5); i >= 1; i-- {
		in := model.NewTestimonialInput(i)
		in.ClientName = "Client"
		in.Content = "Great"
		if _, err := table.Insert(ctx, in); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := table.List(ctx, model.ListFilter{VisibleOnly: true, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	assertOrders(t, displayOrders(items, func(tm model.Testimonial) *int64 { return tm.DisplayOrder }), []int64{1, 2})
}

func TestVisibilityFlagAbsentIsExcluded(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()

	// Rows written outside the admin console may leave the flag NULL.
	_, err := db.ExecContext(ctx,
		`INSERT INTO services (id, title, created_at, updated_at) VALUES ('legacy', 'Legacy', ?, ?)`,
		time.Now().UTC(), time.Now().UTC())
	if err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	table := New(db).Services()
	active, err := table.List(ctx, model.ListFilter{VisibleOnly: true})
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("NULL is_active should be excluded, got %d rows", len(active))
	}

	all, err := table.List(ctx, model.ListFilter{})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 1 || all[0].IsActive != nil || all[0].Icon != nil {
		t.Fatalf("unexpected admin list: %+v", all)
	}
	if all[0].IconOrDefault() != model.DefaultIcon {
		t.Errorf("IconOrDefault() = %q", all[0].IconOrDefault())
	}
}

func TestPortfolioRoundTrip(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Portfolio()

	in := model.PortfolioInput{
		Title:        "Luxe Coffee Roasters",
		Description:  "Complete brand identity",
		ImageURL:     "https://example.com/coffee.jpg",
		Category:     "branding",
		IsFeatured:   true,
		DisplayOrder: order(1),
	}
	created, err := table.Insert(ctx, in)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created.ID should be assigned")
	}

	got, err := table.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != in.Title || got.Description == nil || *got.Description != in.Description ||
		got.ImageURL != in.ImageURL || got.Category == nil || *got.Category != in.Category ||
		!got.Featured() || got.DisplayOrder == nil || *got.DisplayOrder != 1 {
		t.Errorf("stored fields differ from input: %+v", got)
	}

	in.Title = "Luxe Coffee"
	in.Description = ""
	updated, err := table.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed on update: %s -> %s", created.ID, updated.ID)
	}
	if updated.Title != "Luxe Coffee" || updated.Description != nil {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestServiceFeaturesRoundTrip(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Services()

	in := model.NewServiceInput(1)
	in.Title = "Logo Design"
	in.Icon = "PenTool"
	in.Features = []string{"Custom Concepts", "Multiple Revisions", "Vector Files"}

	created, err := table.Insert(ctx, in)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := table.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Features) != 3 || got.Features[2] != "Vector Files" {
		t.Errorf("Features = %v", got.Features)
	}
	if got.Icon == nil || *got.Icon != "PenTool" {
		t.Errorf("Icon = %v", got.Icon)
	}
}

func TestDeleteMissingReturnsNotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Portfolio()

	created, err := table.Insert(ctx, model.PortfolioInput{Title: "X", ImageURL: "https://example.com/x.jpg"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := table.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := table.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
	if _, err := table.Update(ctx, created.ID, model.PortfolioInput{Title: "Y", ImageURL: "https://example.com/y.jpg"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update of deleted row error = %v, want ErrNotFound", err)
	}
	if _, err := table.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get of deleted row error = %v, want ErrNotFound", err)
	}
}

func TestTestimonialTextStoredAsEntered(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Testimonials()

	in := model.TestimonialInput{
		ClientName:    "  AT&amp;T <Design> Team ",
		ClientCompany: "Smith & Sons",
		Content:       "Rated <5> stars & counting",
		Rating:        4,
	}
	saved, err := table.Insert(ctx, in)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := table.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ClientName != "AT&amp;T <Design> Team" {
		t.Errorf("ClientName = %q", got.ClientName)
	}
	if got.ClientCompany == nil || *got.ClientCompany != "Smith & Sons" {
		t.Errorf("ClientCompany = %v", got.ClientCompany)
	}
	if got.Content != "Rated <5> stars & counting" {
		t.Errorf("Content = %q", got.Content)
	}
}

func TestTestimonialRatingEnforced(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Testimonials()

	for _, rating := range []int{0, 6} {
		_, err := table.Insert(ctx, model.TestimonialInput{ClientName: "A", Content: "B", Rating: rating})
		if err == nil {
			t.Errorf("rating %d should be rejected", rating)
		}
	}

	// The table constraint backs up the application check.
	_, err := db.ExecContext(ctx,
		`INSERT INTO testimonials (id, client_name, content, rating, created_at, updated_at) VALUES ('x', 'A', 'B', 9, ?, ?)`,
		time.Now().UTC(), time.Now().UTC())
	if err == nil {
		t.Error("CHECK constraint should reject rating 9")
	}
}

func TestCountAndImageURLs(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	table := New(db).Portfolio()

	n, err := table.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Count = %d, %v", n, err)
	}
	for _, u := range []string{"/uploads/originals/a/a.jpg", "https://example.com/b.jpg"} {
		if _, err := table.Insert(ctx, model.PortfolioInput{Title: "P", ImageURL: u}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	n, _ = table.Count(ctx)
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
	urls, err := table.ImageURLs(ctx)
	if err != nil {
		t.Fatalf("ImageURLs: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("ImageURLs = %v", urls)
	}
}

func TestEvents(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()
	q := New(db)

	base := time.Now()
	for i, msg := range []string{"first", "second"} {
		_, err := q.CreateEvent(ctx, CreateEventParams{
			Level:     model.EventLevelWarning,
			Category:  model.EventCategorySystem,
			Message:   msg,
			Metadata:  "{}",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}

	events, err := q.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 || events[0].Message != "second" {
		t.Errorf("ListEvents = %+v", events)
	}
}

func TestWithTxRollback(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := New(db).WithTx(tx).Portfolio().Insert(ctx, model.PortfolioInput{Title: "T", ImageURL: "https://e.com/t.jpg"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_ = tx.Rollback()

	n, _ := New(db).Portfolio().Count(ctx)
	if n != 0 {
		t.Errorf("Count after rollback = %d, want 0", n)
	}
}
