// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content keeps client-side views of the content collections in
// sync with a store: Query is a read-only, filtered view for public pages
// and Panel is the admin list with create, update and delete.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/studio-go/internal/model"
)

// Source reads one ordered collection.
type Source[T any] interface {
	List(ctx context.Context, f model.ListFilter) ([]T, error)
}

// Options are the inputs of a Query. A new read is issued only when the
// options differ from the previous ones.
type Options struct {
	// FilterVisible restricts results to featured (portfolio, testimonials)
	// or active (services) records.
	FilterVisible bool
	// Limit caps the result size; zero means unlimited.
	Limit int
}

// FeaturedOnly returns options for featured portfolio items or testimonials.
func FeaturedOnly(limit int) Options { return Options{FilterVisible: true, Limit: limit} }

// ActiveOnly returns options for active services.
func ActiveOnly(limit int) Options { return Options{FilterVisible: true, Limit: limit} }

func (o Options) filter() model.ListFilter {
	return model.ListFilter{VisibleOnly: o.FilterVisible, Limit: o.Limit}
}

// State is a snapshot of a Query.
type State[T any] struct {
	Items   []T
	Loading bool
	// Err is a human-readable message of the last failed read, empty otherwise.
	Err string
}

// Query is an asynchronously populated, read-only view of a collection.
//
// Every read is tagged with a sequence number. A response that arrives after
// a newer read has been issued is discarded, so the state always reflects
// the most recently issued options.
type Query[T any] struct {
	name   string
	source Source[T]
	logger *slog.Logger

	mu      sync.Mutex
	state   State[T]
	opts    Options
	issued  bool
	seq     uint64
	closed  bool
	subs    map[int]chan State[T]
	nextSub int
}

// NewQuery creates a query over source. name is used in error messages.
// No read happens until Set or Refresh is called.
func NewQuery[T any](name string, source Source[T], logger *slog.Logger) *Query[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Query[T]{
		name:   name,
		source: source,
		logger: logger.With("query", name),
		state:  State[T]{Items: []T{}, Loading: true},
		subs:   make(map[int]chan State[T]),
	}
}

// NewPortfolioQuery creates a query over portfolio items.
func NewPortfolioQuery(source Source[model.PortfolioItem], logger *slog.Logger) *Query[model.PortfolioItem] {
	return NewQuery(model.CollectionPortfolio, source, logger)
}

// NewServicesQuery creates a query over services.
func NewServicesQuery(source Source[model.Service], logger *slog.Logger) *Query[model.Service] {
	return NewQuery(model.CollectionServices, source, logger)
}

// NewTestimonialsQuery creates a query over testimonials.
func NewTestimonialsQuery(source Source[model.Testimonial], logger *slog.Logger) *Query[model.Testimonial] {
	return NewQuery(model.CollectionTestimonials, source, logger)
}

// closedDone is returned when no read was issued.
var closedDone = func() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Set applies new options. When they differ from the last issued options a
// read starts in the background; the returned channel is closed once that
// read has resolved (applied or discarded). Unchanged options issue nothing
// and return an already closed channel.
func (q *Query[T]) Set(ctx context.Context, opts Options) <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || (q.issued && q.opts == opts) {
		return closedDone
	}
	q.opts = opts
	return q.issueLocked(ctx)
}

// Refresh re-reads the collection with the current options.
func (q *Query[T]) Refresh(ctx context.Context) <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return closedDone
	}
	return q.issueLocked(ctx)
}

func (q *Query[T]) issueLocked(ctx context.Context) <-chan struct{} {
	q.issued = true
	q.seq++
	seq := q.seq
	opts := q.opts

	q.state.Loading = true
	q.notifyLocked()

	done := make(chan struct{})
	go func() {
		defer close(done)
		items, err := q.source.List(ctx, opts.filter())
		q.resolve(seq, items, err)
	}()
	return done
}

func (q *Query[T]) resolve(seq uint64, items []T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	if seq != q.seq {
		q.logger.Debug("discarding stale response", "seq", seq, "latest", q.seq)
		return
	}

	q.state.Loading = false
	if err != nil {
		q.state.Err = fmt.Sprintf("failed to fetch %s: %v", q.name, err)
		q.logger.Warn("content fetch failed", "category", model.EventCategoryContent, "error", err)
	} else {
		if items == nil {
			items = []T{}
		}
		q.state.Items = items
		q.state.Err = ""
	}
	q.notifyLocked()
}

// State returns the current snapshot.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Options returns the last applied options.
func (q *Query[T]) Options() Options {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.opts
}

func (q *Query[T]) snapshotLocked() State[T] {
	s := q.state
	s.Items = append([]T(nil), q.state.Items...)
	if s.Items == nil {
		s.Items = []T{}
	}
	return s
}

// Subscribe returns a channel that receives the latest state after every
// change. Slow readers only see the most recent snapshot. The channel is
// closed by cancel or by Close.
func (q *Query[T]) Subscribe() (<-chan State[T], func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch := make(chan State[T], 1)
	if q.closed {
		close(ch)
		return ch, func() {}
	}
	id := q.nextSub
	q.nextSub++
	q.subs[id] = ch
	ch <- q.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			if c, ok := q.subs[id]; ok {
				delete(q.subs, id)
				close(c)
			}
		})
	}
}

func (q *Query[T]) notifyLocked() {
	if len(q.subs) == 0 {
		return
	}
	snap := q.snapshotLocked()
	for _, ch := range q.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close detaches the query. Reads still in flight are ignored when they
// resolve and all subscriptions are closed.
func (q *Query[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	for id, ch := range q.subs {
		delete(q.subs, id)
		close(ch)
	}
}
