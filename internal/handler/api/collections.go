// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/studio-go/internal/cache"
	"github.com/olegiv/studio-go/internal/markup"
	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/store"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// table is the store surface the collection handlers need.
type table[T any, In any] interface {
	List(ctx context.Context, f model.ListFilter) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id string, in In) (T, error)
	Delete(ctx context.Context, id string) error
}

type validator interface {
	Validate() error
}

// collection binds one content table to its HTTP surface.
type collection[T model.Entity, In validator] struct {
	name string
	// label names a single record in messages, e.g. "Portfolio item".
	label string
	// visibleParam is the query parameter of the public filter.
	visibleParam string
	table        func(*store.Queries) table[T, In]
	// present converts a record to its public representation.
	present func(T) any
}

// PortfolioResponse is a portfolio item with its rendered description.
type PortfolioResponse struct {
	model.PortfolioItem
	DescriptionHTML *string `json:"description_html,omitempty"`
}

// ServiceResponse is a service with its rendered description.
type ServiceResponse struct {
	model.Service
	DescriptionHTML *string `json:"description_html,omitempty"`
}

var portfolioCollection = collection[model.PortfolioItem, model.PortfolioInput]{
	name:         model.CollectionPortfolio,
	label:        "Portfolio item",
	visibleParam: "featured",
	table: func(q *store.Queries) table[model.PortfolioItem, model.PortfolioInput] {
		return q.Portfolio()
	},
	present: func(p model.PortfolioItem) any {
		return PortfolioResponse{PortfolioItem: p, DescriptionHTML: markup.RenderPtr(p.Description)}
	},
}

var servicesCollection = collection[model.Service, model.ServiceInput]{
	name:         model.CollectionServices,
	label:        "Service",
	visibleParam: "active",
	table: func(q *store.Queries) table[model.Service, model.ServiceInput] {
		return q.Services()
	},
	present: func(s model.Service) any {
		return ServiceResponse{Service: s, DescriptionHTML: markup.RenderPtr(s.Description)}
	},
}

var testimonialsCollection = collection[model.Testimonial, model.TestimonialInput]{
	name:         model.CollectionTestimonials,
	label:        "Testimonial",
	visibleParam: "featured",
	table: func(q *store.Queries) table[model.Testimonial, model.TestimonialInput] {
		return q.Testimonials()
	},
	present: func(t model.Testimonial) any { return t },
}

// parseListFilter reads the visibility flag and limit from the query string.
func parseListFilter(r *http.Request, visibleParam string) (model.ListFilter, map[string]string) {
	var f model.ListFilter
	errs := map[string]string{}

	if v := r.URL.Query().Get(visibleParam); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs[visibleParam] = "Must be true or false"
		}
		f.VisibleOnly = b
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs["limit"] = "Must be a non-negative integer"
		}
		f.Limit = n
	}

	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

// publicList serves a filtered, cached listing.
func publicList[T model.Entity, In validator](h *Handler, c collection[T, In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, errs := parseListFilter(r, c.visibleParam)
		if errs != nil {
			WriteBadRequest(w, "Invalid query parameters", errs)
			return
		}

		key := cache.Key(c.name, fmt.Sprintf("visible=%t&limit=%d", f.VisibleOnly, f.Limit))
		data, err := cache.GetOrLoad(r.Context(), h.lists, key, func() ([]any, error) {
			items, err := c.table(h.queries).List(r.Context(), f)
			if err != nil {
				return nil, err
			}
			out := make([]any, len(items))
			for i, it := range items {
				out[i] = c.present(it)
			}
			return out, nil
		})
		if err != nil {
			h.logger.Error("failed to list "+c.name, "category", model.EventCategoryContent, "error", err)
			WriteInternalError(w, "Failed to list "+c.name)
			return
		}

		WriteSuccess(w, data, &Meta{Total: int64(len(data))})
	}
}

// adminList serves the collection uncached, in display order. Hidden rows
// are included unless the visibility parameter asks otherwise.
func adminList[T model.Entity, In validator](h *Handler, c collection[T, In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, errs := parseListFilter(r, c.visibleParam)
		if errs != nil {
			WriteBadRequest(w, "Invalid query parameters", errs)
			return
		}

		items, err := c.table(h.queries).List(r.Context(), f)
		if err != nil {
			h.logger.Error("failed to list "+c.name, "category", model.EventCategoryContent, "error", err)
			WriteInternalError(w, "Failed to list "+c.name)
			return
		}
		if items == nil {
			items = []T{}
		}
		WriteSuccess(w, items, &Meta{Total: int64(len(items))})
	}
}

func adminGet[T model.Entity, In validator](h *Handler, c collection[T, In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := c.table(h.queries).Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.writeStoreError(w, c.label, "retrieve", err)
			return
		}
		WriteSuccess(w, item, nil)
	}
}

func adminCreate[T model.Entity, In validator](h *Handler, c collection[T, In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeInput[In](w, r)
		if !ok {
			return
		}

		item, err := c.table(h.queries).Insert(r.Context(), in)
		if err != nil {
			h.writeStoreError(w, c.label, "create", err)
			return
		}

		h.lists.Invalidate(r.Context(), c.name)
		h.logger.Info(c.label+" created", "category", model.EventCategoryContent, "id", item.EntityID())
		WriteCreated(w, item)
	}
}

func adminUpdate[T model.Entity, In validator](h *Handler, c collection[T, In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeInput[In](w, r)
		if !ok {
			return
		}

		item, err := c.table(h.queries).Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			h.writeStoreError(w, c.label, "update", err)
			return
		}

		h.lists.Invalidate(r.Context(), c.name)
		h.logger.Info(c.label+" updated", "category", model.EventCategoryContent, "id", item.EntityID())
		WriteSuccess(w, item, nil)
	}
}

func adminDelete[T model.Entity, In validator](h *Handler, c collection[T, In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := c.table(h.queries).Delete(r.Context(), id); err != nil {
			h.writeStoreError(w, c.label, "delete", err)
			return
		}

		h.lists.Invalidate(r.Context(), c.name)
		h.logger.Info(c.label+" deleted", "category", model.EventCategoryContent, "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeInput reads and validates a JSON input body. On failure the
// response has been written.
func decodeInput[In validator](w http.ResponseWriter, r *http.Request) (In, bool) {
	var in In
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		WriteBadRequest(w, "Invalid JSON body", map[string]string{"body": err.Error()})
		return in, false
	}

	if err := in.Validate(); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			WriteValidationError(w, ve.Fields)
		} else {
			WriteBadRequest(w, err.Error(), nil)
		}
		return in, false
	}
	return in, true
}

// writeStoreError maps store errors to responses.
func (h *Handler) writeStoreError(w http.ResponseWriter, label, action string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteNotFound(w, label+" not found")
	case errors.As(err, &ve):
		WriteValidationError(w, ve.Fields)
	default:
		h.logger.Error("failed to "+action+" "+label, "category", model.EventCategoryContent, "error", err)
		WriteInternalError(w, "Failed to "+action+" "+label)
	}
}
