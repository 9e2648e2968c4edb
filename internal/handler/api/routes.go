// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/studio-go/internal/model"
)

// Routes returns the /api/v1 router. Admin endpoints are wrapped in
// adminAuth; a nil adminAuth leaves them open, which only tests should do.
func (h *Handler) Routes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.Status)
	r.Get("/"+model.CollectionPortfolio, publicList(h, portfolioCollection))
	r.Get("/"+model.CollectionServices, publicList(h, servicesCollection))
	r.Get("/"+model.CollectionTestimonials, publicList(h, testimonialsCollection))

	r.Route("/admin", func(r chi.Router) {
		if adminAuth != nil {
			r.Use(adminAuth)
		}

		mountAdmin(r, h, portfolioCollection)
		mountAdmin(r, h, servicesCollection)
		mountAdmin(r, h, testimonialsCollection)

		r.Post("/seed", h.Seed)
		r.Post("/uploads", h.Upload)
		r.Get("/events", h.Events)
	})

	return r
}

func mountAdmin[T model.Entity, In validator](r chi.Router, h *Handler, c collection[T, In]) {
	r.Route("/"+c.name, func(r chi.Router) {
		r.Get("/", adminList(h, c))
		r.Post("/", adminCreate(h, c))
		r.Get("/{id}", adminGet(h, c))
		r.Put("/{id}", adminUpdate(h, c))
		r.Delete("/{id}", adminDelete(h, c))
	})
}
