// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/olegiv/studio-go/internal/media"
	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/seed"
)

// Event listing bounds.
const (
	DefaultEventsLimit = 50
	MaxEventsLimit     = 500
)

// Seed fills empty collections with sample data. Groups that already hold
// rows are reported as skipped; a failing group is reported with its error
// and does not stop the others.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	results, err := seed.Run(r.Context(), h.db, h.logger)

	for _, c := range []string{model.CollectionPortfolio, model.CollectionServices, model.CollectionTestimonials} {
		h.lists.Invalidate(r.Context(), c)
	}

	if err != nil {
		h.logger.Warn("seeding finished with errors", "category", model.EventCategorySeed, "error", err)
	}
	WriteSuccess(w, results, nil)
}

// Upload stores the multipart "file" field as an image.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		WriteError(w, http.StatusServiceUnavailable, "uploads_disabled", "Uploads are not configured", nil)
		return
	}

	// Multipart framing adds a little on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", map[string]string{"file": "File too large or malformed request"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "No file uploaded", map[string]string{"file": "File is required"})
		return
	}
	defer func() { _ = file.Close() }()

	up, err := h.uploader.Upload(r.Context(), header.Filename, file)
	switch {
	case errors.Is(err, media.ErrEmptyFile):
		WriteValidationError(w, map[string]string{"file": "File is empty"})
		return
	case errors.Is(err, media.ErrTooLarge):
		WriteValidationError(w, map[string]string{"file": "File is larger than 10MB"})
		return
	case errors.Is(err, media.ErrUnsupportedType):
		WriteValidationError(w, map[string]string{"file": "Only JPEG, PNG, GIF and WebP images are accepted"})
		return
	case err != nil:
		h.logger.Error("upload failed", "category", model.EventCategoryMedia, "filename", header.Filename, "error", err)
		WriteInternalError(w, "Failed to store upload")
		return
	}

	WriteCreated(w, up)
}

// Events lists the most recent event log entries.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	limit := DefaultEventsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			WriteBadRequest(w, "Invalid query parameters", map[string]string{"limit": "Must be a positive integer"})
			return
		}
		limit = min(n, MaxEventsLimit)
	}

	events, err := h.queries.ListEvents(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list events", "category", model.EventCategorySystem, "error", err)
		WriteInternalError(w, "Failed to list events")
		return
	}
	WriteSuccess(w, events, &Meta{Total: int64(len(events))})
}
