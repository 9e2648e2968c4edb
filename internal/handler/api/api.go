// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API of the content service.
package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/olegiv/studio-go/internal/cache"
	"github.com/olegiv/studio-go/internal/media"
	"github.com/olegiv/studio-go/internal/store"
	"github.com/olegiv/studio-go/internal/version"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db       *sql.DB
	queries  *store.Queries
	lists    *cache.Lists
	uploader *media.Uploader
	version  version.Info
	logger   *slog.Logger
}

// Options carries the optional collaborators of a Handler.
type Options struct {
	// Lists caches public list responses; nil disables caching.
	Lists *cache.Lists
	// Uploader stores images; nil disables the upload endpoint.
	Uploader *media.Uploader
	Version  version.Info
	Logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:       db,
		queries:  store.New(db),
		lists:    opts.Lists,
		uploader: opts.Uploader,
		version:  opts.Version,
		logger:   logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains list metadata.
type Meta struct {
	Total int64 `json:"total"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status   string           `json:"status"`
	Version  string           `json:"version"`
	Database string           `json:"database"`
	Counts   map[string]int64 `json:"counts,omitempty"`
	Cache    *cache.Stats     `json:"cache,omitempty"`
	Build    version.Info     `json:"build"`
}

// Status reports service health and collection sizes.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := StatusResponse{
		Status:   "ok",
		Version:  "v1",
		Database: "ok",
		Build:    h.version,
	}

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("database ping failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "unavailable"
		WriteJSON(w, http.StatusServiceUnavailable, Response{Data: resp})
		return
	}

	counts := map[string]int64{}
	if n, err := h.queries.Portfolio().Count(ctx); err == nil {
		counts["portfolio"] = n
	}
	if n, err := h.queries.Services().Count(ctx); err == nil {
		counts["services"] = n
	}
	if n, err := h.queries.Testimonials().Count(ctx); err == nil {
		counts["testimonials"] = n
	}
	resp.Counts = counts

	if stats, ok := h.lists.Stats(ctx); ok {
		resp.Cache = &stats
	}

	WriteSuccess(w, resp, nil)
}
