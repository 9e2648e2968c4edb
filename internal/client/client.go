// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package client is a Go client for the studio REST API. Its collection
// accessors satisfy the same read and write interfaces as the store
// tables, so queries and admin panels run unchanged against a remote
// server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/seed"
	"github.com/olegiv/studio-go/internal/store"
	"github.com/olegiv/studio-go/internal/version"
)

// Defaults.
const (
	DefaultTimeout = 30 * time.Second
	// UserAgent is sent with every request.
	UserAgent = "studio-client/1.0"
	// maxResponseSize bounds decoded response bodies.
	maxResponseSize = 10 << 20
)

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (status %d)", e.StatusCode)
	}
	return e.Message
}

// Is makes a 404 match store.ErrNotFound.
func (e *Error) Is(target error) bool {
	return target == store.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Unwrap exposes field errors of a 422 response as *model.ValidationError.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnprocessableEntity && len(e.Details) > 0 {
		return &model.ValidationError{Fields: e.Details}
	}
	return nil
}

// Client talks to one studio server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the server at baseURL, e.g.
// "https://studio.example.com". apiKey is sent to admin endpoints.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// do sends a request and decodes the "data" member of the response into
// out, which may be nil.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" && strings.HasPrefix(path, "/admin/") {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var env errorEnvelope
		if json.Unmarshal(data, &env) == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, body, out)
}

// Collection is a remote content collection.
type Collection[T any, In any] struct {
	client       *Client
	name         string
	visibleParam string
}

// Portfolio returns the portfolio collection.
func (c *Client) Portfolio() Collection[model.PortfolioItem, model.PortfolioInput] {
	return Collection[model.PortfolioItem, model.PortfolioInput]{client: c, name: model.CollectionPortfolio, visibleParam: "featured"}
}

// Services returns the services collection.
func (c *Client) Services() Collection[model.Service, model.ServiceInput] {
	return Collection[model.Service, model.ServiceInput]{client: c, name: model.CollectionServices, visibleParam: "active"}
}

// Testimonials returns the testimonials collection.
func (c *Client) Testimonials() Collection[model.Testimonial, model.TestimonialInput] {
	return Collection[model.Testimonial, model.TestimonialInput]{client: c, name: model.CollectionTestimonials, visibleParam: "featured"}
}

// List reads the collection. Unfiltered reads by a client holding an admin
// key go to the uncached admin endpoint so a re-read after a write sees it;
// everything else uses the public endpoint.
func (col Collection[T, In]) List(ctx context.Context, f model.ListFilter) ([]T, error) {
	q := url.Values{}
	if f.VisibleOnly {
		q.Set(col.visibleParam, "true")
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	path := "/" + col.name
	if !f.VisibleOnly && col.client.apiKey != "" {
		path = "/admin/" + col.name
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var items []T
	if err := col.client.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get reads one record.
func (col Collection[T, In]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := col.client.doJSON(ctx, http.MethodGet, col.itemPath(id), nil, &item)
	return item, err
}

// Insert creates a record.
func (col Collection[T, In]) Insert(ctx context.Context, in In) (T, error) {
	var item T
	err := col.client.doJSON(ctx, http.MethodPost, "/admin/"+col.name, in, &item)
	return item, err
}

// Update replaces the editable fields of a record.
func (col Collection[T, In]) Update(ctx context.Context, id string, in In) (T, error) {
	var item T
	err := col.client.doJSON(ctx, http.MethodPut, col.itemPath(id), in, &item)
	return item, err
}

// Delete removes a record.
func (col Collection[T, In]) Delete(ctx context.Context, id string) error {
	return col.client.doJSON(ctx, http.MethodDelete, col.itemPath(id), nil, nil)
}

func (col Collection[T, In]) itemPath(id string) string {
	return "/admin/" + col.name + "/" + url.PathEscape(id)
}

// Seed fills the empty collections of the server with sample data.
func (c *Client) Seed(ctx context.Context) (seed.Results, error) {
	var res seed.Results
	err := c.doJSON(ctx, http.MethodPost, "/admin/seed", nil, &res)
	return res, err
}

// Upload sends an image and returns the stored upload.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*model.Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	var up model.Upload
	if err := c.do(ctx, http.MethodPost, "/admin/uploads", mw.FormDataContentType(), &buf, &up); err != nil {
		return nil, err
	}
	return &up, nil
}

// UploadImage sends an image and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	up, err := c.Upload(ctx, filename, r)
	if err != nil {
		return "", err
	}
	if up.URL == "" {
		return "", errors.New("upload response has no url")
	}
	return up.URL, nil
}

// Events returns the most recent event log entries.
func (c *Client) Events(ctx context.Context, limit int) ([]model.Event, error) {
	path := "/admin/events"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var events []model.Event
	err := c.doJSON(ctx, http.MethodGet, path, nil, &events)
	return events, err
}

// Status describes the health of the server.
type Status struct {
	Status   string           `json:"status"`
	Database string           `json:"database"`
	Counts   map[string]int64 `json:"counts"`
	Build    version.Info     `json:"build"`
}

// Status reports server health.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var s Status
	err := c.doJSON(ctx, http.MethodGet, "/status", nil, &s)
	return s, err
}
