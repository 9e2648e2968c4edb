// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/studio-go/internal/cache"
	"github.com/olegiv/studio-go/internal/media"
	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/store"
	"github.com/olegiv/studio-go/internal/testutil"
	"github.com/olegiv/studio-go/internal/version"
)

type testEnv struct {
	server  *httptest.Server
	queries *store.Queries
	lists   *cache.Lists
}

func newTestEnv(t *testing.T, adminAuth func(http.Handler) http.Handler) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	lists := cache.NewLists(cache.NewMemoryCache(cache.MemoryCacheOptions{}), time.Minute, testutil.TestLoggerSilent())
	h := NewHandler(db, Options{
		Lists:    lists,
		Uploader: media.NewUploader(t.TempDir(), "", testutil.TestLoggerSilent()),
		Version:  version.Info{Version: "1.2.3"},
		Logger:   testutil.TestLoggerSilent(),
	})

	srv := httptest.NewServer(h.Routes(adminAuth))
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, queries: store.New(db), lists: lists}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

type itemEnvelope[T any] struct {
	Data T `json:"data"`
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func order(n int64) *int64 { return &n }

func insertPortfolio(t *testing.T, q *store.Queries, title string, featured bool, o *int64) model.PortfolioItem {
	t.Helper()
	p, err := q.Portfolio().Insert(context.Background(), model.PortfolioInput{
		Title:        title,
		Description:  "Some **bold** work",
		ImageURL:     "https://images.example.com/" + strings.ToLower(title) + ".jpg",
		Category:     "branding",
		IsFeatured:   featured,
		DisplayOrder: o,
	})
	require.NoError(t, err)
	return p
}

func TestPublicPortfolioFiltersAndOrders(t *testing.T) {
	env := newTestEnv(t, nil)
	insertPortfolio(t, env.queries, "Third", true, order(3))
	insertPortfolio(t, env.queries, "First", true, order(1))
	insertPortfolio(t, env.queries, "Unordered", true, nil)
	insertPortfolio(t, env.queries, "Hidden", false, order(0))
	insertPortfolio(t, env.queries, "Second", true, order(2))

	resp, body := env.do(t, http.MethodGet, "/portfolio?featured=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[listEnvelope[PortfolioResponse]](t, body)
	titles := make([]string, len(got.Data))
	for i, p := range got.Data {
		titles[i] = p.Title
	}
	assert.Equal(t, []string{"First", "Second", "Third", "Unordered"}, titles)
	assert.Equal(t, int64(4), got.Meta.Total)

	require.NotNil(t, got.Data[0].DescriptionHTML)
	assert.Contains(t, *got.Data[0].DescriptionHTML, "<strong>bold</strong>")
}

func TestPublicListLimit(t *testing.T) {
	env := newTestEnv(t, nil)
	for i := int64(5); i >= 1; i-- {
		insertPortfolio(t, env.queries, "Item"+string(rune('A'+i)), true, order(i))
	}

	resp, body := env.do(t, http.MethodGet, "/portfolio?featured=true&limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[listEnvelope[PortfolioResponse]](t, body)
	require.Len(t, got.Data, 2)
	assert.Equal(t, int64(1), *got.Data[0].DisplayOrder)
	assert.Equal(t, int64(2), *got.Data[1].DisplayOrder)
}

func TestPublicListRejectsBadParams(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/portfolio?featured=maybe", "/services?active=x", "/testimonials?limit=-1", "/testimonials?limit=abc"} {
		resp, body := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)

		errResp := decode[ErrorResponse](t, body)
		assert.Equal(t, "bad_request", errResp.Error.Code)
	}
}

func TestPublicListIsInvalidatedByAdminWrites(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/services?active=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[listEnvelope[ServiceResponse]](t, body).Data)

	resp, _ = env.do(t, http.MethodPost, "/admin/services", model.ServiceInput{
		Title:    "Brand Identity",
		Icon:     string(model.IconPalette),
		Features: []string{"Logo"},
		IsActive: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/services?active=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[listEnvelope[ServiceResponse]](t, body)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Brand Identity", got.Data[0].Title)
	assert.Equal(t, []string{"Logo"}, got.Data[0].Features)
}

func TestAdminTestimonialLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodPost, "/admin/testimonials", model.TestimonialInput{
		ClientName: "Ana",
		Content:    "Great work",
		Rating:     5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[itemEnvelope[model.Testimonial]](t, body).Data
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana", created.ClientName)

	resp, body = env.do(t, http.MethodGet, "/admin/testimonials/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decode[itemEnvelope[model.Testimonial]](t, body).Data.ID)

	resp, body = env.do(t, http.MethodPut, "/admin/testimonials/"+created.ID, model.TestimonialInput{
		ClientName: "Ana Silva",
		Content:    "Great work, again",
		Rating:     4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decode[itemEnvelope[model.Testimonial]](t, body).Data
	assert.Equal(t, "Ana Silva", updated.ClientName)
	assert.Equal(t, 4, updated.Rating)

	resp, _ = env.do(t, http.MethodDelete, "/admin/testimonials/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/admin/testimonials", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[listEnvelope[model.Testimonial]](t, body).Data)
}

func TestAdminRejectsInvalidRating(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, rating := range []int{0, 6} {
		resp, body := env.do(t, http.MethodPost, "/admin/testimonials", model.TestimonialInput{
			ClientName: "Ana",
			Content:    "Great work",
			Rating:     rating,
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		errResp := decode[ErrorResponse](t, body)
		assert.Equal(t, "validation_error", errResp.Error.Code)
		assert.Contains(t, errResp.Error.Details, "rating")
	}

	n, err := env.queries.Testimonials().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdminMissingIDIsNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	insertPortfolio(t, env.queries, "Kept", true, order(1))

	resp, _ := env.do(t, http.MethodDelete, "/admin/portfolio/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/admin/portfolio/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/admin/portfolio/does-not-exist", model.PortfolioInput{
		Title:    "X",
		ImageURL: "https://images.example.com/x.jpg",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	n, err := env.queries.Portfolio().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAdminRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodPost, "/admin/portfolio", map[string]any{
		"title":     "X",
		"image_url": "https://images.example.com/x.jpg",
		"id":        "forced",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminListIncludesHiddenRows(t *testing.T) {
	env := newTestEnv(t, nil)
	insertPortfolio(t, env.queries, "Shown", true, order(2))
	insertPortfolio(t, env.queries, "Hidden", false, order(1))

	resp, body := env.do(t, http.MethodGet, "/admin/portfolio", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[listEnvelope[model.PortfolioItem]](t, body)
	require.Len(t, got.Data, 2)
	assert.Equal(t, "Hidden", got.Data[0].Title)
}

func TestAdminRoutesUseAuth(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			WriteUnauthorized(w, "API key required")
		})
	}
	env := newTestEnv(t, deny)

	resp, _ := env.do(t, http.MethodGet, "/admin/portfolio", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/portfolio", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSeedEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	type groups struct {
		Portfolio    struct{ Inserted, Skipped int } `json:"portfolio"`
		Testimonials struct{ Inserted, Skipped int } `json:"testimonials"`
		Services     struct{ Inserted, Skipped int } `json:"services"`
	}

	resp, body := env.do(t, http.MethodPost, "/admin/seed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[itemEnvelope[groups]](t, body).Data
	assert.Equal(t, 6, first.Portfolio.Inserted)
	assert.Equal(t, 4, first.Testimonials.Inserted)
	assert.Equal(t, 6, first.Services.Inserted)

	resp, body = env.do(t, http.MethodPost, "/admin/seed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[itemEnvelope[groups]](t, body).Data
	assert.Zero(t, second.Portfolio.Inserted)
	assert.Equal(t, 6, second.Portfolio.Skipped)
}

func TestUploadEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	img := image.NewRGBA(image.Rect(0, 0, 900, 700))
	for x := 0; x < 900; x++ {
		img.Set(x, x%700, color.RGBA{R: 200, A: 255})
	}
	var pngData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write(pngData.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(env.server.URL+"/admin/uploads", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got itemEnvelope[model.Upload]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, strings.HasPrefix(got.Data.URL, "/uploads/originals/"+got.Data.UUID+"/"))
	assert.True(t, strings.HasSuffix(got.Data.URL, ".png"))
	assert.Equal(t, 900, got.Data.Width)
	assert.True(t, model.IsImageReference(got.Data.URL))
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("just some text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(env.server.URL+"/admin/uploads", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUploadRequiresFile(t *testing.T) {
	env := newTestEnv(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(env.server.URL+"/admin/uploads", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEventsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, msg := range []string{"first", "second"} {
		_, err := env.queries.CreateEvent(ctx, store.CreateEventParams{
			Level:     model.EventLevelError,
			Category:  model.EventCategorySystem,
			Message:   msg,
			Metadata:  "{}",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	resp, body := env.do(t, http.MethodGet, "/admin/events?limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[listEnvelope[model.Event]](t, body)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "second", got.Data[0].Message)

	resp, _ = env.do(t, http.MethodGet, "/admin/events?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	insertPortfolio(t, env.queries, "One", true, order(1))

	resp, body := env.do(t, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[itemEnvelope[StatusResponse]](t, body).Data
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, int64(1), got.Counts["portfolio"])
	assert.Equal(t, "1.2.3", got.Build.Version)
	require.NotNil(t, got.Cache)
	assert.Equal(t, "memory", got.Cache.Backend)
}
