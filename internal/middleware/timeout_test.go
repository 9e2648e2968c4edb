// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutPassesThroughFastHandlers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/api/v1/admin/services/abc")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"abc"}}`))
	})

	rr := httptest.NewRecorder()
	Timeout(5*time.Second)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/services", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/v1/admin/services/abc", rr.Header().Get("Location"))
	assert.JSONEq(t, `{"data":{"id":"abc"}}`, rr.Body.String())
}

func TestTimeoutAnswersSlowHandlers(t *testing.T) {
	finished := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		select {
		case <-time.After(5 * time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	})

	rr := httptest.NewRecorder()
	Timeout(50*time.Millisecond)(handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/portfolio", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "timeout", errorCode(t, rr))

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("handler context was not cancelled")
	}
}

func TestTimeoutWriter(t *testing.T) {
	t.Run("first status wins", func(t *testing.T) {
		rr := httptest.NewRecorder()
		tw := &timeoutWriter{ResponseWriter: rr}

		tw.WriteHeader(http.StatusAccepted)
		tw.WriteHeader(http.StatusNotFound)
		_, err := tw.Write([]byte("ok"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})

	t.Run("write implies 200", func(t *testing.T) {
		rr := httptest.NewRecorder()
		tw := &timeoutWriter{ResponseWriter: rr}

		n, err := tw.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.True(t, tw.wroteHeader)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("writes after timeout fail", func(t *testing.T) {
		rr := httptest.NewRecorder()
		tw := &timeoutWriter{ResponseWriter: rr, timedOut: true}

		tw.WriteHeader(http.StatusOK)
		_, err := tw.Write([]byte("late"))
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
		assert.False(t, tw.wroteHeader)
		assert.Zero(t, rr.Body.Len())
	})
}

func TestTimeoutPropagatesPanic(t *testing.T) {
	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	assert.PanicsWithValue(t, "boom", func() {
		Timeout(time.Second)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
