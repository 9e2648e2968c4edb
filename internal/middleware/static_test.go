// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticCache(t *testing.T) {
	tests := []struct {
		name   string
		maxAge int
		want   string
	}{
		{"one hour", 3600, "public, max-age=3600"},
		{"one week", 604800, "public, max-age=604800"},
		{"zero", 0, "public, max-age=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := executeRequest(StaticCache(tt.maxAge)(simpleOKHandler), http.MethodGet, "/uploads/a.png")
			if got := rr.Header().Get("Cache-Control"); got != tt.want {
				t.Errorf("Cache-Control = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUploads(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "originals", "abc")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "1.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	handler := http.StripPrefix("/uploads", Uploads(dir, 604800))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/originals/abc/1.png", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("file: Status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "png-bytes" {
		t.Errorf("Body = %q", rr.Body.String())
	}
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=604800" {
		t.Errorf("Cache-Control = %q", got)
	}

	for _, path := range []string{"/uploads/originals/", "/uploads/originals/abc/", "/uploads/missing.png"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: Status = %d, want 404", path, rr.Code)
		}
	}
}
