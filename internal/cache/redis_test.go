// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("STUDIO_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: STUDIO_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	c, err := NewRedisCache(skipIfNoRedis(t), "studio-test:", time.Minute)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	_ = c.DeleteByPrefix(context.Background(), "")
	t.Cleanup(func() {
		_ = c.DeleteByPrefix(context.Background(), "")
		_ = c.Close()
	})
	return c
}

func TestRedisCache_Basic(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want v", got)
	}

	if err := c.Set(ctx, "short", []byte("v"), 50*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if _, err := c.Get(ctx, "short"); err != ErrCacheMiss {
		t.Errorf("Get after expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	_ = c.Set(ctx, "portfolio:a", []byte("1"), 0)
	_ = c.Set(ctx, "portfolio:b", []byte("2"), 0)
	_ = c.Set(ctx, "services:a", []byte("3"), 0)

	if err := c.DeleteByPrefix(ctx, "portfolio:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if _, err := c.Get(ctx, "portfolio:a"); err != ErrCacheMiss {
		t.Error("portfolio:a still cached")
	}
	if _, err := c.Get(ctx, "services:a"); err != nil {
		t.Errorf("services:a removed: %v", err)
	}

	if s := c.Stats(ctx); s.Backend != "redis" || s.Items != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestRedisCache_Closed(t *testing.T) {
	c := newTestRedis(t)
	_ = c.Close()

	if _, err := c.Get(context.Background(), "k"); err != ErrCacheClosed {
		t.Errorf("Get after Close error = %v, want ErrCacheClosed", err)
	}
}
