// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/studio-go/internal/model"
)

// Lists caches JSON-encoded list results per collection. Keys have the
// form "<collection>:<variant>" so a mutation can drop every cached
// variant of its collection at once.
//
// Each collection carries a generation bumped by Invalidate. A load that
// started before an invalidation is returned to its caller but never
// written back to the cache.
type Lists struct {
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewLists wraps c. A nil c disables caching.
func NewLists(c Cache, ttl time.Duration, logger *slog.Logger) *Lists {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lists{cache: c, ttl: ttl, logger: logger, generations: make(map[string]uint64)}
}

// Key builds the cache key of one variant of a collection listing.
func Key(collection, variant string) string {
	return collection + ":" + variant
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result. Cache failures are logged and never fail the read.
func GetOrLoad[T any](ctx context.Context, l *Lists, key string, load func() (T, error)) (T, error) {
	if l == nil || l.cache == nil {
		return load()
	}

	if data, err := l.cache.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		l.logger.Warn("discarding undecodable cache entry", "category", model.EventCategoryCache, "key", key)
	} else if err != ErrCacheMiss {
		l.logger.Warn("cache read failed", "category", model.EventCategoryCache, "key", key, "error", err)
	}

	collection := collectionOf(key)
	gen := l.generation(collection)

	v, err := load()
	if err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.generations[collection] != gen {
		l.logger.Debug("skipping cache write after invalidation", "category", model.EventCategoryCache, "key", key)
		return v, nil
	}
	if err := l.cache.Set(ctx, key, data, l.ttl); err != nil {
		l.logger.Warn("cache write failed", "category", model.EventCategoryCache, "key", key, "error", err)
	}
	return v, nil
}

func (l *Lists) generation(collection string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generations[collection]
}

func collectionOf(key string) string {
	collection, _, _ := strings.Cut(key, ":")
	return collection
}

// Invalidate drops every cached listing of collection.
func (l *Lists) Invalidate(ctx context.Context, collection string) {
	if l == nil || l.cache == nil {
		return
	}

	l.mu.Lock()
	l.generations[collection]++
	l.mu.Unlock()

	if err := l.cache.DeleteByPrefix(ctx, collection+":"); err != nil {
		l.logger.Warn("cache invalidation failed", "category", model.EventCategoryCache, "collection", collection, "error", err)
	}
}

// Stats reports the statistics of the underlying cache, if it has any.
func (l *Lists) Stats(ctx context.Context) (Stats, bool) {
	if l == nil || l.cache == nil {
		return Stats{}, false
	}
	sp, ok := l.cache.(StatsProvider)
	if !ok {
		return Stats{}, false
	}
	return sp.Stats(ctx), true
}
