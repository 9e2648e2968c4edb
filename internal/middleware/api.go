// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the studio API.
package middleware

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/olegiv/studio-go/internal/model"
)

// MinAdminKeyLength is the shortest admin key HashAdminKey accepts.
const MinAdminKeyLength = 16

// maxTrackedClients bounds the per-client limiter map.
const maxTrackedClients = 10000

// ErrAdminKeyTooShort is returned by HashAdminKey for short keys.
var ErrAdminKeyTooShort = fmt.Errorf("admin key must be at least %d characters", MinAdminKeyLength)

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// HashAdminKey returns the bcrypt hash to configure as STUDIO_ADMIN_KEY_HASH.
func HashAdminKey(key string) (string, error) {
	if len(key) < MinAdminKeyLength {
		return "", ErrAdminKeyTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing admin key: %w", err)
	}
	return string(hash), nil
}

// AdminKeyAuth checks bearer keys against one bcrypt hash. Keys that
// matched once are remembered by digest so bcrypt runs once per key.
type AdminKeyAuth struct {
	hash   []byte
	logger *slog.Logger

	mu       sync.RWMutex
	verified map[[sha256.Size]byte]struct{}
}

// NewAdminKeyAuth creates the checker. An empty hash disables the admin
// API: every request is refused.
func NewAdminKeyAuth(hash string, logger *slog.Logger) (*AdminKeyAuth, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid admin key hash: %w", err)
		}
	}
	return &AdminKeyAuth{
		hash:     []byte(hash),
		logger:   logger,
		verified: make(map[[sha256.Size]byte]struct{}),
	}, nil
}

// Enabled reports whether an admin key is configured.
func (a *AdminKeyAuth) Enabled() bool {
	return len(a.hash) > 0
}

// Verify reports whether key matches the configured hash.
func (a *AdminKeyAuth) Verify(key string) bool {
	if !a.Enabled() || key == "" {
		return false
	}

	digest := sha256.Sum256([]byte(key))
	a.mu.RLock()
	_, ok := a.verified[digest]
	a.mu.RUnlock()
	if ok {
		return true
	}

	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(key)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			a.logger.Error("admin key check failed", "category", model.EventCategoryAuth, "error", err)
		}
		return false
	}

	a.mu.Lock()
	a.verified[digest] = struct{}{}
	a.mu.Unlock()
	return true
}

// Middleware returns the middleware guarding admin routes.
func (a *AdminKeyAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			WriteAPIError(w, http.StatusForbidden, "admin_disabled", "Admin API is disabled", nil)
			return
		}

		key, ok := bearerToken(r)
		if !ok {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format. Use: Bearer <api_key>", nil)
			return
		}

		if !a.Verify(key) {
			a.logger.Warn("invalid admin key", "category", model.EventCategoryAuth,
				"ip", clientIP(r), "path", r.URL.Path)
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the key of an "Authorization: Bearer <key>" header.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	key := strings.TrimSpace(parts[1])
	return key, key != ""
}

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	maxSize  int
}

func newLimiterCache[K comparable](rps float64, burst, maxSize int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		maxSize:  maxSize,
	}
}

// get returns the limiter for key, creating one if needed. The map is
// reset when it grows past maxSize.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	if lc.maxSize > 0 && len(lc.limiters) >= lc.maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	cache *limiterCache[string]
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with bursts of up to burst requests.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{cache: newLimiterCache[string](rps, burst, maxTrackedClients)}
}

// Middleware returns the rate limiting middleware.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.cache.get(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr. Proxy headers are
// resolved earlier by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
