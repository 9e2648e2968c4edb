// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/olegiv/studio-go/internal/cache"
	"github.com/olegiv/studio-go/internal/config"
	"github.com/olegiv/studio-go/internal/handler/api"
	"github.com/olegiv/studio-go/internal/logging"
	"github.com/olegiv/studio-go/internal/media"
	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/scheduler"
	"github.com/olegiv/studio-go/internal/seed"
)

// uploadsMaxAge is the browser cache lifetime of uploaded images (1 week).
const uploadsMaxAge = 604800

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	if cfg.OrphanSweepSchedule != "" {
		if err := scheduler.ValidateSchedule(cfg.OrphanSweepSchedule); err != nil {
			return fmt.Errorf("STUDIO_ORPHAN_SWEEP_SCHEDULE: %w", err)
		}
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	// Mirror WARN and ERROR logs into the event log from here on.
	logger := logging.NewLogger(os.Stdout, cfg.LogLevel, db)
	slog.SetDefault(logger)
	slog.Info("database ready", "path", cfg.DBPath)

	if cfg.DoSeed {
		res, err := seed.Run(ctx, db, logger)
		if err != nil {
			slog.Warn("seeding finished with errors", "category", model.EventCategorySeed, "error", err)
		}
		slog.Info("seed completed", "category", model.EventCategorySeed, "inserted", res.Total())
	}

	lists, closeCache := newLists(cfg, logger)
	defer closeCache()

	uploader := media.NewUploader(cfg.UploadsDir, cfg.PublicURL, logger)

	auth, err := middleware.NewAdminKeyAuth(cfg.AdminKeyHash, logger)
	if err != nil {
		return err
	}

	router := newRouter(cfg, db, api.Options{
		Lists:    lists,
		Uploader: uploader,
		Version:  buildInfo(),
		Logger:   logger,
	}, auth)

	if cfg.OrphanSweepSchedule != "" {
		sched := scheduler.New(db, uploader, cfg.OrphanGracePeriod, logger)
		if err := sched.Start(cfg.OrphanSweepSchedule); err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "admin", auth.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-quit:
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newLists creates the public list cache. A zero TTL disables it; an
// unreachable Redis falls back to the memory cache.
func newLists(cfg *config.Config, logger *slog.Logger) (*cache.Lists, func()) {
	if cfg.CacheTTL == 0 {
		logger.Info("list cache disabled", "category", model.EventCategoryCache)
		return nil, func() {}
	}

	cacheCfg := cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
		MaxSize:    cfg.CacheMaxSize,
	}
	c, err := cache.New(cacheCfg)
	if err != nil {
		logger.Warn("redis unavailable, using memory cache", "category", model.EventCategoryCache, "error", err)
		cacheCfg.RedisURL = ""
		c, _ = cache.New(cacheCfg)
	}

	backend := "memory"
	if cfg.UseRedisCache() && err == nil {
		backend = "redis"
	}
	logger.Info("list cache initialized", "category", model.EventCategoryCache, "backend", backend, "ttl", cfg.CacheTTL)

	return cache.NewLists(c, cfg.CacheTTL, logger), func() { _ = c.Close() }
}

// newRouter assembles the HTTP handler of the server.
func newRouter(cfg *config.Config, db *sql.DB, opts api.Options, auth *middleware.AdminKeyAuth) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5, "application/json"))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.CORSOrigins}))
	}

	h := api.NewHandler(db, opts)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Mount("/", h.Routes(auth.Middleware))
	})

	r.Handle(model.UploadsPathPrefix+"*", http.StripPrefix("/uploads", middleware.Uploads(cfg.UploadsDir, uploadsMaxAge)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.WriteNotFound(w, "Not found")
	})

	return r
}
