// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/store"
)

// sweepTimeout bounds one orphan sweep.
const sweepTimeout = 10 * time.Minute

// Sweeper removes uploads that none of the referenced URLs point to.
type Sweeper interface {
	Sweep(ctx context.Context, referenced []string, grace time.Duration) (int, error)
}

// Scheduler runs the orphaned-upload sweep on a cron schedule.
type Scheduler struct {
	db      *sql.DB
	cron    *cron.Cron
	sweeper Sweeper
	grace   time.Duration
	logger  *slog.Logger
}

// New creates a new scheduler instance. Uploads younger than grace are
// never swept.
func New(db *sql.DB, sweeper Sweeper, grace time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		db:      db,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		grace:   grace,
		logger:  logger,
	}
}

// ValidateSchedule checks a cron spec such as "0 3 * * *" or "@daily".
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Start schedules the orphan sweep and starts the cron runner.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := s.SweepOrphans(ctx); err != nil {
			s.logger.Error("failed to sweep orphaned uploads", "category", model.EventCategoryMedia, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling orphan sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "schedule", schedule)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// SweepOrphans removes uploads that no portfolio item references and
// records the outcome in the event log when anything was removed.
func (s *Scheduler) SweepOrphans(ctx context.Context) (int, error) {
	queries := store.New(s.db)

	urls, err := queries.Portfolio().ImageURLs(ctx)
	if err != nil {
		return 0, err
	}

	removed, err := s.sweeper.Sweep(ctx, urls, s.grace)
	if err != nil {
		return removed, fmt.Errorf("sweeping uploads: %w", err)
	}
	if removed == 0 {
		return 0, nil
	}

	s.logger.Info("orphaned uploads removed", "count", removed)

	metadata, _ := json.Marshal(map[string]any{
		"removed":    removed,
		"referenced": len(urls),
		"grace":      s.grace.String(),
	})
	_, err = queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryMedia,
		Message:   fmt.Sprintf("Removed %d orphaned upload(s)", removed),
		Metadata:  string(metadata),
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to log orphan sweep event", "error", err)
	}

	return removed, nil
}
