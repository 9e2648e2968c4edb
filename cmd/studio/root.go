// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/olegiv/studio-go/internal/config"
	"github.com/olegiv/studio-go/internal/logging"
	"github.com/olegiv/studio-go/internal/store"
)

// app carries state shared by subcommands. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	envFiles []string
	cfg      *config.Config
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "studio",
		Short:         "Studio serves the portfolio, services and testimonials of a design studio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(a.envFiles...); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			a.logger = logging.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, nil)
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "dotenv file(s) to load (default: .env)")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newHashKeyCmd(),
		newVersionCmd(),
		newAdminCmd(a),
	)
	return root
}

// openDB opens and migrates the configured database.
func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	a.logger.Debug("opening database", "path", a.cfg.DBPath)
	db, err := store.NewDB(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	n, err := store.Migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if n > 0 {
		a.logger.Info("migrations applied", "count", n)
	}
	return db, nil
}
