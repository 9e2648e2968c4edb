// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/olegiv/studio-go/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill empty collections of the local database with sample data",
		Long: `Seed inserts the sample portfolio items, testimonials and services into
every collection that is still empty. Collections that already hold rows
are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			res, err := seed.Run(cmd.Context(), db, a.logger)
			printSeedResults(cmd.OutOrStdout(), res)
			return err
		},
	}
}

func printSeedResults(w io.Writer, res seed.Results) {
	groups := []struct {
		name string
		r    seed.GroupResult
	}{
		{"portfolio", res.Portfolio},
		{"testimonials", res.Testimonials},
		{"services", res.Services},
	}
	for _, g := range groups {
		switch {
		case g.r.Error != "":
			_, _ = fmt.Fprintf(w, "%-13s failed: %s\n", g.name, g.r.Error)
		case g.r.Skipped > 0:
			_, _ = fmt.Fprintf(w, "%-13s skipped (%d existing)\n", g.name, g.r.Skipped)
		default:
			_, _ = fmt.Fprintf(w, "%-13s inserted %d\n", g.name, g.r.Inserted)
		}
	}
}
