// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/studio-go/internal/middleware"
)

func newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hashkey [key]",
		Short: "Print the bcrypt hash of an admin API key",
		Long: `Hashkey prints the value to put in STUDIO_ADMIN_KEY_HASH. The key is
read from the first argument or, when absent, from the first line of
standard input.

Example:
  openssl rand -base64 32 | tee admin.key | studio hashkey`,
		Args: cobra.MaximumNArgs(1),
		// Needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading key: %w", err)
				}
				key = line
			}

			hash, err := middleware.HashAdminKey(strings.TrimSpace(key))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
