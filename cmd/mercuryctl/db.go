// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the database schema and migrations.`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

Connects with the configured credential schemes, binds the configured
namespace and applies every pending migration. Running it against an up to
date schema is a no-op.

Example:
  mercuryctl db migrate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		storages, _, err := openStorages(cmd.Context())
		if err != nil {
			return err
		}
		defer storages.Close()

		return migrate(cmd.Context(), storages.Manager, store.MigrateSchema, cmd.OutOrStdout())
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts of the site database",
	Long: `Show how many accounts, usable registration keys and active sessions
the site database holds.

Example:
  mercuryctl db status`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		storages, _, err := openStorages(cmd.Context())
		if err != nil {
			return err
		}
		defer storages.Close()

		return status(cmd.Context(), storages.Executor, cmd.OutOrStdout())
	},
}

func init() {
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	rootCmd.AddCommand(dbCmd)
}

func migrate(ctx context.Context, sessions store.SessionProvider, apply store.BootstrapFunc, out io.Writer) error {
	conn, err := sessions.EnsureConnected(ctx)
	if err != nil {
		return err
	}

	if err := apply(ctx, conn); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, "Migrations complete")
	return nil
}

func status(ctx context.Context, b store.Batcher, out io.Writer) error {
	stats, err := store.CollectStats(ctx, b)
	if err != nil {
		return fmt.Errorf("collecting stats: %w", err)
	}

	fmt.Fprintf(out, "Accounts:        %d\n", stats.Accounts)
	fmt.Fprintf(out, "Usable keys:     %d\n", stats.UsableKeys)
	fmt.Fprintf(out, "Active sessions: %d\n", stats.ActiveSessions)
	return nil
}
