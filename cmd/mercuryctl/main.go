// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command mercuryctl administers the Mercury site database: it provisions
// registration keys and applies schema migrations.
//
//	mercuryctl db migrate
//	mercuryctl keys create --id invite-42 --uses 5 --copy
//
// The database is configured the same way as the server: STORAGE_DB_*
// environment variables or a JSON file passed with --config.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "mercuryctl",
	Short:         "Administer the Mercury site database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "JSON config file path")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// openStorages loads the storage configuration and connects to the
// database. Only warnings and errors are logged so command output stays
// readable.
func openStorages(ctx context.Context) (*store.Storages, *config.StructuredConfig, error) {
	var args []string
	if configPath != "" {
		args = []string{"-c", configPath}
	}

	cfg, err := config.GetStorageConfig(args)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.NewLogger("mercuryctl")
	if !logger.SetLevel(cfg.App.LogLevel) {
		logger.SetLevel("warn")
	}

	storages := store.NewStorages(cfg.Storage.DB, nil, log)
	if _, err := storages.Manager.EnsureConnected(ctx); err != nil {
		storages.Close()
		return nil, nil, err
	}

	return storages, cfg, nil
}
