// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Redbattlebot/Astrev2/internal/adapter"
	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/handler"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/Redbattlebot/Astrev2/internal/server"
	"github.com/Redbattlebot/Astrev2/internal/service"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/Redbattlebot/Astrev2/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("mercury-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	logger.SetLevel(cfg.App.LogLevel)
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("mercury")

	storages := store.NewStorages(cfg.Storage.DB, collector, log.Component("store"))
	defer storages.Close()

	if _, err := storages.Manager.EnsureConnected(ctx); err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	renderer, err := adapter.NewAvatarRenderer(cfg.Adapter.Renderer, log.Component("renderer"))
	if err != nil {
		log.Fatal().Err(err).Msg("error creating avatar renderer")
	}

	services, err := service.NewServices(storages, renderer, *cfg, collector, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, storages.Manager, *cfg, collector, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background, err := workers.NewWorkers(storages, cfg.Workers, log.Component("workers"))
	if err != nil {
		log.Fatal().Err(err).Msg("error creating workers")
	}
	workersDone := background.Start(ctx)

	if err := srv.Run(ctx); err != nil {
		log.Err(err).Msg("server stopped with error")
	}

	stop()
	<-workersDone
	log.Info().Msg("server exited")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
