// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import (
	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/handler/grpc"
	"github.com/Redbattlebot/Astrev2/internal/handler/http"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/Redbattlebot/Astrev2/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates a transport handler for every configured address.
// The gRPC handler reports health from source.
func NewHandlers(
	services *service.Services,
	source grpc.StateSource,
	cfg config.StructuredConfig,
	collector *metrics.Collector,
	logger *logger.Logger,
) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg, collector, logger.Component("http"))
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(source, logger.Component("grpc"))
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
