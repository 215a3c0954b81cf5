// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/Redbattlebot/Astrev2/internal/service"
)

type Handler struct {
	services *service.Services

	cookie    cookieSettings
	limiter   *RateLimiter
	collector *metrics.Collector

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, collector *metrics.Collector, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		cookie: cookieSettings{
			name:   cfg.Session.CookieName,
			secure: cfg.Session.CookieSecure,
		},
		limiter:   NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, logger),
		collector: collector,
		logger:    logger,
	}
}
