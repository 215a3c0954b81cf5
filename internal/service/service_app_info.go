// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/models"
)

// appInfoService reports site information fixed at startup.
type appInfoService struct {
	info models.AppInfo

	logger *logger.Logger
}

func NewAppInfoService(cfg config.StructuredConfig, logger *logger.Logger) (AppInfoService, error) {
	if cfg.App.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		info: models.AppInfo{
			Name:    cfg.App.Name,
			Version: cfg.App.Version,
			Registration: models.RegistrationSettings{
				EmailRequired: cfg.Registration.Emails,
				KeyRequired:   cfg.Registration.Keys.Enabled,
			},
		},
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.info.Version
}

func (s *appInfoService) GetAppInfo(ctx context.Context) models.AppInfo {
	return s.info
}
