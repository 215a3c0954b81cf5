// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/Redbattlebot/Astrev2/internal/adapter"
	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/Redbattlebot/Astrev2/internal/store"
)

type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, renderer adapter.AvatarRenderer, cfg config.StructuredConfig, collector *metrics.Collector, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	stores := AuthStores{
		Tx:       storages.Executor,
		Identity: storages.Identity,
		Keys:     storages.Keys,
		Accounts: storages.Accounts,
		Sessions: storages.Sessions,
	}

	return &Services{
		AuthService:    NewAuthService(stores, renderer, NewPasswordHasher(DefaultArgonParams), cfg, collector, logger),
		AppInfoService: appInfo,
	}, nil
}
