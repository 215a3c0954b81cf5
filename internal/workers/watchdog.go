// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/store"
)

const pingTimeout = 5 * time.Second

// Watchdog pings the database session. A failed ping invalidates the
// session and reconnects right away instead of on the next query.
type Watchdog struct {
	sessions store.SessionProvider
	logger   *logger.Logger
}

func NewWatchdog(sessions store.SessionProvider, logger *logger.Logger) *Watchdog {
	return &Watchdog{sessions: sessions, logger: logger}
}

func (w *Watchdog) Name() string {
	return "watchdog"
}

func (w *Watchdog) Run(ctx context.Context) {
	conn, err := w.sessions.EnsureConnected(ctx)
	if err != nil {
		w.logger.Err(err).Msg("database session unavailable")
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err = conn.Ping(pingCtx)
	cancel()
	if err == nil {
		return
	}

	w.logger.Warn().Err(err).Msg("database ping failed, reconnecting")
	w.sessions.Invalidate(conn)

	if _, err := w.sessions.EnsureConnected(ctx); err != nil {
		w.logger.Err(err).Msg("database reconnect failed")
		return
	}
	w.logger.Info().Msg("database session restored")
}
