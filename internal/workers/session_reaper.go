// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/store"
)

// SessionReaper deletes expired sessions.
type SessionReaper struct {
	sessions store.SessionRepository
	logger   *logger.Logger
}

func NewSessionReaper(sessions store.SessionRepository, logger *logger.Logger) *SessionReaper {
	return &SessionReaper{sessions: sessions, logger: logger}
}

func (r *SessionReaper) Name() string {
	return "session_reaper"
}

func (r *SessionReaper) Run(ctx context.Context) {
	deleted, err := r.sessions.DeleteExpired(ctx)
	if err != nil {
		r.logger.Err(err).Msg("expired session cleanup failed")
		return
	}

	if deleted > 0 {
		r.logger.Info().Int("deleted", deleted).Msg("expired sessions removed")
	}
}
