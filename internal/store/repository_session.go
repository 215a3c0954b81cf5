// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/models"
)

// sessionRepository stores issued sessions keyed by the token digest.
// Raw tokens never reach the database.
type sessionRepository struct {
	runner Runner
}

// NewSessionRepository constructs a [SessionRepository] running on runner.
func NewSessionRepository(runner Runner) SessionRepository {
	return &sessionRepository{runner: runner}
}

func (r *sessionRepository) Create(ctx context.Context, digest string, session models.Session) error {
	_, err := r.runner.Query(ctx, createSession, digest, session.AccountID, session.IssuedAt, session.ExpiresAt)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sessionRepository.Create").Msg("error storing session")
		return err
	}
	return nil
}

// FindActive returns [ErrSessionNotFound] for unknown and expired digests.
func (r *sessionRepository) FindActive(ctx context.Context, digest string) (models.Session, error) {
	res, err := r.runner.Query(ctx, findActiveSession, digest)
	if err != nil {
		return models.Session{}, err
	}

	rec, ok := res.First()
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}

	var session models.Session
	if session.AccountID, err = rec.String("account_id"); err != nil {
		return models.Session{}, err
	}
	if session.IssuedAt, err = rec.Time("created_at"); err != nil {
		return models.Session{}, err
	}
	if session.ExpiresAt, err = rec.Time("expires_at"); err != nil {
		return models.Session{}, err
	}

	return session, nil
}

// Delete removes one session. Deleting an unknown digest is not an error.
func (r *sessionRepository) Delete(ctx context.Context, digest string) error {
	_, err := r.runner.Query(ctx, deleteSession, digest)
	return err
}

// DeleteExpired removes every expired session and returns how many.
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	res, err := r.runner.Query(ctx, deleteExpiredSession)
	if err != nil {
		return 0, err
	}
	return len(res), nil
}
