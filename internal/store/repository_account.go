// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository] over the "accounts" table.
type accountRepository struct {
	runner Runner
}

// NewAccountRepository constructs an [AccountRepository] running on runner.
func NewAccountRepository(runner Runner) AccountRepository {
	return &accountRepository{runner: runner}
}

func (r *accountRepository) Within(q Querier) AccountRepository {
	return &accountRepository{runner: Bind(q)}
}

// Create inserts account and returns it with CreatedAt filled in.
//
// Error handling:
//   - unique violation on username → [ErrUsernameTaken].
//   - unique violation on email → [ErrEmailTaken].
//   - no row returned → [ErrAccountNotReturned].
func (r *accountRepository) Create(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	colours, err := json.Marshal(account.BodyColours)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.runner.Query(ctx, createAccount,
		account.ID,
		account.Username,
		account.Email,
		account.HashedPassword,
		account.PermissionLevel,
		account.Admin,
		string(colours),
	)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			switch constraint {
			case constraintAccountsUsername:
				return models.Account{}, ErrUsernameTaken
			case constraintAccountsEmail:
				return models.Account{}, ErrEmailTaken
			}
		}
		log.Err(err).Str("func", "*accountRepository.Create").Msg("error creating account")
		return models.Account{}, err
	}

	rec, ok := res.First()
	if !ok {
		log.Error().Str("func", "*accountRepository.Create").Msg("account insert returned no row")
		return models.Account{}, ErrAccountNotReturned
	}

	if account.ID, err = rec.String("id"); err != nil {
		return models.Account{}, err
	}
	if account.CreatedAt, err = rec.Time("created_at"); err != nil {
		return models.Account{}, err
	}

	return account, nil
}

// FindByUsername returns [ErrAccountNotFound] when no account matches.
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (models.Account, error) {
	return r.findOne(ctx, findAccountByUsername, username)
}

// FindByID returns [ErrAccountNotFound] when no account matches.
func (r *accountRepository) FindByID(ctx context.Context, id string) (models.Account, error) {
	return r.findOne(ctx, findAccountByID, id)
}

func (r *accountRepository) findOne(ctx context.Context, sql string, arg string) (models.Account, error) {
	res, err := r.runner.Query(ctx, sql, arg)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*accountRepository.findOne").Msg("error finding account")
		return models.Account{}, err
	}

	rec, ok := res.First()
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}

	return accountFromRecord(rec)
}

func accountFromRecord(rec Record) (models.Account, error) {
	var (
		account models.Account
		err     error
	)

	if account.ID, err = rec.String("id"); err != nil {
		return models.Account{}, err
	}
	if account.Username, err = rec.String("username"); err != nil {
		return models.Account{}, err
	}
	if account.Email, err = rec.String("email"); err != nil {
		return models.Account{}, err
	}
	if account.HashedPassword, err = rec.String("hashed_password"); err != nil {
		return models.Account{}, err
	}
	level, err := rec.Int64("permission_level")
	if err != nil {
		return models.Account{}, err
	}
	account.PermissionLevel = int(level)
	if account.Admin, err = rec.Bool("admin"); err != nil {
		return models.Account{}, err
	}
	if account.CreatedAt, err = rec.Time("created_at"); err != nil {
		return models.Account{}, err
	}

	colours, err := rec.String("body_colours")
	if err != nil {
		return models.Account{}, err
	}
	if colours != "" {
		if err := json.Unmarshal([]byte(colours), &account.BodyColours); err != nil {
			return models.Account{}, fmt.Errorf("%w: body_colours: %w", ErrFieldType, err)
		}
	}

	return account, nil
}
