// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Redbattlebot/Astrev2/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testColoursJSON = `{"Head":24,"LeftArm":24,"LeftLeg":119,"RightArm":24,"RightLeg":119,"Torso":23}`

func testAccount() models.Account {
	return models.Account{
		ID:              "0190f3c2-7d4e-7b8a-9c1d-2e3f4a5b6c7d",
		Username:        "alice",
		Email:           "alice@example.com",
		HashedPassword:  "$argon2id$v=19$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		PermissionLevel: models.PermissionLevelUser,
		BodyColours:     models.DefaultBodyColours(),
	}
}

func accountColumns() []string {
	return []string{"id", "username", "email", "hashed_password", "permission_level", "admin", "body_colours", "created_at"}
}

func anyCreateArgs() []any {
	args := make([]any, 7)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestAccountRepository_Create(t *testing.T) {
	account := testAccount()
	created := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	pool := newMockPool(t)
	pool.ExpectQuery(regexp.QuoteMeta(createAccount)).
		WithArgs(account.ID, account.Username, account.Email, account.HashedPassword,
			account.PermissionLevel, account.Admin, testColoursJSON).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(account.ID, created))

	got, err := NewAccountRepository(Bind(pool)).Create(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, account.Username, got.Username)
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestAccountRepository_CreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "username taken",
			dbErr:   pgError(pgerrcode.UniqueViolation, constraintAccountsUsername),
			wantErr: ErrUsernameTaken,
		},
		{
			name:    "email taken",
			dbErr:   pgError(pgerrcode.UniqueViolation, constraintAccountsEmail),
			wantErr: ErrEmailTaken,
		},
		{
			name:    "other unique violation",
			dbErr:   pgError(pgerrcode.UniqueViolation, "accounts_pkey"),
			wantErr: ErrExecutingQuery,
		},
		{
			name:    "unexpected error",
			dbErr:   errors.New("db network error"),
			wantErr: ErrExecutingQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			pool.ExpectQuery(regexp.QuoteMeta(createAccount)).WithArgs(anyCreateArgs()...).
				WillReturnError(tt.dbErr)

			_, err := NewAccountRepository(Bind(pool)).Create(context.Background(), testAccount())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountRepository_CreateNoRowReturned(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(regexp.QuoteMeta(createAccount)).WithArgs(anyCreateArgs()...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}))

	_, err := NewAccountRepository(Bind(pool)).Create(context.Background(), testAccount())
	assert.ErrorIs(t, err, ErrAccountNotReturned)
}

func TestAccountRepository_FindByUsername(t *testing.T) {
	account := testAccount()
	created := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	pool := newMockPool(t)
	pool.ExpectQuery(regexp.QuoteMeta(findAccountByUsername)).WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(accountColumns()).AddRow(
			account.ID, account.Username, account.Email, account.HashedPassword,
			int32(account.PermissionLevel), false, testColoursJSON, created,
		))

	got, err := NewAccountRepository(Bind(pool)).FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	account.CreatedAt = created
	assert.Equal(t, account, got)
}

func TestAccountRepository_FindByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(regexp.QuoteMeta(findAccountByID)).WithArgs("acc-404").
		WillReturnRows(pgxmock.NewRows(accountColumns()))

	_, err := NewAccountRepository(Bind(pool)).FindByID(context.Background(), "acc-404")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_FindWithoutEmailOrColours(t *testing.T) {
	created := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	pool := newMockPool(t)
	pool.ExpectQuery(regexp.QuoteMeta(findAccountByID)).WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows(accountColumns()).AddRow(
			"acc-1", "owner", "", "hash", int32(models.PermissionLevelOwner), true, "", created,
		))

	got, err := NewAccountRepository(Bind(pool)).FindByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Empty(t, got.Email)
	assert.True(t, got.Admin)
	assert.Equal(t, models.PermissionLevelOwner, got.PermissionLevel)
	assert.Equal(t, models.BodyColours{}, got.BodyColours)
}

func TestAccountRepository_FindDecodeErrors(t *testing.T) {
	created := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		row     []any
		wantErr error
	}{
		{
			name:    "bad colours json",
			row:     []any{"acc-1", "alice", "", "hash", int32(1), false, "{", created},
			wantErr: ErrFieldType,
		},
		{
			name:    "wrong admin type",
			row:     []any{"acc-1", "alice", "", "hash", int32(1), "no", testColoursJSON, created},
			wantErr: ErrFieldType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			pool.ExpectQuery(regexp.QuoteMeta(findAccountByID)).WithArgs("acc-1").
				WillReturnRows(pgxmock.NewRows(accountColumns()).AddRow(tt.row...))

			_, err := NewAccountRepository(Bind(pool)).FindByID(context.Background(), "acc-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountRepository_Within(t *testing.T) {
	outer := newMockPool(t)
	tx := newMockPool(t)
	tx.ExpectQuery(regexp.QuoteMeta(createAccount)).WithArgs(anyCreateArgs()...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("acc-1", time.Now()))

	_, err := NewAccountRepository(Bind(outer)).Within(tx).Create(context.Background(), testAccount())
	require.NoError(t, err)
	require.NoError(t, tx.ExpectationsWereMet())
}
