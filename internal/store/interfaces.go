// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/Redbattlebot/Astrev2/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Querier is the statement surface shared by a session pool and an open
// transaction. Stores bind to one through Within.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Conn is a live, authenticated session with the namespace selected.
// *pgxpool.Pool satisfies it.
type Conn interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Connector performs the transport-level steps of a connection attempt.
type Connector interface {
	// Dial checks that the endpoint accepts connections.
	Dial(ctx context.Context) error
	// Authenticate opens a session using scheme. Scheme-specific refusals
	// are reported with errors for which [IsAuthRejection] is true.
	Authenticate(ctx context.Context, scheme AuthScheme) (Conn, error)
}

// SessionProvider hands out the ready session and takes back broken ones.
// [Manager] implements it.
type SessionProvider interface {
	EnsureConnected(ctx context.Context) (Conn, error)
	Invalidate(conn Conn)
}

// Runner submits one statement and returns its flat result.
// [Executor] implements it with retries; [Bind] wraps a transaction.
type Runner interface {
	Query(ctx context.Context, sql string, args ...any) (Result, error)
}

// TxRunner runs fn inside one transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error
}

// IdentityStore answers existence questions about stored records.
type IdentityStore interface {
	// Exists reports whether table has a row with the given id.
	Exists(ctx context.Context, table, id string) (bool, error)
	// ExistsWhere reports whether table has a row matching predicate.
	// A nil predicate asks whether the table has any row at all.
	ExistsWhere(ctx context.Context, table string, predicate squirrel.Sqlizer) (bool, error)
	// Within returns a store that runs on q.
	Within(q Querier) IdentityStore
}

// KeyLedger tracks limited-use registration keys.
type KeyLedger interface {
	Redeem(ctx context.Context, keyID string) (RedemptionResult, error)
	Provision(ctx context.Context, keyID string, uses int) (models.RegistrationKey, error)
	Within(q Querier) KeyLedger
}

// AccountRepository persists accounts. Accounts are never updated or deleted.
type AccountRepository interface {
	Create(ctx context.Context, account models.Account) (models.Account, error)
	FindByUsername(ctx context.Context, username string) (models.Account, error)
	FindByID(ctx context.Context, id string) (models.Account, error)
	Within(q Querier) AccountRepository
}

// SessionRepository persists issued sessions by token digest.
type SessionRepository interface {
	Create(ctx context.Context, digest string, session models.Session) error
	FindActive(ctx context.Context, digest string) (models.Session, error)
	Delete(ctx context.Context, digest string) error
	DeleteExpired(ctx context.Context) (int, error)
}
