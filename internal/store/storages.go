// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/Redbattlebot/Astrev2/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Storages groups the session layer and every store built on it.
type Storages struct {
	Manager  *Manager
	Executor *Executor
	Identity IdentityStore
	Keys     KeyLedger
	Accounts AccountRepository
	Sessions SessionRepository
}

// NewStorages wires the connection manager, the executor, and the stores
// for cfg. No connection is opened until the manager is first used.
func NewStorages(cfg config.DB, collector *metrics.Collector, log *logger.Logger) *Storages {
	return NewStoragesWithConnector(NewPostgresConnector(cfg), cfg, collector, log)
}

// NewStoragesWithConnector is [NewStorages] with a custom [Connector].
func NewStoragesWithConnector(connector Connector, cfg config.DB, collector *metrics.Collector, log *logger.Logger) *Storages {
	manager := NewManager(connector, SchemesFromConfig(cfg), ManagerOptions{
		Namespace:   cfg.Namespace,
		MaxAttempts: cfg.MaxConnectAttempts,
		Backoff:     cfg.ConnectBackoff,
		Bootstrap:   MigrateSchema,
		Metrics:     collector,
	}, log)

	executor := NewExecutor(manager, ExecutorOptions{
		MaxRetries: cfg.MaxQueryRetries,
		Backoff:    cfg.QueryRetryBackoff,
		Metrics:    collector,
	})

	return &Storages{
		Manager:  manager,
		Executor: executor,
		Identity: NewIdentityStore(executor),
		Keys:     NewKeyLedger(executor, collector),
		Accounts: NewAccountRepository(executor),
		Sessions: NewSessionRepository(executor),
	}
}

// Close releases the database session.
func (s *Storages) Close() {
	s.Manager.Close()
}

// SchemesFromConfig returns the credential schemes in the order they are
// tried: root first, then namespace. Schemes with no username are skipped.
func SchemesFromConfig(cfg config.DB) []AuthScheme {
	schemes := make([]AuthScheme, 0, 2)
	if cfg.RootUser != "" {
		schemes = append(schemes, AuthScheme{Name: "root", Username: cfg.RootUser, Password: cfg.RootPassword})
	}
	if cfg.NamespaceUser != "" {
		schemes = append(schemes, AuthScheme{Name: "namespace", Username: cfg.NamespaceUser, Password: cfg.NamespacePassword})
	}
	return schemes
}

// MigrateSchema is the [BootstrapFunc] applying the embedded goose
// migrations through a database/sql handle over the session pool.
func MigrateSchema(ctx context.Context, conn Conn) error {
	pool, ok := conn.(*pgxpool.Pool)
	if !ok {
		return ErrUnsupportedConn
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return migrations.Migrate(ctx, db)
}

// LockInitialAccount takes the transaction-scoped advisory lock that
// serializes creation of the first account. q must be a transaction.
func LockInitialAccount(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, lockInitialAccount); err != nil {
		return newQueryError(lockInitialAccount, fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	return nil
}
