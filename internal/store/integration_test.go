// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

//go:build integration

package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/Redbattlebot/Astrev2/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway PostgreSQL container and returns a DB
// config pointing at it with the root scheme filled in.
func startPostgres(t *testing.T) config.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("mercury_test"),
		tcpostgres.WithUsername("mercury"),
		tcpostgres.WithPassword("mercury"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return config.DB{
		Endpoint:           fmt.Sprintf("postgres://%s:%s/?sslmode=disable", host, port.Port()),
		Namespace:          "mercury",
		Database:           "mercury_test",
		RootUser:           "mercury",
		RootPassword:       "mercury",
		MaxConnectAttempts: 3,
		ConnectBackoff:     200 * time.Millisecond,
		MaxQueryRetries:    16,
		QueryRetryBackoff:  10 * time.Millisecond,
		MaxConns:           20,
	}
}

func newIntegrationStorages(t *testing.T) *Storages {
	t.Helper()

	storages := NewStorages(startPostgres(t), metrics.NewCollector("integration"), logger.Nop())
	t.Cleanup(storages.Close)

	_, err := storages.Manager.EnsureConnected(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateReady, storages.Manager.State())

	return storages
}

func TestIntegration_ConcurrentRedemptionsNeverOverspend(t *testing.T) {
	storages := newIntegrationStorages(t)
	ctx := context.Background()

	const uses, callers = 5, 40
	_, err := storages.Keys.Provision(ctx, "invite", uses)
	require.NoError(t, err)

	var redeemed, exhausted atomic.Int32
	var wg sync.WaitGroup
	for n := 0; n < callers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := storages.Keys.Redeem(ctx, "invite")
			if !assert.NoError(t, err) {
				return
			}
			switch result {
			case Redeemed:
				redeemed.Add(1)
			case RedemptionExhausted:
				exhausted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, uses, redeemed.Load())
	assert.EqualValues(t, callers-uses, exhausted.Load())

	result, err := storages.Keys.Redeem(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, RedemptionNotFound, result)
}

func TestIntegration_RedemptionRolledBackWithAccount(t *testing.T) {
	storages := newIntegrationStorages(t)
	ctx := context.Background()

	_, err := storages.Keys.Provision(ctx, "single", 1)
	require.NoError(t, err)

	first := integrationAccount("alice")
	_, err = storages.Accounts.Create(ctx, first)
	require.NoError(t, err)

	err = storages.Executor.InTx(ctx, func(ctx context.Context, q Querier) error {
		if _, err := storages.Keys.Within(q).Redeem(ctx, "single"); err != nil {
			return err
		}
		_, err := storages.Accounts.Within(q).Create(ctx, integrationAccount("alice"))
		return err
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	result, err := storages.Keys.Redeem(ctx, "single")
	require.NoError(t, err)
	assert.Equal(t, Redeemed, result)
}

func TestIntegration_IdentityAndSessions(t *testing.T) {
	storages := newIntegrationStorages(t)
	ctx := context.Background()

	exists, err := storages.Identity.ExistsWhere(ctx, "accounts", nil)
	require.NoError(t, err)
	assert.False(t, exists)

	account, err := storages.Accounts.Create(ctx, integrationAccount("bob"))
	require.NoError(t, err)

	exists, err = storages.Identity.Exists(ctx, "accounts", account.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	now := time.Now().UTC()
	require.NoError(t, storages.Sessions.Create(ctx, "live", models.Session{AccountID: account.ID, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, storages.Sessions.Create(ctx, "stale", models.Session{AccountID: account.ID, IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}))

	_, err = storages.Sessions.FindActive(ctx, "stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	deleted, err := storages.Sessions.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	session, err := storages.Sessions.FindActive(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, account.ID, session.AccountID)
}

func TestIntegration_ReconnectAfterInvalidate(t *testing.T) {
	storages := newIntegrationStorages(t)
	ctx := context.Background()

	conn, err := storages.Manager.EnsureConnected(ctx)
	require.NoError(t, err)

	storages.Manager.Invalidate(conn)
	assert.Equal(t, StateDisconnected, storages.Manager.State())

	exists, err := storages.Identity.ExistsWhere(ctx, "accounts", nil)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, StateReady, storages.Manager.State())
}

func integrationAccount(username string) models.Account {
	id, _ := uuid.NewV7()
	return models.Account{
		ID:              id.String(),
		Username:        username,
		HashedPassword:  "$argon2id$v=19$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		PermissionLevel: models.PermissionLevelUser,
		BodyColours:     models.DefaultBodyColours(),
	}
}
