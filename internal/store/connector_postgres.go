// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dialTimeout     = 5 * time.Second
	maxConnLifetime = time.Hour
)

// pgConnector opens pgx pools against a PostgreSQL endpoint.
type pgConnector struct {
	endpoint  string
	database  string
	namespace string
	maxConns  int32
	dialer    *net.Dialer
}

// NewPostgresConnector returns a [Connector] for the configured endpoint.
// The endpoint URL must not carry credentials; they come from the scheme.
func NewPostgresConnector(cfg config.DB) Connector {
	return &pgConnector{
		endpoint:  cfg.Endpoint,
		database:  cfg.Database,
		namespace: cfg.Namespace,
		maxConns:  cfg.MaxConns,
		dialer:    &net.Dialer{Timeout: dialTimeout},
	}
}

// Dial opens and closes a TCP connection to the endpoint host.
func (c *pgConnector) Dial(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(c.endpoint)
	if err != nil {
		return fmt.Errorf("invalid database endpoint: %w", err)
	}

	address := net.JoinHostPort(cfg.ConnConfig.Host, strconv.Itoa(int(cfg.ConnConfig.Port)))
	conn, err := c.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}

	return conn.Close()
}

// Authenticate builds a pool for scheme and pings it, so credential
// problems surface here rather than on the first query.
func (c *pgConnector) Authenticate(ctx context.Context, scheme AuthScheme) (Conn, error) {
	if scheme.Username == "" || scheme.Password == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentialField, scheme.Name)
	}

	cfg, err := pgxpool.ParseConfig(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid database endpoint: %w", err)
	}

	cfg.ConnConfig.User = scheme.Username
	cfg.ConnConfig.Password = scheme.Password
	if c.database != "" {
		cfg.ConnConfig.Database = c.database
	}
	if c.namespace != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = pgx.Identifier{c.namespace}.Sanitize()
	}
	if c.maxConns > 0 {
		cfg.MaxConns = c.maxConns
	}
	cfg.MaxConnLifetime = maxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
