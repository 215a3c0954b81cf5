// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of the database session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateReady
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	default:
		return "disconnected"
	}
}

// AuthScheme is one way of authenticating to the database service.
// Schemes are tried in order within every connection attempt.
type AuthScheme struct {
	// Name labels the scheme in logs and metrics ("root", "namespace").
	Name     string
	Username string
	Password string
}

// BootstrapFunc initializes the schema on a ready session. It must be
// idempotent.
type BootstrapFunc func(ctx context.Context, conn Conn) error

const (
	defaultMaxConnectAttempts = 3
	defaultConnectBackoff     = 2 * time.Second

	reconnectKey = "reconnect"
)

// ManagerOptions tunes a [Manager]. Zero values fall back to defaults.
type ManagerOptions struct {
	// Namespace must be the schema every session runs in.
	Namespace string
	// MaxAttempts bounds the connection attempts of one reconnect.
	MaxAttempts int
	// Backoff is the fixed delay between attempts.
	Backoff time.Duration
	// Bootstrap runs once per process after the first ready session.
	Bootstrap BootstrapFunc
	Metrics   *metrics.Collector
}

// Manager owns the single database session of the process.
//
// EnsureConnected is safe for concurrent use. At most one reconnect runs at
// a time; concurrent callers share its outcome. A new session fully
// replaces the prior one, which is closed before the new one is dialed.
type Manager struct {
	connector Connector
	schemes   []AuthScheme
	opts      ManagerOptions
	logger    *logger.Logger

	group singleflight.Group

	mu           sync.RWMutex
	conn         Conn
	state        State
	bootstrapped bool
	closed       bool
	observers    []func(State)
}

// NewManager constructs a disconnected [Manager]. No I/O happens until
// the first EnsureConnected.
func NewManager(connector Connector, schemes []AuthScheme, opts ManagerOptions, log *logger.Logger) *Manager {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = defaultMaxConnectAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultConnectBackoff
	}

	return &Manager{
		connector: connector,
		schemes:   schemes,
		opts:      opts,
		logger:    log.Component("db-session"),
		state:     StateDisconnected,
	}
}

// EnsureConnected returns the ready session, reconnecting if needed.
//
// The reconnect is detached from ctx: a caller whose ctx ends stops
// waiting and gets ctx.Err(), while the reconnect continues for the other
// waiters. After MaxAttempts failed attempts a *ConnectionError is returned.
func (m *Manager) EnsureConnected(ctx context.Context) (Conn, error) {
	if conn, ok := m.ready(); ok {
		return conn, nil
	}

	ch := m.group.DoChan(reconnectKey, func() (any, error) {
		return m.reconnect(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Conn), nil
	}
}

// Invalidate drops conn if it is still the current session, so the next
// EnsureConnected reconnects. Stale handles are ignored.
func (m *Manager) Invalidate(conn Conn) {
	if conn == nil {
		return
	}

	m.mu.Lock()
	if m.conn != conn {
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.mu.Unlock()

	m.logger.Warn().Msg("database session invalidated")
	conn.Close()
	m.setState(StateDisconnected)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// OnStateChange registers fn to be called after every state transition.
// fn must not block.
func (m *Manager) OnStateChange(fn func(State)) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	state := m.state
	m.mu.Unlock()

	fn(state)
}

// Close closes the current session. EnsureConnected fails afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.closed = true
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	m.setState(StateDisconnected)
}

func (m *Manager) ready() (Conn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == StateReady && m.conn != nil && m.bootstrapped {
		return m.conn, true
	}
	return nil, false
}

func (m *Manager) reconnect(ctx context.Context) (Conn, error) {
	m.mu.RLock()
	closed := m.closed
	conn := m.conn
	ready := m.state == StateReady && conn != nil
	m.mu.RUnlock()

	if closed {
		return nil, ErrManagerClosed
	}

	// a previous bootstrap failed on an otherwise healthy session
	if ready {
		if err := m.bootstrap(ctx, conn); err != nil {
			return nil, &ConnectionError{Attempts: 0, Err: err}
		}
		return conn, nil
	}

	m.closeStale()

	attempts := 0
	backoff := retry.WithMaxRetries(uint64(m.opts.MaxAttempts-1), retry.NewConstant(m.opts.Backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		next, err := m.attempt(ctx)
		m.opts.Metrics.RecordConnectAttempt(err)
		if err != nil {
			m.logger.Warn().Err(err).
				Int("attempt", attempts).
				Int("max_attempts", m.opts.MaxAttempts).
				Msg("database connection attempt failed")
			m.setState(StateDisconnected)
			return retry.RetryableError(err)
		}

		conn = next
		return nil
	})
	if err != nil {
		m.logger.Error().Err(err).Int("attempts", attempts).Msg("database unavailable")
		return nil, &ConnectionError{Attempts: attempts, Err: err}
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	m.setState(StateReady)
	m.logger.Info().Int("attempts", attempts).Msg("database session ready")

	if err := m.bootstrap(ctx, conn); err != nil {
		return nil, &ConnectionError{Attempts: attempts, Err: err}
	}

	return conn, nil
}

// attempt runs one dial, authenticate and namespace-select sequence.
func (m *Manager) attempt(ctx context.Context) (Conn, error) {
	m.setState(StateConnecting)
	if err := m.connector.Dial(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEndpointUnreachable, err)
	}

	m.setState(StateAuthenticating)
	conn, err := m.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	if err := m.selectNamespace(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// authenticate walks the schemes in order. A rejected scheme moves on to
// the next one; any other failure ends the attempt.
func (m *Manager) authenticate(ctx context.Context) (Conn, error) {
	rejections := make([]error, 0, len(m.schemes))

	for _, scheme := range m.schemes {
		conn, err := m.connector.Authenticate(ctx, scheme)
		m.opts.Metrics.RecordAuthScheme(scheme.Name, err)
		if err == nil {
			m.logger.Debug().Str("scheme", scheme.Name).Msg("authenticated")
			return conn, nil
		}

		if !IsAuthRejection(err) {
			return nil, fmt.Errorf("authenticating with %s scheme: %w", scheme.Name, err)
		}

		m.logger.Warn().Err(err).Str("scheme", scheme.Name).Msg("credential scheme rejected")
		rejections = append(rejections, fmt.Errorf("%s: %w", scheme.Name, err))
	}

	return nil, fmt.Errorf("%w: %w", ErrAllSchemesRejected, errors.Join(rejections...))
}

// selectNamespace confirms the session runs in the configured schema,
// creating the schema when it does not exist yet.
func (m *Manager) selectNamespace(ctx context.Context, conn Conn) error {
	if m.opts.Namespace == "" {
		return nil
	}

	current, err := currentSchema(ctx, conn)
	if err != nil {
		return err
	}
	if current == m.opts.Namespace {
		return nil
	}

	create := fmt.Sprintf(createSchema, pgx.Identifier{m.opts.Namespace}.Sanitize())
	if _, err := conn.Exec(ctx, create); err != nil {
		return fmt.Errorf("%w: %w", ErrNamespaceNotSelected, err)
	}
	m.logger.Info().Str("namespace", m.opts.Namespace).Msg("namespace created")

	current, err = currentSchema(ctx, conn)
	if err != nil {
		return err
	}
	if current != m.opts.Namespace {
		return fmt.Errorf("%w: session runs in %q", ErrNamespaceNotSelected, current)
	}

	return nil
}

func currentSchema(ctx context.Context, conn Conn) (string, error) {
	var schema string
	if err := conn.QueryRow(ctx, selectCurrentSchema).Scan(&schema); err != nil {
		return "", fmt.Errorf("%w: %w", ErrNamespaceNotSelected, err)
	}
	return schema, nil
}

// bootstrap runs the one-time schema initialization.
func (m *Manager) bootstrap(ctx context.Context, conn Conn) error {
	m.mu.RLock()
	done := m.bootstrapped
	m.mu.RUnlock()
	if done {
		return nil
	}

	if m.opts.Bootstrap != nil {
		if err := m.opts.Bootstrap(ctx, conn); err != nil {
			m.logger.Error().Err(err).Msg("schema bootstrap failed")
			return fmt.Errorf("%w: %w", ErrBootstrapFailed, err)
		}
		m.logger.Info().Msg("schema bootstrap complete")
	}

	m.mu.Lock()
	m.bootstrapped = true
	m.mu.Unlock()

	return nil
}

func (m *Manager) closeStale() {
	m.mu.Lock()
	stale := m.conn
	m.conn = nil
	m.mu.Unlock()

	if stale != nil {
		stale.Close()
	}
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	changed := m.state != state
	m.state = state
	observers := make([]func(State), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	m.opts.Metrics.SetSessionState(int(state))
	if !changed {
		return
	}

	m.logger.Debug().Stringer("state", state).Msg("database session state changed")
	for _, fn := range observers {
		fn(state)
	}
}
