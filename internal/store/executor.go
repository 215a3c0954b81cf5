// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxQueryRetries   = 16
	defaultQueryRetryBackoff = 25 * time.Millisecond
	queryRetryJitterPercent  = 20
)

// ExecutorOptions tunes an [Executor]. Zero values fall back to defaults.
type ExecutorOptions struct {
	// MaxRetries caps transparent re-submissions of one unit of work.
	MaxRetries int
	// Backoff is the base delay between re-submissions.
	Backoff time.Duration
	Metrics *metrics.Collector
}

// Executor submits statements on the managed session.
//
// Statements rejected for a transient reason (serialization failure,
// deadlock) are re-submitted unchanged up to MaxRetries times. When the
// session breaks, it is invalidated and the work is re-submitted on a
// fresh session only if no commit outcome is in doubt.
type Executor struct {
	sessions   SessionProvider
	classifier ErrorClassificator
	opts       ExecutorOptions
}

// NewExecutor constructs an [Executor] over sessions.
func NewExecutor(sessions SessionProvider, opts ExecutorOptions) *Executor {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxQueryRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultQueryRetryBackoff
	}

	return &Executor{
		sessions:   sessions,
		classifier: NewPostgresErrorClassifier(),
		opts:       opts,
	}
}

// Query submits one statement and returns its records.
func (e *Executor) Query(ctx context.Context, sql string, args ...any) (Result, error) {
	var result Result

	err := e.run(ctx, sql, false, func(ctx context.Context, conn Conn) error {
		res, err := collect(ctx, conn, sql, args)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Batch submits stmts in one transaction and returns exactly one Result
// per statement, in submission order.
func (e *Executor) Batch(ctx context.Context, stmts ...Statement) ([]Result, error) {
	if len(stmts) == 0 {
		return nil, ErrEmptyBatch
	}

	var results []Result

	err := e.run(ctx, stmts[0].SQL, true, func(ctx context.Context, conn Conn) error {
		batch := make([]Result, 0, len(stmts))
		err := inTx(ctx, conn, func(ctx context.Context, q Querier) error {
			for _, stmt := range stmts {
				res, err := collect(ctx, q, stmt.SQL, stmt.Args)
				if err != nil {
					return err
				}
				batch = append(batch, res)
			}
			return nil
		})
		if err != nil {
			return err
		}
		results = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// InTx runs fn inside one transaction. fn may be invoked more than once
// when the transaction is retried, so it must not keep side effects
// outside the transaction. An error returned by fn rolls back and is
// returned as is, unless it is a retriable database error.
func (e *Executor) InTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	return e.run(ctx, "", true, func(ctx context.Context, conn Conn) error {
		return inTx(ctx, conn, fn)
	})
}

// run executes op on the current session with the retry policy.
func (e *Executor) run(ctx context.Context, sql string, inTransaction bool, op func(ctx context.Context, conn Conn) error) error {
	log := logger.FromContext(ctx)

	retries := 0
	backoff := retry.WithMaxRetries(uint64(e.opts.MaxRetries),
		retry.WithJitterPercent(queryRetryJitterPercent, retry.NewConstant(e.opts.Backoff)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := e.sessions.EnsureConnected(ctx)
		if err != nil {
			return err
		}

		err = op(ctx, conn)
		if err == nil {
			return nil
		}

		class := e.classifier.Classify(err)
		switch class {
		case Retryable:
		case Reconnect:
			e.sessions.Invalidate(conn)
			if !safeToResubmit(err, inTransaction) {
				return err
			}
		default:
			return err
		}

		retries++
		e.opts.Metrics.RecordQueryRetry(class.String())
		log.Debug().Err(err).
			Int("retry", retries).
			Stringer("reason", class).
			Msg("re-submitting statement")
		return retry.RetryableError(err)
	})
	if err == nil {
		return nil
	}

	var qErr *QueryError
	if errors.As(err, &qErr) {
		qErr.Retries = retries
		if retries > 0 {
			log.Warn().Err(err).Int("retries", retries).Msg("statement failed after retries")
		}
	}

	return err
}

// safeToResubmit reports whether work that failed with a broken session
// can run again without risking a duplicate effect.
func safeToResubmit(err error, inTransaction bool) bool {
	if inTransaction {
		// the server rolls back an uncommitted transaction on disconnect
		return !errors.Is(err, ErrCommitingTransaction)
	}
	return pgconn.SafeToRetry(err)
}

// collect runs one statement on q and reads all its rows.
func collect(ctx context.Context, q Querier, sql string, args []any) (Result, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, newQueryError(sql, fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, newQueryError(sql, fmt.Errorf("%w: %w", ErrScanningRows, err))
	}

	result := make(Result, len(maps))
	for i, m := range maps {
		result[i] = m
	}

	return result, nil
}

// inTx runs fn in a transaction on conn. Errors from fn roll back and pass
// through unchanged.
func inTx(ctx context.Context, conn Conn, fn func(ctx context.Context, q Querier) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return newQueryError("BEGIN", fmt.Errorf("%w: %w", ErrBeginningTransaction, err))
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.FromContext(ctx).Warn().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return newQueryError("COMMIT", fmt.Errorf("%w: %w", ErrCommitingTransaction, err))
	}

	return nil
}

// txRunner runs statements directly on a bound Querier, without retries.
type txRunner struct {
	q Querier
}

// Bind returns a [Runner] that submits statements on q, typically an open
// transaction. Retrying is left to the owner of q.
func Bind(q Querier) Runner {
	return txRunner{q: q}
}

func (r txRunner) Query(ctx context.Context, sql string, args ...any) (Result, error) {
	return collect(ctx, r.q, sql, args)
}
