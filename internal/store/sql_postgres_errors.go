// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification is the result type returned by [ErrorClassificator.Classify].
// It indicates whether a failed database operation should be retried,
// retried on a fresh session, or abandoned.
type ErrorClassification int

const (
	// NonRetryable indicates that the failed operation should not be retried.
	// This is the default classification for unrecognised errors, constraint
	// violations, syntax errors, and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the server rejected the statement for a
	// transient reason (serialization failure, deadlock) and the same
	// statement may be submitted again on the same session.
	Retryable

	// Reconnect indicates that the session itself is broken. It must be
	// invalidated before any further statement is submitted.
	Reconnect
)

func (c ErrorClassification) String() string {
	switch c {
	case Retryable:
		return "retriable"
	case Reconnect:
		return "reconnect"
	default:
		return "non_retriable"
	}
}

// ErrorClassificator classifies driver errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL.
// It inspects the pgconn error code returned by the pgx driver and maps it
// to a [ErrorClassification] value.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier] ready for use.
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Context cancellation is never
// retried. Server errors are classified by SQLSTATE; transport failures
// (closed sockets, EOF, errors pgconn marks safe to retry) ask for a
// reconnect.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NonRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	if pgconn.SafeToRetry(err) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return Reconnect
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Reconnect
	}

	return NonRetryable
}

// ClassifyPgError maps a *pgconn.PgError to an [ErrorClassification] based on
// the PostgreSQL error code.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for the
// full list of PostgreSQL error codes.
//
// Retryable codes:
//   - Class 40: transaction rollback, serialization failure, deadlock (40000, 40001, 40P01)
//
// Reconnect codes:
//   - Class 08: connection exceptions
//   - Class 57: admin/crash shutdown, cannot connect now (57P01, 57P02, 57P03)
//
// Any other code is classified as [NonRetryable].
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	case pgerrcode.TransactionRollback, // 40000
		pgerrcode.SerializationFailure, // 40001
		pgerrcode.DeadlockDetected:     // 40P01
		return Retryable

	case pgerrcode.AdminShutdown, // 57P01
		pgerrcode.CrashShutdown,    // 57P02
		pgerrcode.CannotConnectNow: // 57P03
		return Reconnect
	}

	if pgerrcode.IsConnectionException(pgErr.Code) {
		return Reconnect
	}

	return NonRetryable
}

// IsAuthRejection reports whether err means the server refused a credential
// scheme: a missing credential field, invalid authorization (28000),
// invalid password (28P01) or insufficient privilege on the namespace (42501).
func IsAuthRejection(err error) bool {
	if errors.Is(err, ErrMissingCredentialField) {
		return true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgerrcode.InvalidAuthorizationSpecification,
		pgerrcode.InvalidPassword,
		pgerrcode.InsufficientPrivilege:
		return true
	}

	return false
}

// isUniqueViolation reports a 23505 error and returns the violated constraint.
func isUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
