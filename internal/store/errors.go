// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"
)

// Connection manager errors.
var (
	// ErrEndpointUnreachable is returned when the endpoint refuses or drops
	// the reachability probe.
	ErrEndpointUnreachable = errors.New("database endpoint unreachable")

	// ErrAllSchemesRejected is returned when every configured credential
	// scheme was rejected within one attempt.
	ErrAllSchemesRejected = errors.New("all credential schemes rejected")

	// ErrMissingCredentialField is returned by a connector when a scheme
	// lacks a username or password. It counts as a scheme rejection.
	ErrMissingCredentialField = errors.New("credential scheme is missing a field")

	// ErrNamespaceNotSelected is returned when the session could not be
	// confirmed to run in the configured namespace.
	ErrNamespaceNotSelected = errors.New("namespace was not selected")

	// ErrBootstrapFailed wraps a failure of the one-time schema bootstrap.
	ErrBootstrapFailed = errors.New("schema bootstrap failed")

	// ErrManagerClosed is returned by EnsureConnected after Close.
	ErrManagerClosed = errors.New("connection manager is closed")

	// ErrUnsupportedConn is returned when a Conn is not backed by a pgx pool
	// where one is required.
	ErrUnsupportedConn = errors.New("connection is not a pgx pool")
)

// Executor and record errors.
var (
	// ErrEmptyBatch is returned when Batch is called without statements.
	ErrEmptyBatch = errors.New("batch has no statements")

	// ErrFieldMissing is returned when a record lacks the requested column.
	ErrFieldMissing = errors.New("record field is missing")

	// ErrFieldType is returned when a record column has an unexpected type.
	ErrFieldType = errors.New("record field has unexpected type")
)

// Repository errors. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrAccountNotReturned is returned when an account INSERT completes
	// without returning the created row.
	ErrAccountNotReturned = errors.New("account creation returned no row")

	// ErrUsernameTaken is returned on a unique violation of the username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken is returned on a unique violation of the email.
	ErrEmailTaken = errors.New("email already exists")

	// ErrKeyExists is returned when provisioning a key id that is already in use.
	ErrKeyExists = errors.New("registration key already exists")

	// ErrKeyMalformed is returned when a raw key does not carry the prefix
	// followed by at least one character.
	ErrKeyMalformed = errors.New("registration key is malformed")

	// ErrSessionNotFound is returned when no active session matches a digest.
	ErrSessionNotFound = errors.New("session was not found")
)

// Low-level database operation errors, wrapped together with the driver error.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a statement fails at the driver.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The outcome of the commit is unknown.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRows is returned when collecting result rows fails.
	ErrScanningRows = errors.New("failed to scan result rows")
)

// ConnectionError is returned by the connection manager when the session
// cannot be made ready within the configured number of attempts.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError is returned by the executor when a statement fails in a way
// that is not retried, or keeps failing after the retry ceiling.
type QueryError struct {
	// SQL is the first statement involved, truncated for logs.
	SQL string
	// Retries is the number of transparent re-submissions made.
	Retries int
	Err     error
}

func (e *QueryError) Error() string {
	if e.Retries > 0 {
		return fmt.Sprintf("query failed after %d retries: %v", e.Retries, e.Err)
	}
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func newQueryError(sql string, err error) *QueryError {
	const maxSQL = 120
	if len(sql) > maxSQL {
		sql = sql[:maxSQL]
	}
	return &QueryError{SQL: sql, Err: err}
}
