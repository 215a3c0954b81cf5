// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	selectCurrentSchema = `SELECT COALESCE(current_schema(), '') AS schema;`
	createSchema        = `CREATE SCHEMA IF NOT EXISTS %s;`

	// advisory lock key serializing creation of the initial account
	lockInitialAccount = `SELECT pg_advisory_xact_lock(hashtext('mercury.initial_account'));`

	createAccount = `INSERT INTO accounts (id, username, email, hashed_password, permission_level, admin, body_colours)
    VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7::jsonb)
    RETURNING id::text AS id, created_at;`

	selectAccountColumns = `SELECT id::text AS id, username, COALESCE(email, '') AS email, hashed_password,
    permission_level, admin, body_colours::text AS body_colours, created_at
    FROM accounts`
	findAccountByUsername = selectAccountColumns + ` WHERE username = $1;`
	findAccountByID       = selectAccountColumns + ` WHERE id = $1::uuid;`

	redeemKey = `UPDATE registration_keys
    SET uses_left = uses_left - 1
    WHERE id = $1 AND uses_left >= 1
    RETURNING uses_left;`
	selectKeyUses = `SELECT uses_left FROM registration_keys WHERE id = $1;`
	provisionKey  = `INSERT INTO registration_keys (id, uses_left)
    VALUES ($1, $2)
    RETURNING id, uses_left, created_at;`

	createSession = `INSERT INTO sessions (id, account_id, created_at, expires_at)
    VALUES ($1, $2::uuid, $3, $4)
    RETURNING id;`
	findActiveSession = `SELECT account_id::text AS account_id, created_at, expires_at
    FROM sessions
    WHERE id = $1 AND expires_at > now();`
	deleteSession        = `DELETE FROM sessions WHERE id = $1 RETURNING id;`
	deleteExpiredSession = `DELETE FROM sessions WHERE expires_at <= now() RETURNING id;`

	countAccounts       = `SELECT count(*) AS n FROM accounts;`
	countUsableKeys     = `SELECT count(*) AS n FROM registration_keys WHERE uses_left >= 1;`
	countActiveSessions = `SELECT count(*) AS n FROM sessions WHERE expires_at > now();`
)

// Constraint names declared by the migrations.
const (
	constraintAccountsUsername = "accounts_username_key"
	constraintAccountsEmail    = "accounts_email_key"
	constraintRegistrationKey  = "registration_keys_pkey"
)
