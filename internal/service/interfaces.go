// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/Redbattlebot/Astrev2/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService registers accounts and issues browser sessions.
type AuthService interface {
	// Login verifies credentials and mints a session.
	Login(ctx context.Context, username, password string) (models.Session, error)
	// Register creates a regular account and mints a session for it.
	Register(ctx context.Context, registration models.Registration) (models.Session, error)
	// BootstrapInitialAccount creates the owner account while no account exists.
	BootstrapInitialAccount(ctx context.Context, registration models.Registration) (models.Session, error)
	// AccountRegistered reports whether any account exists.
	AccountRegistered(ctx context.Context) (bool, error)
	// Authenticate resolves a session token to its live session.
	Authenticate(ctx context.Context, token string) (models.Session, error)
	// Account returns the account with the given id.
	Account(ctx context.Context, id string) (models.Account, error)
	// Logout revokes a session token.
	Logout(ctx context.Context, token string) error
}

// AppInfoService reports public information about the running site.
type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.AppInfo
	GetAppVersion(ctx context.Context) string
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}
