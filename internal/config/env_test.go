// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_NAME":                 "Mercury",
		"APP_VERSION":              "1.2.3",
		"APP_BODY_COLORS_TORSO":    "1",
		"APP_BODY_COLORS_LEFT_LEG": "2",

		"STORAGE_DB_ENDPOINT":             "postgres://db:5432/",
		"STORAGE_DB_NAMESPACE":            "mercury",
		"STORAGE_DB_DATABASE":             "site",
		"STORAGE_DB_ROOT_USER":            "root",
		"STORAGE_DB_ROOT_PASSWORD":        "rootpw",
		"STORAGE_DB_NAMESPACE_USER":       "owner",
		"STORAGE_DB_NAMESPACE_PASSWORD":   "ownerpw",
		"STORAGE_DB_MAX_CONNECT_ATTEMPTS": "5",
		"STORAGE_DB_CONNECT_BACKOFF":      "1s",
		"STORAGE_DB_MAX_QUERY_RETRIES":    "8",

		"REGISTRATION_EMAILS":       "true",
		"REGISTRATION_KEYS_ENABLED": "true",
		"REGISTRATION_KEYS_PREFIX":  "key-",

		"SESSION_DURATION": "24h",
		"SESSION_HASH_KEY": "secret",

		"SERVER_ADDRESS":         "localhost:8080",
		"SERVER_GRPC_ADDRESS":    "localhost:9090",
		"SERVER_REQUEST_TIMEOUT": "30s",

		"ADAPTER_RENDERER_URL":      "http://render:3000",
		"ADAPTER_RENDERER_SIGN_KEY": "render-secret",

		"WORKERS_WATCHDOG_SCHEDULE": "@every 1m",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "1.2.3", cfg.App.Version)
	assert.Equal(t, 1, cfg.App.DefaultBodyColors.Torso)
	assert.Equal(t, 2, cfg.App.DefaultBodyColors.LeftLeg)
	assert.Equal(t, 24, cfg.App.DefaultBodyColors.Head)

	db := cfg.Storage.DB
	assert.Equal(t, "postgres://db:5432/", db.Endpoint)
	assert.Equal(t, "mercury", db.Namespace)
	assert.Equal(t, "site", db.Database)
	assert.Equal(t, "root", db.RootUser)
	assert.Equal(t, "rootpw", db.RootPassword)
	assert.Equal(t, "owner", db.NamespaceUser)
	assert.Equal(t, "ownerpw", db.NamespacePassword)
	assert.Equal(t, 5, db.MaxConnectAttempts)
	assert.Equal(t, time.Second, db.ConnectBackoff)
	assert.Equal(t, 8, db.MaxQueryRetries)

	assert.True(t, cfg.Registration.Emails)
	assert.True(t, cfg.Registration.Keys.Enabled)
	assert.Equal(t, "key-", cfg.Registration.Keys.Prefix)

	assert.Equal(t, 24*time.Hour, cfg.Session.Duration)
	assert.Equal(t, "secret", cfg.Session.HashKey)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "localhost:9090", cfg.Server.GRPCAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "http://render:3000", cfg.Adapter.Renderer.URL)
	assert.Equal(t, "render-secret", cfg.Adapter.Renderer.SignKey)
	assert.Equal(t, "@every 1m", cfg.Workers.WatchdogSchedule)
}

func TestParseEnv_Defaults(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "Mercury", cfg.App.Name)
	assert.Equal(t, 3, cfg.Storage.DB.MaxConnectAttempts)
	assert.Equal(t, 2*time.Second, cfg.Storage.DB.ConnectBackoff)
	assert.Equal(t, 16, cfg.Storage.DB.MaxQueryRetries)
	assert.Equal(t, 25*time.Millisecond, cfg.Storage.DB.QueryRetryBackoff)
	assert.Equal(t, int32(10), cfg.Storage.DB.MaxConns)
	assert.Equal(t, "mercurkey-", cfg.Registration.Keys.Prefix)
	assert.False(t, cfg.Registration.Keys.Enabled)
	assert.Equal(t, 720*time.Hour, cfg.Session.Duration)
	assert.Equal(t, "mercury_session", cfg.Session.CookieName)
	assert.Equal(t, BodyColors{Head: 24, LeftArm: 24, LeftLeg: 119, RightArm: 24, RightLeg: 119, Torso: 23},
		cfg.App.DefaultBodyColors)
	assert.Equal(t, "@every 10m", cfg.Workers.SessionReapSchedule)

	assert.Empty(t, cfg.Storage.DB.Endpoint)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"SESSION_DURATION": "invalid_duration",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	setEnvVars(t, map[string]string{
		"STORAGE_DB_MAX_CONNECT_ATTEMPTS": "three",
	})

	cfg := &StructuredConfig{}
	assert.Error(t, parseEnv(cfg))
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			setEnvVars(t, map[string]string{
				"SERVER_REQUEST_TIMEOUT": tt.envValue,
			})

			// Act
			cfg := &StructuredConfig{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Server.RequestTimeout)
		})
	}
}

// Helpers

var configEnvKeys = []string{
	"CONFIG",

	"APP_NAME",
	"APP_VERSION",
	"APP_LOG_LEVEL",
	"APP_BODY_COLORS_TORSO",
	"APP_BODY_COLORS_LEFT_LEG",

	"STORAGE_DB_ENDPOINT",
	"STORAGE_DB_NAMESPACE",
	"STORAGE_DB_DATABASE",
	"STORAGE_DB_ROOT_USER",
	"STORAGE_DB_ROOT_PASSWORD",
	"STORAGE_DB_NAMESPACE_USER",
	"STORAGE_DB_NAMESPACE_PASSWORD",
	"STORAGE_DB_MAX_CONNECT_ATTEMPTS",
	"STORAGE_DB_CONNECT_BACKOFF",
	"STORAGE_DB_MAX_QUERY_RETRIES",
	"STORAGE_DB_QUERY_RETRY_BACKOFF",
	"STORAGE_DB_MAX_CONNS",

	"REGISTRATION_EMAILS",
	"REGISTRATION_KEYS_ENABLED",
	"REGISTRATION_KEYS_PREFIX",

	"SESSION_DURATION",
	"SESSION_HASH_KEY",
	"SESSION_COOKIE_NAME",
	"SESSION_COOKIE_SECURE",

	"SERVER_ADDRESS",
	"SERVER_GRPC_ADDRESS",
	"SERVER_REQUEST_TIMEOUT",
	"SERVER_RATE_LIMIT",
	"SERVER_RATE_BURST",

	"ADAPTER_RENDERER_URL",
	"ADAPTER_RENDERER_SIGN_KEY",
	"ADAPTER_RENDERER_ISSUER",
	"ADAPTER_RENDERER_TIMEOUT",

	"WORKERS_SESSION_REAP_SCHEDULE",
	"WORKERS_WATCHDOG_SCHEDULE",
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		if old, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { _ = os.Setenv(k, old) })
		}
		_ = os.Unsetenv(k)
	}
}
