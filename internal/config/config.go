// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It is
// populated by merging environment variables, command-line flags, and an
// optional JSON file (see [GetStructuredConfig]).
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: environment variable name for scalar fields.
//   - envDefault: value used when the variable is unset.
type StructuredConfig struct {
	// App holds application-wide settings.
	App App `envPrefix:"APP_"`

	// Storage holds the database session settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Registration controls which registration gates are active.
	Registration Registration `envPrefix:"REGISTRATION_"`

	// Session controls issued browser sessions.
	Session Session `envPrefix:"SESSION_"`

	// Server holds listener addresses and request limits.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds outbound collaborator settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds schedules of background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file,
	// merged on top of env and flag values.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level values.
type App struct {
	// Name is the site name used as the default token issuer.
	// Env: APP_NAME
	Name string `env:"NAME" envDefault:"Mercury"`

	// Version is exposed via the /api/version/ endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel narrows the global zerolog level ("info", "warn", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// DefaultBodyColors are applied to every new account.
	DefaultBodyColors BodyColors `envPrefix:"BODY_COLORS_"`
}

// BodyColors is the configurable avatar palette.
type BodyColors struct {
	Head     int `env:"HEAD" envDefault:"24"`
	LeftArm  int `env:"LEFT_ARM" envDefault:"24"`
	LeftLeg  int `env:"LEFT_LEG" envDefault:"119"`
	RightArm int `env:"RIGHT_ARM" envDefault:"24"`
	RightLeg int `env:"RIGHT_LEG" envDefault:"119"`
	Torso    int `env:"TORSO" envDefault:"23"`
}

// Storage groups persistence settings.
type Storage struct {
	// DB holds the database session settings.
	DB DB `envPrefix:"DB_"`
}

// DB describes how the connection manager reaches and authenticates to the
// database service.
type DB struct {
	// Endpoint is the database URL without credentials
	// (e.g. "postgres://db.internal:5432/?sslmode=require").
	// Env: STORAGE_DB_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// Namespace is the schema every statement runs in.
	// Env: STORAGE_DB_NAMESPACE
	Namespace string `env:"NAMESPACE"`

	// Database is the database name on the endpoint.
	// Env: STORAGE_DB_DATABASE
	Database string `env:"DATABASE"`

	// RootUser and RootPassword form the primary credential scheme.
	RootUser     string `env:"ROOT_USER"`
	RootPassword string `env:"ROOT_PASSWORD"`

	// NamespaceUser and NamespacePassword form the fallback scheme, scoped
	// to the namespace instead of the whole server.
	NamespaceUser     string `env:"NAMESPACE_USER"`
	NamespacePassword string `env:"NAMESPACE_PASSWORD"`

	// MaxConnectAttempts bounds the reconnect loop before a fatal error.
	// Env: STORAGE_DB_MAX_CONNECT_ATTEMPTS
	MaxConnectAttempts int `env:"MAX_CONNECT_ATTEMPTS" envDefault:"3"`

	// ConnectBackoff is the fixed delay between connect attempts.
	// Env: STORAGE_DB_CONNECT_BACKOFF
	ConnectBackoff time.Duration `env:"CONNECT_BACKOFF" envDefault:"2s"`

	// MaxQueryRetries caps transparent re-submission of retriable statements.
	// Env: STORAGE_DB_MAX_QUERY_RETRIES
	MaxQueryRetries int `env:"MAX_QUERY_RETRIES" envDefault:"16"`

	// QueryRetryBackoff is the base delay between query re-submissions.
	// Env: STORAGE_DB_QUERY_RETRY_BACKOFF
	QueryRetryBackoff time.Duration `env:"QUERY_RETRY_BACKOFF" envDefault:"25ms"`

	// MaxConns sizes the session's connection pool.
	// Env: STORAGE_DB_MAX_CONNS
	MaxConns int32 `env:"MAX_CONNS" envDefault:"10"`
}

// Registration mirrors the site's registration switches.
type Registration struct {
	// Emails requires (and enforces uniqueness of) an email address.
	// Env: REGISTRATION_EMAILS
	Emails bool `env:"EMAILS"`

	// Keys configures key-gated registration.
	Keys Keys `envPrefix:"KEYS_"`
}

// Keys configures limited-use registration keys.
type Keys struct {
	// Enabled requires a registration key to register.
	// Env: REGISTRATION_KEYS_ENABLED
	Enabled bool `env:"ENABLED"`

	// Prefix is the required textual prefix of every key.
	// Env: REGISTRATION_KEYS_PREFIX
	Prefix string `env:"PREFIX" envDefault:"mercurkey-"`
}

// Session controls issued browser sessions.
type Session struct {
	// Duration is how long a session stays valid after issuance.
	// Env: SESSION_DURATION
	Duration time.Duration `env:"DURATION" envDefault:"720h"`

	// HashKey keys the HMAC digest under which tokens are persisted.
	// Env: SESSION_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// CookieName is the cookie the HTTP layer writes the token to.
	// Env: SESSION_COOKIE_NAME
	CookieName string `env:"COOKIE_NAME" envDefault:"mercury_session"`

	// CookieSecure sets the Secure attribute on the session cookie.
	// Env: SESSION_COOKIE_SECURE
	CookieSecure bool `env:"COOKIE_SECURE"`
}

// Server holds inbound transport settings.
type Server struct {
	// HTTPAddress is the "host:port" the HTTP server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the "host:port" of the gRPC health endpoint.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// RateLimit is the steady number of login/register requests per second
	// allowed per client address; RateBurst is the bucket size.
	RateLimit int `env:"RATE_LIMIT" envDefault:"5"`
	RateBurst int `env:"RATE_BURST" envDefault:"10"`
}

// Adapter holds outbound collaborator settings.
type Adapter struct {
	// Renderer is the avatar render service.
	Renderer Renderer `envPrefix:"RENDERER_"`
}

// Renderer configures calls to the avatar render service. An empty URL
// disables rendering.
type Renderer struct {
	// URL is the base URL of the render service.
	// Env: ADAPTER_RENDERER_URL
	URL string `env:"URL"`

	// SignKey signs the short-lived service token sent with each call.
	// Env: ADAPTER_RENDERER_SIGN_KEY
	SignKey string `env:"SIGN_KEY"`

	// Issuer is the "iss" claim of the service token.
	// Env: ADAPTER_RENDERER_ISSUER
	Issuer string `env:"ISSUER" envDefault:"mercury-site"`

	// Timeout bounds one render call.
	// Env: ADAPTER_RENDERER_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Workers holds cron schedules (robfig/cron syntax, "@every 5m" accepted).
type Workers struct {
	// SessionReapSchedule purges expired sessions.
	// Env: WORKERS_SESSION_REAP_SCHEDULE
	SessionReapSchedule string `env:"SESSION_REAP_SCHEDULE" envDefault:"@every 10m"`

	// WatchdogSchedule pings the database session.
	// Env: WORKERS_WATCHDOG_SCHEDULE
	WatchdogSchedule string `env:"WATCHDOG_SCHEDULE" envDefault:"@every 30s"`
}

// GetStructuredConfig loads, merges, and validates the configuration.
// Sources in priority order (later non-zero values win):
//  1. Environment variables
//  2. Command-line flags (args)
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}

// GetStorageConfig is [GetStructuredConfig] for admin tooling: only the
// storage section has to be valid.
func GetStorageConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withValidation((*StructuredConfig).validateStorage).
		build()
}
