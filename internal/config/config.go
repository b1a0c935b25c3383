// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// sync client and the remote store server. It aggregates all sub-configurations
// and is populated by merging a .env file, environment variables,
// command-line flags, an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token and versioning settings.
	App App `envPrefix:"APP_"`

	// Storage holds the remote PostgreSQL DSN and the local SQLite DSN.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address and request timeout of the remote
	// store server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client-side settings for reaching the remote store.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds orchestrator and reconciler tuning.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for the periodic full-sync job.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds the log level and the optional client log file.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds token and versioning configuration.
type App struct {
	// Token is the bearer token the client presents to the remote store.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long an issued token remains valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is exposed via the /api/version/ endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// IssueTokenFor makes the server print a signed token for this principal
	// and exit.
	// Env: APP_ISSUE_TOKEN
	IssueTokenFor string `env:"ISSUE_TOKEN"`
}

// Storage groups the configuration for both replicas.
type Storage struct {
	// DB holds the remote PostgreSQL connection settings.
	DB DB `envPrefix:"DB_"`

	// Local holds the on-device SQLite settings.
	Local Local `envPrefix:"LOCAL_"`
}

// DB holds connection settings for the remote store database.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Local holds settings for the device-local replica.
type Local struct {
	// DSN is the SQLite file path or DSN.
	// Env: STORAGE_LOCAL_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the remote store server.
type Server struct {
	// HTTPAddress is the listen address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds client-side transport settings for the remote store.
type Adapter struct {
	// HTTPAddress is the remote store address, with or without scheme.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound REST call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ReconnectDelay is the initial backoff before a dropped subscription
	// is re-dialled.
	// Env: ADAPTER_RECONNECT_DELAY
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY"`
}

// Sync holds sync engine tuning.
type Sync struct {
	// BatchWidth is the number of collections synced concurrently.
	// Env: SYNC_BATCH_WIDTH
	BatchWidth int `env:"BATCH_WIDTH"`

	// NotifyThrottle is the minimum interval between two change
	// notifications for the same collection.
	// Env: SYNC_NOTIFY_THROTTLE
	NotifyThrottle time.Duration `env:"NOTIFY_THROTTLE"`

	// CollectionTimeout bounds one collection's fetch-merge-apply step.
	// Env: SYNC_COLLECTION_TIMEOUT
	CollectionTimeout time.Duration `env:"COLLECTION_TIMEOUT"`

	// Collections restricts syncing to these local collection names.
	// Empty means all known collections.
	// Env: SYNC_COLLECTIONS (comma separated)
	Collections []string `env:"COLLECTIONS" envSeparator:","`
}

// Workers holds configuration for background jobs.
type Workers struct {
	// SyncInterval is the period of the background full sync.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// SyncOnce makes the client run one full sync and exit.
	// Env: WORKERS_SYNC_ONCE
	SyncOnce bool `env:"SYNC_ONCE"`
}

// Log holds logging configuration.
type Log struct {
	// Level is a zerolog level name ("debug", "info", ...).
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`

	// File is the client log file. Empty means stdout.
	// Env: LOG_FILE
	File string `env:"FILE"`
}

// GetStructuredConfig loads and merges the configuration from all sources.
// A field keeps the value of the first source that sets it:
//  1. Environment variables (after loading an optional .env file)
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
