// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the wallet
// sync daemon. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Account holds the credentials and endpoints of the wallet account this
	// device belongs to. They are issued by the external auth collaborator.
	Account Account `envPrefix:"ACCOUNT_"`

	// Storage holds the local durable storage settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds network settings for the remote storage service and the
	// coordination hub.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background loop settings (sync cadence, status server).
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file merged
	// on top of env and flag values. Populated via the CONFIG environment
	// variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Account identifies the wallet account and its backend.
type Account struct {
	// ServerURL is the base URL of the account backend that fronts both the
	// hub and the versioned storage service.
	ServerURL string `env:"SERVER_URL"`

	// AccessToken is the bearer credential for the account, supplied by the
	// auth collaborator (login is out of scope for this daemon).
	AccessToken string `env:"ACCESS_TOKEN"`
}

// Storage groups local persistence settings.
type Storage struct {
	// DB holds the on-device sqlite settings.
	DB DB `envPrefix:"DB_"`
}

// DB contains the local database connection settings.
type DB struct {
	// DSN is the sqlite database file path.
	DSN string `env:"DSN"`
}

// Adapter holds remote endpoint settings used by the transport layer.
type Adapter struct {
	// VSSAddress is the versioned storage service endpoint. When empty it is
	// derived from Account.ServerURL.
	VSSAddress string `env:"VSS_ADDRESS"`

	// HubAddress is the WebSocket endpoint of the coordination hub. When
	// empty it is derived from Account.ServerURL.
	HubAddress string `env:"HUB_ADDRESS"`

	// RequestTimeout is the default timeout for outbound remote calls.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers contains background loop settings.
type Workers struct {
	// SyncInterval is the sleep between continuous sync passes.
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// StatusAddress is the localhost listen address of the status endpoint.
	StatusAddress string `env:"STATUS_ADDRESS"`
}
