// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package config

import (
	"fmt"
	"time"
)

// Defaults applied by [GetClientConfig] when the merged configuration leaves
// a field unset.
const (
	// DefaultSyncInterval is the sleep between continuous sync passes.
	DefaultSyncInterval = 2 * time.Second

	// DefaultRequestTimeout bounds individual remote storage calls.
	DefaultRequestTimeout = 15 * time.Second

	// DefaultStatusAddress is where the local status endpoint listens.
	DefaultStatusAddress = "127.0.0.1:5938"
)

// ClientAccount holds account identity settings used by the daemon.
type ClientAccount struct {
	// ServerURL is the account backend base URL.
	ServerURL string
	// AccessToken is the bearer credential for the account.
	AccessToken string
}

// ClientAdapter holds network settings used by the transport layer.
type ClientAdapter struct {
	// VSSAddress is the versioned storage service endpoint.
	VSSAddress string
	// HubAddress is the coordination hub WebSocket endpoint.
	HubAddress string
	// RequestTimeout is the default timeout for outbound remote calls.
	RequestTimeout time.Duration
}

// ClientDB contains local database settings.
type ClientDB struct {
	// DSN is the sqlite database file path.
	DSN string
}

// ClientStorage groups local storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains background loop settings.
type ClientWorkers struct {
	// SyncInterval defines the continuous sync cadence.
	SyncInterval time.Duration
	// StatusAddress is the localhost status endpoint listen address.
	StatusAddress string
}

// ClientConfig is the validated top-level daemon configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Account contains account identity settings.
	Account ClientAccount
	// Adapter contains remote endpoint addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains local storage settings.
	Storage ClientStorage
	// Workers contains background loop settings.
	Workers ClientWorkers
}

// GetClientConfig builds and validates the daemon config view from the merged
// structured configuration. Endpoints left empty are derived from the account
// server URL; cadence and timeout fields fall back to package defaults.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Account: ClientAccount{
			ServerURL:   cfg.Account.ServerURL,
			AccessToken: cfg.Account.AccessToken,
		},
		Adapter: ClientAdapter{
			VSSAddress:     cfg.Adapter.VSSAddress,
			HubAddress:     cfg.Adapter.HubAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: ClientWorkers{
			SyncInterval:  cfg.Workers.SyncInterval,
			StatusAddress: cfg.Workers.StatusAddress,
		},
	}

	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (c *ClientConfig) applyDefaults() {
	if c.Adapter.VSSAddress == "" && c.Account.ServerURL != "" {
		c.Adapter.VSSAddress = c.Account.ServerURL + "/vss"
	}
	if c.Adapter.HubAddress == "" && c.Account.ServerURL != "" {
		c.Adapter.HubAddress = c.Account.ServerURL + "/hub"
	}
	if c.Adapter.RequestTimeout <= 0 {
		c.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if c.Workers.SyncInterval <= 0 {
		c.Workers.SyncInterval = DefaultSyncInterval
	}
	if c.Workers.StatusAddress == "" {
		c.Workers.StatusAddress = DefaultStatusAddress
	}
}
