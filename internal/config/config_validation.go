// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package config

import "fmt"

// validate checks that the assembled client configuration is complete enough
// to start the daemon. Defaults have already been applied, so anything still
// missing here is an operator error.
func (c *ClientConfig) validate() error {
	if c.Adapter.VSSAddress == "" {
		return fmt.Errorf("%w: versioned storage service address is empty", ErrInvalidAdapterConfigs)
	}
	if c.Adapter.HubAddress == "" {
		return fmt.Errorf("%w: hub address is empty", ErrInvalidAdapterConfigs)
	}
	if c.Adapter.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidAdapterConfigs)
	}
	if c.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database file path is empty", ErrInvalidStorageConfigs)
	}
	if c.Workers.SyncInterval <= 0 {
		return fmt.Errorf("%w: sync interval must be positive", ErrInvalidWorkerConfigs)
	}

	return nil
}
