// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-server-url account backend base URL
//	-vss-address versioned storage service endpoint
//	-hub-address coordination hub WebSocket endpoint
//	-d database file path
//	-c/-config json file path with configs
//	-sync-interval continuous sync cadence (e.g., "2s")
//	-request-timeout remote call timeout (e.g., "30s", "1m")
//	-status-address localhost status endpoint address
func ParseFlags() *StructuredConfig {
	var serverURL string
	var vssAddress string
	var hubAddress string
	var databaseDSN string
	var jsonConfigPath string
	var syncInterval time.Duration
	var requestTimeout time.Duration
	var statusAddress string

	flag.StringVar(&serverURL, "server-url", "", "Account backend base URL")
	flag.StringVar(&vssAddress, "vss-address", "", "Versioned storage service endpoint")
	flag.StringVar(&hubAddress, "hub-address", "", "Coordination hub WebSocket endpoint")
	flag.StringVar(&databaseDSN, "d", "", "Local database file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Continuous sync cadence (e.g., 2s)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Remote call timeout (e.g., 30s, 1m)")
	flag.StringVar(&statusAddress, "status-address", "", "Status endpoint listen address")

	flag.Parse()

	return &StructuredConfig{
		Account: Account{
			ServerURL: serverURL,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Adapter: Adapter{
			VSSAddress:     vssAddress,
			HubAddress:     hubAddress,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			SyncInterval:  syncInterval,
			StatusAddress: statusAddress,
		},
		JSONFilePath: jsonConfigPath,
	}
}
