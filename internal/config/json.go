// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations, so an operator-provided config file can use
// values like "30s".
type StructuredJSONConfig struct {
	Account struct {
		ServerURL   string `json:"server_url"`
		AccessToken string `json:"access_token"`
	} `json:"account,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		VSSAddress     string   `json:"vss_address"`
		HubAddress     string   `json:"hub_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncInterval  Duration `json:"sync_interval"`
		StatusAddress string   `json:"status_address"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Account: Account{
			ServerURL:   jsonCfg.Account.ServerURL,
			AccessToken: jsonCfg.Account.AccessToken,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Adapter: Adapter{
			VSSAddress:     jsonCfg.Adapter.VSSAddress,
			HubAddress:     jsonCfg.Adapter.HubAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncInterval:  time.Duration(jsonCfg.Workers.SyncInterval),
			StatusAddress: jsonCfg.Workers.StatusAddress,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h" or "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("error parsing duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return errors.New("invalid duration value")
	}
}
