// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package store

import (
	"context"
	"fmt"

	"github.com/btcpayserver/app-sub001/internal/config"
	"github.com/btcpayserver/app-sub001/internal/logger"
)

// ClientStorages groups all local repositories into a single value passed to
// the service layer.
type ClientStorages struct {
	// Settings stores application settings, synced and local.
	Settings SettingsRepository
	// Channels stores Lightning channel backups.
	Channels ChannelsRepository
	// Payments stores payment records.
	Payments PaymentsRepository
	// Outbox reads and clears pending sync intents.
	Outbox OutboxRepository
	// Device owns the persisted device identifier.
	Device DeviceRepository
	// Backup is the sync engine's reconciliation facade.
	Backup BackupStorage
}

// NewClientStorages initialises the local storage layer: opens the sqlite
// database (creating the file when missing), applies migrations, and wires
// every repository to the shared connection.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Settings: NewSettingsRepository(db, logger),
		Channels: NewChannelsRepository(db, logger),
		Payments: NewPaymentsRepository(db, logger),
		Outbox:   NewOutboxRepository(db, logger),
		Device:   NewDeviceRepository(db, logger),
		Backup:   NewBackupStorage(db, logger),
	}, nil
}
