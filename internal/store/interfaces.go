// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package store implements the on-device durable state of the wallet client:
// synchronizable entities (settings, channel backups, payments), the outbox
// of pending local mutations, and the device identity.
//
// The core invariant lives in the write path: every mutation of a
// backup-eligible entity writes the entity row and appends the matching
// outbox entry in one sqlite transaction, so no local change can escape
// without a sync intent. Remote-origin writes go through [BackupStorage],
// which deliberately bypasses the outbox.
package store

import (
	"context"

	"github.com/btcpayserver/app-sub001/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SettingsRepository stores application settings. Backup-eligible settings
// participate in cross-device sync; local settings never leave the device.
type SettingsRepository interface {
	// SaveSetting upserts a backup-eligible setting, increments its version,
	// and appends the matching outbox entry in the same transaction.
	SaveSetting(ctx context.Context, key, value string) error

	// SaveLocalSetting upserts a device-local setting (not backup eligible);
	// no outbox entry is written.
	SaveLocalSetting(ctx context.Context, key, value string) error

	// GetSetting returns the setting stored under key, or [ErrNotFound].
	GetSetting(ctx context.Context, key string) (models.Setting, error)

	// DeleteSetting removes a setting. For backup-eligible settings a delete
	// outbox entry at the next version is appended in the same transaction.
	DeleteSetting(ctx context.Context, key string) error
}

// ChannelsRepository stores Lightning channel backups produced by the node
// collaborator.
type ChannelsRepository interface {
	// SaveChannel upserts a channel backup (data and aliases), increments its
	// version, and appends the matching outbox entry in the same transaction.
	SaveChannel(ctx context.Context, channel models.Channel) error

	// GetChannel returns the channel stored under id, or [ErrNotFound].
	GetChannel(ctx context.Context, id string) (models.Channel, error)

	// DeleteChannel removes a channel backup and appends a delete outbox
	// entry at the next version in the same transaction.
	DeleteChannel(ctx context.Context, id string) error
}

// PaymentsRepository stores payment records produced by the node collaborator.
type PaymentsRepository interface {
	// SavePayment upserts a payment record, increments its version, and
	// appends the matching outbox entry in the same transaction.
	SavePayment(ctx context.Context, payment models.Payment) error

	// GetPayment returns the payment stored under paymentID, or [ErrNotFound].
	GetPayment(ctx context.Context, paymentID string) (models.Payment, error)
}

// OutboxRepository reads and clears the pending-mutation log. Entries are
// only ever appended by the entity repositories.
type OutboxRepository interface {
	// PendingEntries returns every outbox entry, oldest first.
	PendingEntries(ctx context.Context) ([]models.OutboxEntry, error)

	// DeleteEntries removes the entries with the given ids after a fully
	// successful push.
	DeleteEntries(ctx context.Context, ids []int64) error
}

// DeviceRepository owns the stable device identifier, generated once at first
// run and persisted for the lifetime of the install.
type DeviceRepository interface {
	// DeviceIdentifier returns the persisted identifier, generating and
	// storing one on first call.
	DeviceIdentifier(ctx context.Context) (int64, error)
}

// BackupStorage is the sync engine's view of local state: value-less listings
// for reconciliation, payload fetches for push, and the outbox-bypassing
// apply path for pull.
type BackupStorage interface {
	// LocalKeyVersions lists (entityKey, version) for every backup-eligible
	// entity across all entity tables.
	LocalKeyVersions(ctx context.Context) ([]models.KeyVersion, error)

	// EntityPayload returns the serialized payload for entityKey, fetched
	// fresh from the entity tables. Returns [ErrNotFound] when the entity no
	// longer exists locally.
	EntityPayload(ctx context.Context, entityKey string) ([]byte, error)

	// ApplyRemote installs remote-origin state in one transaction: upserts
	// overwrite local rows at the remote version and deleteKeys remove local
	// rows. No outbox entries are written, so pulled state is never re-queued
	// for push.
	ApplyRemote(ctx context.Context, upserts []models.VSSItem, deleteKeys []string) error
}
