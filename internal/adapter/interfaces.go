// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package adapter implements the outbound transport to the account backend's
// versioned storage service. Values stored remotely are opaque bytes; the
// [EncryptedRemoteStore] wrapper keeps ciphertext on the wire while callers
// above it work with plaintext.
package adapter

import (
	"context"

	"github.com/btcpayserver/app-sub001/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteStore is the client view of the versioned storage service. Every
// record is a (key, version, value) triple; writes are fenced by version and
// by the writer's device identifier.
type RemoteStore interface {
	// GetObject fetches a single record by key. Returns [ErrNotFound] when the
	// server holds nothing under key.
	GetObject(ctx context.Context, key string) (models.VSSItem, error)

	// PutObjects sends one atomic write batch: txItems are upserted,
	// deleteItems are removed, all or nothing. globalVersion carries the
	// writer's device identifier; the server rejects the whole batch with
	// [ErrConflict] when a version fence fails or the device is no longer the
	// recorded writer.
	PutObjects(ctx context.Context, txItems []models.VSSItem, deleteItems []models.KeyVersion, globalVersion int64) error

	// DeleteObject removes one record, fenced by the version the caller holds.
	// Returns [ErrNotFound] when key does not exist remotely.
	DeleteObject(ctx context.Context, key string, version int64) error

	// ListKeyVersions returns every (key, version) pair the server holds for
	// the account, values omitted.
	ListKeyVersions(ctx context.Context) ([]models.KeyVersion, error)
}

// TokenSource supplies the bearer credential attached to every backend
// request. Implementations decide where the token lives and when it changes.
type TokenSource interface {
	// AccessToken returns the current bearer token, or "" when the account is
	// not authenticated.
	AccessToken() string
}
