// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package service holds the device coordination logic: the sync engine that
// reconciles local state with the versioned remote store, and the connection
// manager that walks one device through authentication, hub election, and the
// primary/secondary sync roles.
package service

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SyncEngine moves wallet state between the local store and the remote
// versioned store, in exactly one direction at a time.
type SyncEngine interface {
	// PushOnce uploads every pending outbox intent as one atomic remote batch
	// and clears the outbox on success. At most one push is in flight; a
	// concurrent caller waits.
	PushOnce(ctx context.Context) error

	// PullOnce reconciles local state against the remote listing: stale or
	// missing entities are upserted, locally-present keys the remote no longer
	// holds are deleted. Applied in one local transaction that bypasses the
	// outbox.
	PullOnce(ctx context.Context) error

	// Start launches the continuous loop for direction: one pass, sleep,
	// repeat until ctx is cancelled or Stop is called. Starting the direction
	// already running is a no-op; starting the other direction replaces the
	// running loop.
	Start(ctx context.Context, direction SyncDirection)

	// Stop cancels the continuous loop and waits for it to exit. No-op when
	// idle.
	Stop()

	// Running reports which continuous loop is active.
	Running() SyncDirection

	// RestoreEncryptionKey loads the locally persisted encryption key, if one
	// was imported in an earlier run.
	RestoreEncryptionKey(ctx context.Context) error

	// EncryptionKeyRequiresImport reports whether the device needs a key from
	// the user: true iff no key is loaded and the account already has a remote
	// canary. A missing canary means this is the first device, not an error.
	EncryptionKeyRequiresImport(ctx context.Context) (bool, error)

	// ImportEncryptionKey validates key against the remote canary and loads
	// and persists it on success. The first device of an account adopts the
	// key and publishes the canary instead. A wrong key returns
	// [crypto.ErrKeyRejected] and persists nothing.
	ImportEncryptionKey(ctx context.Context, key []byte) error

	// LastSyncAt returns the completion time of the most recent successful
	// push or pull pass, zero before the first one.
	LastSyncAt() time.Time

	// ActiveStore returns the synced store selection, empty when the account
	// has never picked one.
	ActiveStore(ctx context.Context) (string, error)
}

// RoleConsumer is notified when this device gains or loses the writer role.
// The wallet and node managers implement it outside this repository.
type RoleConsumer interface {
	// PrimaryGained is called after the hub accepts this device as writer.
	PrimaryGained(ctx context.Context)

	// PrimaryLost is called when the device stops being writer for any reason,
	// including shutdown.
	PrimaryLost(ctx context.Context)

	// ActiveStoreRestored is called after an initial sync when the synced
	// store selection is known, so the host can reopen the right store.
	ActiveStoreRestored(ctx context.Context, storeID string)
}

// ConnectionManager drives the device lifecycle state machine. Run is the
// actor loop; all other methods post messages to it and are safe from any
// goroutine.
type ConnectionManager interface {
	// Run executes the state machine until ctx is cancelled, then performs the
	// clean shutdown sequence.
	Run(ctx context.Context) error

	// State returns the current lifecycle state.
	State() ConnectionState

	// Subscribe returns a channel of state transitions. Slow subscribers miss
	// events rather than block the machine.
	Subscribe() <-chan StateChange

	// Unsubscribe closes and removes a channel obtained from Subscribe.
	Unsubscribe(ch <-chan StateChange)

	// NotifyAuthUpdated tells the manager the access token changed (login,
	// logout, refresh).
	NotifyAuthUpdated()

	// SupplyEncryptionKey hands the user-provided key to the machine while it
	// is in WaitingForEncryptionKey and reports the import verdict.
	SupplyEncryptionKey(ctx context.Context, key []byte) error

	// ActiveStore returns the store selection restored by the last initial
	// sync, empty before one completes.
	ActiveStore() string
}
