// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package models

import "time"

// OutboxActionType records the intent of a local mutation. The numeric order
// is significant: when multiple outbox entries exist for one key at the same
// version, the entry with the highest action type wins, so a Delete recorded
// at the same version as an Update or Insert supersedes it.
type OutboxActionType int

const (
	OutboxActionInsert OutboxActionType = iota
	OutboxActionUpdate
	OutboxActionDelete
)

// String returns a human-readable action name for logging.
func (a OutboxActionType) String() string {
	switch a {
	case OutboxActionInsert:
		return "insert"
	case OutboxActionUpdate:
		return "update"
	case OutboxActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// OutboxEntry is one pending local mutation awaiting push to the remote
// store. Entries are appended in the same local transaction as the entity
// write they describe, and removed only after a push fully succeeds.
type OutboxEntry struct {
	ID         int64
	CreatedAt  time.Time
	ActionType OutboxActionType
	EntityKey  string
	EntityType EntityType
	Version    int64
}
