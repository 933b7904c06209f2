// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package models defines the shared data types synchronized between devices
// of one wallet account: the wallet entities (settings, channel backups,
// payments), the outbox of pending local mutations, and the wire types of the
// versioned storage service (VSS).
package models

import (
	"fmt"
	"strings"
)

// EntityType identifies which local table a synchronized record belongs to.
type EntityType string

const (
	EntityTypeSetting EntityType = "Setting"
	EntityTypeChannel EntityType = "Channel"
	EntityTypePayment EntityType = "Payment"
)

// entityKeySeparator joins the entity type and the record identifier into the
// stable key used on the remote store, e.g. "Setting_NBXplorerURL".
const entityKeySeparator = "_"

// EntityKey builds the stable remote key for a record of the given type.
func EntityKey(t EntityType, id string) string {
	return string(t) + entityKeySeparator + id
}

// SplitEntityKey splits a remote key back into its entity type and record
// identifier. Returns an error for keys that do not follow the
// "<Type>_<id>" convention or carry an unknown type.
func SplitEntityKey(key string) (EntityType, string, error) {
	typ, id, found := strings.Cut(key, entityKeySeparator)
	if !found || id == "" {
		return "", "", fmt.Errorf("malformed entity key %q", key)
	}

	switch EntityType(typ) {
	case EntityTypeSetting, EntityTypeChannel, EntityTypePayment:
		return EntityType(typ), id, nil
	default:
		return "", "", fmt.Errorf("unknown entity type in key %q", key)
	}
}

// Setting is a single key/value application setting. Settings marked
// BackupEligible participate in cross-device synchronization; local-only
// settings (device identifier seed, cached credentials) never leave the
// device.
type Setting struct {
	Key            string `json:"key"`
	Value          string `json:"value"`
	Version        int64  `json:"version"`
	BackupEligible bool   `json:"backupEligible"`
}

// EntityKey returns the remote key for this setting.
func (s Setting) EntityKey() string { return EntityKey(EntityTypeSetting, s.Key) }

// Channel is an opaque Lightning channel backup produced by the node
// collaborator. Data is the serialized channel state; Aliases are the short
// channel id aliases the node knows the channel by.
type Channel struct {
	ID      string   `json:"id"`
	Data    []byte   `json:"data"`
	Version int64    `json:"version"`
	Aliases []string `json:"aliases,omitempty"`
}

// EntityKey returns the remote key for this channel backup.
func (c Channel) EntityKey() string { return EntityKey(EntityTypeChannel, c.ID) }

// Payment is an opaque payment record produced by the node collaborator,
// keyed by payment identifier.
type Payment struct {
	PaymentID string `json:"paymentId"`
	Data      []byte `json:"data"`
	Version   int64  `json:"version"`
}

// EntityKey returns the remote key for this payment.
func (p Payment) EntityKey() string { return EntityKey(EntityTypePayment, p.PaymentID) }
