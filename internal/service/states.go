// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package service

// ConnectionState is the connection manager's lifecycle position. Transitions
// are executed by a single goroutine; observers only ever see the pairs
// published as [StateChange] events.
type ConnectionState int

const (
	StateInit ConnectionState = iota
	StateWaitingForAuth
	StateConnecting
	StateSyncing
	StateWaitingForEncryptionKey
	StateConnectedFinishedInitialSync
	StateConnectedAsPrimary
	StateConnectedAsSecondary
	StateDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateWaitingForAuth:
		return "WaitingForAuth"
	case StateConnecting:
		return "Connecting"
	case StateSyncing:
		return "Syncing"
	case StateWaitingForEncryptionKey:
		return "WaitingForEncryptionKey"
	case StateConnectedFinishedInitialSync:
		return "ConnectedFinishedInitialSync"
	case StateConnectedAsPrimary:
		return "ConnectedAsPrimary"
	case StateConnectedAsSecondary:
		return "ConnectedAsSecondary"
	case StateDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// StateChange is one observed transition.
type StateChange struct {
	Old ConnectionState
	New ConnectionState
}

// SyncDirection selects which continuous sync loop the engine runs. A device
// is either the writer (push) or a reader (pull), never both.
type SyncDirection int

const (
	SyncDirectionNone SyncDirection = iota
	SyncDirectionPush
	SyncDirectionPull
)

func (d SyncDirection) String() string {
	switch d {
	case SyncDirectionNone:
		return "none"
	case SyncDirectionPush:
		return "push"
	case SyncDirectionPull:
		return "pull"
	default:
		return "unknown"
	}
}
