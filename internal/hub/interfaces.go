// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package hub implements the WebSocket client for the backend coordination
// hub. The hub elects which device of an account may push wallet state; every
// other device follows as a reader. Requests are JSON envelopes correlated by
// id; the server additionally pushes unsolicited master-updated notifications.
package hub

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/hub_mock.go -package=mock

// Hub is one device's session with the coordination hub.
type Hub interface {
	// Connect dials the hub and starts the reader. Returns [ErrUnauthorized]
	// when the backend rejects the bearer token at dial time.
	Connect(ctx context.Context) error

	// GetCurrentMaster asks which device the hub currently records as the
	// writer. nil means no device holds the role.
	GetCurrentMaster(ctx context.Context) (*int64, error)

	// DeviceMasterSignal claims (active=true) or cedes (active=false) the
	// writer role for deviceID. The returned bool is the hub's verdict: false
	// on a claim means another device kept the role.
	DeviceMasterSignal(ctx context.Context, deviceID int64, active bool) (bool, error)

	// MasterUpdates delivers a tick whenever the hub announces that the writer
	// role changed hands. Ticks are coalesced; a slow consumer sees at least
	// one.
	MasterUpdates() <-chan struct{}

	// Disconnects delivers the read-side error when the session drops without
	// Close being called.
	Disconnects() <-chan error

	// Close ends the session cleanly. Safe to call when never connected.
	Close() error
}
