// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package hub

import "errors"

var (
	ErrNotConnected = errors.New("hub session not connected")
	ErrUnauthorized = errors.New("hub rejected credentials")
)
