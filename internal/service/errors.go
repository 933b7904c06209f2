// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package service

import "errors"

// ErrKeyNotExpected is returned when a key is supplied while the manager is
// not waiting for one.
var ErrKeyNotExpected = errors.New("no encryption key import pending")
