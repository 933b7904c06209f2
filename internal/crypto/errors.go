// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package crypto

import "errors"

var (
	// ErrNoKey is returned by payload operations before a key is loaded.
	ErrNoKey = errors.New("no encryption key loaded")
	// ErrInvalidKeyLength is returned when a candidate key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("encryption key must be 32 bytes")
	// ErrMalformedCiphertext is returned when a blob cannot be decrypted:
	// too short, not block-aligned, or invalid padding after decryption.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	// ErrKeyRejected is returned when a candidate key fails canary
	// verification: syntactically valid, but not the account's key.
	ErrKeyRejected = errors.New("encryption key rejected by canary check")
)
