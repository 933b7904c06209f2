// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package crypto implements the client-side encryption layer for synced
// wallet state. Every payload that leaves the device is encrypted under a
// single 32-byte symmetric key the server never sees; other devices of the
// same account verify a candidate key against a remotely stored canary value
// before trusting it.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/key_store_mock.go -package=mock

// KeyStore holds the account encryption key and performs per-value payload
// encryption. Implementations must be safe for concurrent use: the sync
// engine encrypts from the push path while the connection manager may import
// a key concurrently.
type KeyStore interface {
	// HasKey reports whether an encryption key is currently loaded.
	HasKey() bool

	// SetKey loads a 32-byte key into the store, replacing any previous key.
	// Returns [ErrInvalidKeyLength] for any other length.
	SetKey(key []byte) error

	// Key returns a copy of the loaded key, or nil when none is loaded.
	Key() []byte

	// Encrypt encrypts plaintext under the loaded key. The blob layout is
	// IV ‖ AES-256-CBC(PKCS#7(plaintext)) with a fresh random IV per call.
	// Returns [ErrNoKey] when no key is loaded.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt reverses Encrypt. Returns [ErrNoKey] when no key is loaded and
	// [ErrMalformedCiphertext] when the blob is truncated, misaligned, or
	// carries invalid padding (which usually means a wrong key).
	Decrypt(blob []byte) ([]byte, error)
}
