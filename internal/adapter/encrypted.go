// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package adapter

import (
	"context"
	"fmt"

	"github.com/btcpayserver/app-sub001/internal/crypto"
	"github.com/btcpayserver/app-sub001/models"
)

type encryptedRemoteStore struct {
	inner RemoteStore
	keys  crypto.KeyStore
}

// NewEncryptedRemoteStore wraps inner so values are encrypted before they hit
// the wire and decrypted on the way back. Keys, versions and delete fences
// pass through untouched; only item values carry ciphertext. Callers above
// the wrapper never see an encrypted byte, and inner never sees a plaintext
// one.
func NewEncryptedRemoteStore(inner RemoteStore, keys crypto.KeyStore) RemoteStore {
	return &encryptedRemoteStore{inner: inner, keys: keys}
}

// GetObject implements [RemoteStore], decrypting the stored value.
func (e *encryptedRemoteStore) GetObject(ctx context.Context, key string) (models.VSSItem, error) {
	item, err := e.inner.GetObject(ctx, key)
	if err != nil {
		return models.VSSItem{}, err
	}

	// Tombstones carry no value; there is nothing to decrypt.
	if len(item.Value) == 0 {
		return item, nil
	}

	plaintext, err := e.keys.Decrypt(item.Value)
	if err != nil {
		return models.VSSItem{}, fmt.Errorf("decrypt value of %q: %w", key, err)
	}
	item.Value = plaintext

	return item, nil
}

// PutObjects implements [RemoteStore], encrypting every item value before
// delegating. The originals are not mutated.
func (e *encryptedRemoteStore) PutObjects(ctx context.Context, txItems []models.VSSItem, deleteItems []models.KeyVersion, globalVersion int64) error {
	encrypted := make([]models.VSSItem, len(txItems))
	for i, item := range txItems {
		ciphertext, err := e.keys.Encrypt(item.Value)
		if err != nil {
			return fmt.Errorf("encrypt value of %q: %w", item.Key, err)
		}
		item.Value = ciphertext
		encrypted[i] = item
	}

	return e.inner.PutObjects(ctx, encrypted, deleteItems, globalVersion)
}

// DeleteObject implements [RemoteStore]; nothing to encrypt.
func (e *encryptedRemoteStore) DeleteObject(ctx context.Context, key string, version int64) error {
	return e.inner.DeleteObject(ctx, key, version)
}

// ListKeyVersions implements [RemoteStore]; listings carry no values.
func (e *encryptedRemoteStore) ListKeyVersions(ctx context.Context) ([]models.KeyVersion, error) {
	return e.inner.ListKeyVersions(ctx)
}
