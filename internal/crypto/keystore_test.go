// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package crypto

import (
	"bytes"
	"crypto/aes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	key := make([]byte, KeyLength)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestKeyStore_EncryptDecryptRoundTrip(t *testing.T) {
	store, err := NewKeyStore(testKey(0x11))
	require.NoError(t, err)

	plaintext := []byte(`{"key":"Setting_foo","value":"bar"}`)

	blob, err := store.Encrypt(plaintext)
	require.NoError(t, err)
	require.Greater(t, len(blob), aes.BlockSize)
	assert.NotContains(t, string(blob), "Setting_foo")

	decrypted, err := store.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestKeyStore_EncryptUsesFreshIV(t *testing.T) {
	store, err := NewKeyStore(testKey(0x22))
	require.NoError(t, err)

	first, err := store.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	second, err := store.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)

	assert.False(t, bytes.Equal(first, second), "two encryptions of one plaintext must differ")
}

func TestKeyStore_NoKeyLoaded(t *testing.T) {
	store, err := NewKeyStore(nil)
	require.NoError(t, err)

	assert.False(t, store.HasKey())
	assert.Nil(t, store.Key())

	_, err = store.Encrypt([]byte("data"))
	assert.ErrorIs(t, err, ErrNoKey)

	_, err = store.Decrypt(make([]byte, aes.BlockSize*2))
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestKeyStore_SetKeyRejectsWrongLength(t *testing.T) {
	store, err := NewKeyStore(nil)
	require.NoError(t, err)

	assert.ErrorIs(t, store.SetKey(make([]byte, 16)), ErrInvalidKeyLength)
	assert.False(t, store.HasKey())

	_, err = NewKeyStore(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestDecryptWithKey_MalformedBlob(t *testing.T) {
	key := testKey(0x33)

	// Too short to contain an IV plus one block.
	_, err := DecryptWithKey(key, make([]byte, aes.BlockSize))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)

	// Not block aligned.
	_, err = DecryptWithKey(key, make([]byte, aes.BlockSize*2+3))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestValidateCandidateKey(t *testing.T) {
	accountKey := testKey(0x44)

	canary, err := CanaryValue(accountKey)
	require.NoError(t, err)

	t.Run("matching key accepted", func(t *testing.T) {
		assert.NoError(t, ValidateCandidateKey(accountKey, canary))
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		err := ValidateCandidateKey(testKey(0x55), canary)
		assert.ErrorIs(t, err, ErrKeyRejected)
	})

	t.Run("wrong length rejected", func(t *testing.T) {
		err := ValidateCandidateKey(make([]byte, 16), canary)
		assert.ErrorIs(t, err, ErrKeyRejected)
	})
}

func TestDeriveKeyFromSeed(t *testing.T) {
	seed := []byte("abandon abandon abandon about")

	first, err := DeriveKeyFromSeed(seed)
	require.NoError(t, err)
	require.Len(t, first, KeyLength)

	second, err := DeriveKeyFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, first, second, "derivation must be deterministic")

	other, err := DeriveKeyFromSeed([]byte("different seed"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	_, err = DeriveKeyFromSeed(nil)
	assert.Error(t, err)
}

func TestPKCS7RoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 31, 32} {
		data := bytes.Repeat([]byte{0xAB}, size)
		padded := padPKCS7(data, aes.BlockSize)
		require.Zero(t, len(padded)%aes.BlockSize)

		unpadded, err := unpadPKCS7(padded, aes.BlockSize)
		require.NoError(t, err)
		assert.Equal(t, data, unpadded)
	}
}
