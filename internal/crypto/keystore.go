// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeyLength is the required symmetric key size (AES-256).
	KeyLength = 32

	// CanaryEntityKey is the well-known remote key under which the encrypted
	// canary is stored. It is never materialized as a local entity.
	CanaryEntityKey = "EncryptionKeyTest"

	// canaryPlaintext is the fixed marker every device of an account must be
	// able to recover from the remote canary with the shared key.
	canaryPlaintext = "kukksappogmahcims"

	// seedDerivationInfo domain-separates the HKDF expansion that turns the
	// wallet seed into the storage encryption key.
	seedDerivationInfo = "btcpayapp/storage-encryption-key/v1"
)

// keyStore is the private implementation of [KeyStore]. The zero value has no
// key loaded; payload operations fail with [ErrNoKey] until SetKey succeeds.
type keyStore struct {
	mu  sync.RWMutex
	key []byte
}

// NewKeyStore constructs a [KeyStore]. initial may be nil (no key yet) or a
// 32-byte key restored from local storage.
func NewKeyStore(initial []byte) (KeyStore, error) {
	s := &keyStore{}
	if initial != nil {
		if err := s.SetKey(initial); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// HasKey implements [KeyStore].
func (s *keyStore) HasKey() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != nil
}

// SetKey implements [KeyStore].
func (s *keyStore) SetKey(key []byte) error {
	if len(key) != KeyLength {
		return fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = bytes.Clone(key)
	return nil
}

// Key implements [KeyStore].
func (s *keyStore) Key() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Clone(s.key)
}

// Encrypt implements [KeyStore]. The IV is prepended to the ciphertext so
// Decrypt can split it out: blob = IV ‖ ciphertext.
func (s *keyStore) Encrypt(plaintext []byte) ([]byte, error) {
	key := s.Key()
	if key == nil {
		return nil, ErrNoKey
	}
	return EncryptWithKey(key, plaintext)
}

// Decrypt implements [KeyStore].
func (s *keyStore) Decrypt(blob []byte) ([]byte, error) {
	key := s.Key()
	if key == nil {
		return nil, ErrNoKey
	}
	return DecryptWithKey(key, blob)
}

// EncryptWithKey encrypts plaintext under key as IV ‖ AES-256-CBC with PKCS#7
// padding. The blob layout is fixed by the storage service protocol; every
// device of the account must produce and consume the same format.
func EncryptWithKey(key, plaintext []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	padded := padPKCS7(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return append(iv, ciphertext...), nil
}

// DecryptWithKey reverses [EncryptWithKey]. A padding failure is reported as
// [ErrMalformedCiphertext]; with CBC it almost always means the wrong key.
func DecryptWithKey(key, blob []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}
	if len(blob) < aes.BlockSize*2 || len(blob)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrMalformedCiphertext, len(blob))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	iv, ciphertext := blob[:aes.BlockSize], blob[aes.BlockSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpadPKCS7(plaintext, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
	}

	return unpadded, nil
}

// CanaryValue produces the encrypted canary blob the first device of an
// account stores remotely under [CanaryEntityKey].
func CanaryValue(key []byte) ([]byte, error) {
	return EncryptWithKey(key, []byte(canaryPlaintext))
}

// ValidateCandidateKey checks a candidate key against the canary ciphertext
// fetched from the remote store. It is a pure function: a wrong key is an
// expected outcome, reported as [ErrKeyRejected], never as a panic or a
// control-flow exception.
func ValidateCandidateKey(key, canaryCiphertext []byte) error {
	plaintext, err := DecryptWithKey(key, canaryCiphertext)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyRejected, err)
	}
	if string(plaintext) != canaryPlaintext {
		return ErrKeyRejected
	}
	return nil
}

// DeriveKeyFromSeed deterministically derives the 32-byte storage encryption
// key from the wallet seed via HKDF-SHA256, so every device restoring the
// same wallet derives the same key without any key exchange.
func DeriveKeyFromSeed(seed []byte) ([]byte, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("empty wallet seed")
	}

	key := make([]byte, KeyLength)
	r := hkdf.New(sha256.New, seed, nil, []byte(seedDerivationInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func padPKCS7(data []byte, blockSize int) []byte {
	pad := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(pad)}, pad)...)
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("bad padded length %d", len(data))
	}

	pad := int(data[len(data)-1])
	if pad == 0 || pad > blockSize {
		return nil, fmt.Errorf("bad padding byte %d", pad)
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}

	return data[:len(data)-pad], nil
}
