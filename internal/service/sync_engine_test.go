// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcpayserver/app-sub001/internal/adapter"
	"github.com/btcpayserver/app-sub001/internal/config"
	"github.com/btcpayserver/app-sub001/internal/crypto"
	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/internal/store"
	"github.com/btcpayserver/app-sub001/models"
)

// fakeOutbox is an in-memory store.OutboxRepository.
type fakeOutbox struct {
	mu      sync.Mutex
	entries []models.OutboxEntry
	deleted []int64
}

func (f *fakeOutbox) PendingEntries(context.Context) ([]models.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OutboxEntry(nil), f.entries...), nil
}

func (f *fakeOutbox) DeleteEntries(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids...)
	f.entries = nil
	return nil
}

// fakeBackup is an in-memory store.BackupStorage.
type fakeBackup struct {
	mu       sync.Mutex
	local    []models.KeyVersion
	payloads map[string][]byte

	appliedUpserts []models.VSSItem
	appliedDeletes []string
}

func (f *fakeBackup) LocalKeyVersions(context.Context) ([]models.KeyVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.KeyVersion(nil), f.local...), nil
}

func (f *fakeBackup) EntityPayload(_ context.Context, entityKey string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.payloads[entityKey]
	if !ok {
		return nil, store.ErrNotFound
	}
	return payload, nil
}

func (f *fakeBackup) ApplyRemote(_ context.Context, upserts []models.VSSItem, deleteKeys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appliedUpserts = append(f.appliedUpserts, upserts...)
	f.appliedDeletes = append(f.appliedDeletes, deleteKeys...)
	return nil
}

// fakeSettings records local settings writes.
type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) SaveSetting(_ context.Context, key, value string) error {
	return f.SaveLocalSetting(nil, key, value)
}

func (f *fakeSettings) SaveLocalSetting(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeSettings) GetSetting(_ context.Context, key string) (models.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return models.Setting{}, store.ErrNotFound
	}
	return models.Setting{Key: key, Value: value}, nil
}

func (f *fakeSettings) DeleteSetting(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

// fakeRemote is an in-memory adapter.RemoteStore holding whatever bytes the
// engine sends, ciphertext included.
type fakeRemote struct {
	mu    sync.Mutex
	items map[string]models.VSSItem

	putErr     error
	putBatches []models.PutObjectsRequest
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{items: make(map[string]models.VSSItem)}
}

func (f *fakeRemote) GetObject(_ context.Context, key string) (models.VSSItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[key]
	if !ok {
		return models.VSSItem{}, adapter.ErrNotFound
	}
	return item, nil
}

func (f *fakeRemote) PutObjects(_ context.Context, txItems []models.VSSItem, deleteItems []models.KeyVersion, globalVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.putBatches = append(f.putBatches, models.PutObjectsRequest{
		GlobalVersion:    globalVersion,
		TransactionItems: txItems,
		DeleteItems:      deleteItems,
	})
	for _, item := range txItems {
		f.items[item.Key] = item
	}
	for _, kv := range deleteItems {
		delete(f.items, kv.Key)
	}
	return nil
}

func (f *fakeRemote) DeleteObject(_ context.Context, key string, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	return nil
}

func (f *fakeRemote) ListKeyVersions(context.Context) ([]models.KeyVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	versions := make([]models.KeyVersion, 0, len(f.items))
	for _, item := range f.items {
		versions = append(versions, models.KeyVersion{Key: item.Key, Version: item.Version})
	}
	return versions, nil
}

type engineFixture struct {
	engine   SyncEngine
	outbox   *fakeOutbox
	backup   *fakeBackup
	settings *fakeSettings
	remote   *fakeRemote
	keys     crypto.KeyStore
}

func newEngineFixture(t *testing.T, withKey bool) *engineFixture {
	t.Helper()

	keys, err := crypto.NewKeyStore(nil)
	require.NoError(t, err)
	if withKey {
		require.NoError(t, keys.SetKey(bytes.Repeat([]byte{3}, crypto.KeyLength)))
	}

	f := &engineFixture{
		outbox:   &fakeOutbox{},
		backup:   &fakeBackup{payloads: make(map[string][]byte)},
		settings: newFakeSettings(),
		remote:   newFakeRemote(),
		keys:     keys,
	}

	storages := &store.ClientStorages{
		Settings: f.settings,
		Outbox:   f.outbox,
		Backup:   f.backup,
	}
	f.engine = NewSyncEngine(storages, f.remote, keys, 77,
		config.ClientWorkers{SyncInterval: 10 * time.Millisecond}, logger.Nop())

	return f
}

func TestPushOnce_CoalescesIntentsPerKey(t *testing.T) {
	f := newEngineFixture(t, true)

	f.outbox.entries = []models.OutboxEntry{
		{ID: 1, ActionType: models.OutboxActionInsert, EntityKey: "Setting_A", Version: 1},
		{ID: 2, ActionType: models.OutboxActionUpdate, EntityKey: "Setting_A", Version: 2},
		{ID: 3, ActionType: models.OutboxActionInsert, EntityKey: "Payment_p1", Version: 1},
		{ID: 4, ActionType: models.OutboxActionDelete, EntityKey: "Payment_p1", Version: 2},
	}
	f.backup.payloads["Setting_A"] = []byte(`{"value":"latest"}`)

	require.NoError(t, f.engine.PushOnce(context.Background()))

	require.Len(t, f.remote.putBatches, 1)
	batch := f.remote.putBatches[0]

	assert.Equal(t, int64(77), batch.GlobalVersion)

	require.Len(t, batch.TransactionItems, 1)
	assert.Equal(t, "Setting_A", batch.TransactionItems[0].Key)
	assert.Equal(t, int64(2), batch.TransactionItems[0].Version)
	plaintext, err := f.keys.Decrypt(batch.TransactionItems[0].Value)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"value":"latest"}`), plaintext)

	require.Len(t, batch.DeleteItems, 1)
	assert.Equal(t, models.KeyVersion{Key: "Payment_p1", Version: 2}, batch.DeleteItems[0])

	// Superseded intents are cleared together with the heads.
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, f.outbox.deleted)
}

func TestPushOnce_DeleteWinsAtEqualVersion(t *testing.T) {
	f := newEngineFixture(t, true)

	f.outbox.entries = []models.OutboxEntry{
		{ID: 1, ActionType: models.OutboxActionDelete, EntityKey: "Channel_c1", Version: 3},
		{ID: 2, ActionType: models.OutboxActionUpdate, EntityKey: "Channel_c1", Version: 3},
	}

	require.NoError(t, f.engine.PushOnce(context.Background()))

	require.Len(t, f.remote.putBatches, 1)
	assert.Empty(t, f.remote.putBatches[0].TransactionItems)
	require.Len(t, f.remote.putBatches[0].DeleteItems, 1)
}

func TestPushOnce_EmptyOutboxIsNoop(t *testing.T) {
	f := newEngineFixture(t, true)

	require.NoError(t, f.engine.PushOnce(context.Background()))

	assert.Empty(t, f.remote.putBatches)
	assert.Empty(t, f.outbox.deleted)
}

func TestPushOnce_RemoteFailureKeepsOutbox(t *testing.T) {
	f := newEngineFixture(t, true)

	f.outbox.entries = []models.OutboxEntry{
		{ID: 1, ActionType: models.OutboxActionInsert, EntityKey: "Setting_A", Version: 1},
	}
	f.backup.payloads["Setting_A"] = []byte("x")
	f.remote.putErr = adapter.ErrConflict

	err := f.engine.PushOnce(context.Background())

	require.ErrorIs(t, err, adapter.ErrConflict)
	assert.Empty(t, f.outbox.deleted)
}

func TestPushOnce_MissingEntityBecomesDeleteFence(t *testing.T) {
	f := newEngineFixture(t, true)

	f.outbox.entries = []models.OutboxEntry{
		{ID: 1, ActionType: models.OutboxActionUpdate, EntityKey: "Setting_gone", Version: 4},
	}

	require.NoError(t, f.engine.PushOnce(context.Background()))

	require.Len(t, f.remote.putBatches, 1)
	assert.Empty(t, f.remote.putBatches[0].TransactionItems)
	assert.Equal(t, []models.KeyVersion{{Key: "Setting_gone", Version: 4}}, f.remote.putBatches[0].DeleteItems)
}

func TestPullOnce_ConvergesLocalToRemote(t *testing.T) {
	f := newEngineFixture(t, true)

	newer, err := f.keys.Encrypt([]byte(`{"value":"new"}`))
	require.NoError(t, err)

	f.remote.items = map[string]models.VSSItem{
		"Setting_A":            {Key: "Setting_A", Version: 5, Value: newer},
		"Setting_B":            {Key: "Setting_B", Version: 1, Value: newer},
		crypto.CanaryEntityKey: {Key: crypto.CanaryEntityKey, Version: 1, Value: []byte("canary")},
	}
	f.backup.local = []models.KeyVersion{
		{Key: "Setting_A", Version: 3}, // stale, upserted
		{Key: "Setting_B", Version: 1}, // current, untouched
		{Key: "Setting_C", Version: 2}, // absent remotely, deleted
	}

	require.NoError(t, f.engine.PullOnce(context.Background()))

	require.Len(t, f.backup.appliedUpserts, 1)
	assert.Equal(t, "Setting_A", f.backup.appliedUpserts[0].Key)
	assert.Equal(t, int64(5), f.backup.appliedUpserts[0].Version)
	assert.Equal(t, []byte(`{"value":"new"}`), f.backup.appliedUpserts[0].Value)

	assert.Equal(t, []string{"Setting_C"}, f.backup.appliedDeletes)
	assert.NotZero(t, f.engine.LastSyncAt())
}

func TestPullOnce_TombstoneDeletesLocalRow(t *testing.T) {
	f := newEngineFixture(t, true)

	f.remote.items = map[string]models.VSSItem{
		"Setting_A": {Key: "Setting_A", Version: 9, Value: nil},
	}
	f.backup.local = []models.KeyVersion{{Key: "Setting_A", Version: 4}}

	require.NoError(t, f.engine.PullOnce(context.Background()))

	assert.Empty(t, f.backup.appliedUpserts)
	assert.Equal(t, []string{"Setting_A"}, f.backup.appliedDeletes)
}

func TestEncryptionKeyRequiresImport(t *testing.T) {
	t.Run("key already loaded", func(t *testing.T) {
		f := newEngineFixture(t, true)
		needed, err := f.engine.EncryptionKeyRequiresImport(context.Background())
		require.NoError(t, err)
		assert.False(t, needed)
	})

	t.Run("no key and no canary", func(t *testing.T) {
		f := newEngineFixture(t, false)
		needed, err := f.engine.EncryptionKeyRequiresImport(context.Background())
		require.NoError(t, err)
		assert.False(t, needed)
	})

	t.Run("no key and remote canary", func(t *testing.T) {
		f := newEngineFixture(t, false)
		f.remote.items[crypto.CanaryEntityKey] = models.VSSItem{Key: crypto.CanaryEntityKey, Version: 1, Value: []byte("x")}
		needed, err := f.engine.EncryptionKeyRequiresImport(context.Background())
		require.NoError(t, err)
		assert.True(t, needed)
	})
}

func TestImportEncryptionKey_MatchingCanary(t *testing.T) {
	f := newEngineFixture(t, false)

	key := bytes.Repeat([]byte{9}, crypto.KeyLength)
	canary, err := crypto.CanaryValue(key)
	require.NoError(t, err)
	f.remote.items[crypto.CanaryEntityKey] = models.VSSItem{Key: crypto.CanaryEntityKey, Version: 1, Value: canary}

	require.NoError(t, f.engine.ImportEncryptionKey(context.Background(), key))

	assert.True(t, f.keys.HasKey())
	persisted, err := f.settings.GetSetting(context.Background(), "EncryptionKey")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(key), persisted.Value)
}

func TestImportEncryptionKey_WrongKeyRejectedWithoutSideEffects(t *testing.T) {
	f := newEngineFixture(t, false)

	rightKey := bytes.Repeat([]byte{9}, crypto.KeyLength)
	canary, err := crypto.CanaryValue(rightKey)
	require.NoError(t, err)
	f.remote.items[crypto.CanaryEntityKey] = models.VSSItem{Key: crypto.CanaryEntityKey, Version: 1, Value: canary}

	wrongKey := bytes.Repeat([]byte{8}, crypto.KeyLength)
	err = f.engine.ImportEncryptionKey(context.Background(), wrongKey)

	require.ErrorIs(t, err, crypto.ErrKeyRejected)
	assert.False(t, f.keys.HasKey())
	_, err = f.settings.GetSetting(context.Background(), "EncryptionKey")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportEncryptionKey_FirstDevicePublishesCanary(t *testing.T) {
	f := newEngineFixture(t, false)

	key := bytes.Repeat([]byte{5}, crypto.KeyLength)
	require.NoError(t, f.engine.ImportEncryptionKey(context.Background(), key))

	assert.True(t, f.keys.HasKey())

	canary, err := f.remote.GetObject(context.Background(), crypto.CanaryEntityKey)
	require.NoError(t, err)
	require.NoError(t, crypto.ValidateCandidateKey(key, canary.Value))
}

func TestRestoreEncryptionKey(t *testing.T) {
	f := newEngineFixture(t, false)

	key := bytes.Repeat([]byte{4}, crypto.KeyLength)
	require.NoError(t, f.settings.SaveLocalSetting(context.Background(), "EncryptionKey", hex.EncodeToString(key)))

	require.NoError(t, f.engine.RestoreEncryptionKey(context.Background()))
	assert.Equal(t, key, f.keys.Key())

	// Nothing persisted is not an error.
	empty := newEngineFixture(t, false)
	require.NoError(t, empty.engine.RestoreEncryptionKey(context.Background()))
	assert.False(t, empty.keys.HasKey())
}

func TestActiveStore(t *testing.T) {
	f := newEngineFixture(t, true)

	// No selection recorded yet.
	got, err := f.engine.ActiveStore(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, f.settings.SaveSetting(context.Background(), "ActiveStore", "store-11"))

	got, err = f.engine.ActiveStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "store-11", got)
}

func TestStartStop_ContinuousLoop(t *testing.T) {
	f := newEngineFixture(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.engine.Start(ctx, SyncDirectionPull)
	assert.Equal(t, SyncDirectionPull, f.engine.Running())

	require.Eventually(t, func() bool {
		return !f.engine.LastSyncAt().IsZero()
	}, 2*time.Second, 10*time.Millisecond, "pull pass never ran")

	// Same direction again is a no-op.
	f.engine.Start(ctx, SyncDirectionPull)
	assert.Equal(t, SyncDirectionPull, f.engine.Running())

	// Switching direction replaces the loop.
	f.engine.Start(ctx, SyncDirectionPush)
	assert.Equal(t, SyncDirectionPush, f.engine.Running())

	f.engine.Stop()
	assert.Equal(t, SyncDirectionNone, f.engine.Running())
}
