// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/btcpayserver/app-sub001/internal/adapter"
	"github.com/btcpayserver/app-sub001/internal/config"
	"github.com/btcpayserver/app-sub001/internal/crypto"
	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/internal/store"
	"github.com/btcpayserver/app-sub001/models"
)

const (
	// encryptionKeySetting is the device-local (never synced) setting holding
	// the imported key in hex, so a restart does not require a re-import.
	encryptionKeySetting = "EncryptionKey"

	// activeStoreSetting is the synced setting carrying the account's store
	// selection across devices.
	activeStoreSetting = "ActiveStore"
)

type syncEngine struct {
	backup   store.BackupStorage
	outbox   store.OutboxRepository
	settings store.SettingsRepository

	// rawRemote sees ciphertext and serves the canary; remote is the
	// encrypting wrapper every entity operation goes through.
	rawRemote adapter.RemoteStore
	remote    adapter.RemoteStore

	keys     crypto.KeyStore
	deviceID int64
	interval time.Duration

	// pushMu serialises pushes; a second caller waits for the in-flight batch.
	pushMu sync.Mutex

	mu       sync.Mutex
	running  SyncDirection
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastSync time.Time

	logger *logger.Logger
}

// NewSyncEngine wires the engine over the local storages and the wire-level
// remote store. Entity payloads are transparently encrypted; only the canary
// bypasses the encryption wrapper.
func NewSyncEngine(storages *store.ClientStorages, remote adapter.RemoteStore, keys crypto.KeyStore, deviceID int64, workersCfg config.ClientWorkers, logger *logger.Logger) SyncEngine {
	interval := workersCfg.SyncInterval
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	return &syncEngine{
		backup:    storages.Backup,
		outbox:    storages.Outbox,
		settings:  storages.Settings,
		rawRemote: remote,
		remote:    adapter.NewEncryptedRemoteStore(remote, keys),
		keys:      keys,
		deviceID:  deviceID,
		interval:  interval,
		logger:    logger,
	}
}

// PushOnce implements [SyncEngine]. The outbox is grouped per entity key and
// only the head of each group (highest version, deletes over writes at equal
// version) is sent; superseded intents ride along in the cleanup.
func (e *syncEngine) PushOnce(ctx context.Context) error {
	e.pushMu.Lock()
	defer e.pushMu.Unlock()

	entries, err := e.outbox.PendingEntries(ctx)
	if err != nil {
		return fmt.Errorf("read outbox: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	var (
		txItems     []models.VSSItem
		deleteItems []models.KeyVersion
		ids         = make([]int64, 0, len(entries))
	)
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	for _, head := range groupHeads(entries) {
		if head.ActionType == models.OutboxActionDelete {
			deleteItems = append(deleteItems, models.KeyVersion{Key: head.EntityKey, Version: head.Version})
			continue
		}

		payload, err := e.backup.EntityPayload(ctx, head.EntityKey)
		if errors.Is(err, store.ErrNotFound) {
			// The row vanished after the intent was written; push the
			// disappearance instead of failing the batch.
			e.logger.Warn().Str("entity_key", head.EntityKey).Msg("outbox intent for missing entity, pushing as delete")
			deleteItems = append(deleteItems, models.KeyVersion{Key: head.EntityKey, Version: head.Version})
			continue
		}
		if err != nil {
			return fmt.Errorf("load payload of %q: %w", head.EntityKey, err)
		}

		txItems = append(txItems, models.VSSItem{
			Key:     head.EntityKey,
			Version: head.Version,
			Value:   payload,
		})
	}

	if err = e.remote.PutObjects(ctx, txItems, deleteItems, e.deviceID); err != nil {
		return fmt.Errorf("push batch of %d intents: %w", len(entries), err)
	}

	// The batch covered every grouped intent, superseded ones included.
	if err = e.outbox.DeleteEntries(ctx, ids); err != nil {
		return fmt.Errorf("clear outbox after push: %w", err)
	}

	e.markSynced()
	e.logger.Debug().Int("items", len(txItems)).Int("deletes", len(deleteItems)).Msg("push pass complete")
	return nil
}

// groupHeads reduces the outbox to one authoritative intent per entity key:
// highest version wins, and at equal version a delete beats an update beats
// an insert.
func groupHeads(entries []models.OutboxEntry) []models.OutboxEntry {
	groups := make(map[string][]models.OutboxEntry)
	var order []string
	for _, entry := range entries {
		if _, seen := groups[entry.EntityKey]; !seen {
			order = append(order, entry.EntityKey)
		}
		groups[entry.EntityKey] = append(groups[entry.EntityKey], entry)
	}

	heads := make([]models.OutboxEntry, 0, len(order))
	for _, key := range order {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Version != group[j].Version {
				return group[i].Version > group[j].Version
			}
			return group[i].ActionType > group[j].ActionType
		})
		heads = append(heads, group[0])
	}

	return heads
}

// PullOnce implements [SyncEngine].
func (e *syncEngine) PullOnce(ctx context.Context) error {
	remoteVersions, err := e.remote.ListKeyVersions(ctx)
	if err != nil {
		return fmt.Errorf("list remote versions: %w", err)
	}

	localVersions, err := e.backup.LocalKeyVersions(ctx)
	if err != nil {
		return fmt.Errorf("list local versions: %w", err)
	}

	remoteIdx := make(map[string]int64, len(remoteVersions))
	for _, kv := range remoteVersions {
		if kv.Key == crypto.CanaryEntityKey {
			continue
		}
		remoteIdx[kv.Key] = kv.Version
	}

	localIdx := make(map[string]int64, len(localVersions))
	var deleteKeys []string
	for _, kv := range localVersions {
		localIdx[kv.Key] = kv.Version
		if _, held := remoteIdx[kv.Key]; !held {
			deleteKeys = append(deleteKeys, kv.Key)
		}
	}

	var upserts []models.VSSItem
	for key, remoteVersion := range remoteIdx {
		localVersion, present := localIdx[key]
		if present && localVersion >= remoteVersion {
			continue
		}

		item, err := e.remote.GetObject(ctx, key)
		if errors.Is(err, adapter.ErrNotFound) {
			// Deleted between listing and fetch.
			if present {
				deleteKeys = append(deleteKeys, key)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("fetch %q: %w", key, err)
		}

		// A value-less record is a tombstone.
		if len(item.Value) == 0 {
			if present {
				deleteKeys = append(deleteKeys, key)
			}
			continue
		}

		upserts = append(upserts, item)
	}

	if err = e.backup.ApplyRemote(ctx, upserts, deleteKeys); err != nil {
		return fmt.Errorf("apply remote state: %w", err)
	}

	e.markSynced()
	e.logger.Debug().Int("upserts", len(upserts)).Int("deletes", len(deleteKeys)).Msg("pull pass complete")
	return nil
}

// Start implements [SyncEngine].
func (e *syncEngine) Start(ctx context.Context, direction SyncDirection) {
	if direction == SyncDirectionNone {
		e.Stop()
		return
	}

	e.mu.Lock()
	if e.running == direction {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	e.Stop()

	loopCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.running = direction
	e.cancel = cancel
	e.wg.Add(1)
	e.mu.Unlock()

	e.logger.Info().Str("direction", direction.String()).Msg("continuous sync started")
	go e.loop(loopCtx, direction)
}

func (e *syncEngine) loop(ctx context.Context, direction SyncDirection) {
	defer e.wg.Done()

	for {
		var err error
		switch direction {
		case SyncDirectionPush:
			err = e.PushOnce(ctx)
		case SyncDirectionPull:
			err = e.PullOnce(ctx)
		}
		if err != nil && ctx.Err() == nil {
			// Transient by assumption; the next tick retries.
			e.logger.Warn().Err(err).Str("direction", direction.String()).Msg("sync pass failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(e.interval):
		}
	}
}

// Stop implements [SyncEngine].
func (e *syncEngine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.running = SyncDirectionNone
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

// Running implements [SyncEngine].
func (e *syncEngine) Running() SyncDirection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// RestoreEncryptionKey implements [SyncEngine].
func (e *syncEngine) RestoreEncryptionKey(ctx context.Context) error {
	setting, err := e.settings.GetSetting(ctx, encryptionKeySetting)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load persisted key: %w", err)
	}

	key, err := hex.DecodeString(setting.Value)
	if err != nil {
		return fmt.Errorf("decode persisted key: %w", err)
	}
	if err = e.keys.SetKey(key); err != nil {
		return fmt.Errorf("restore persisted key: %w", err)
	}

	e.logger.Info().Msg("encryption key restored from local storage")
	return nil
}

// EncryptionKeyRequiresImport implements [SyncEngine].
func (e *syncEngine) EncryptionKeyRequiresImport(ctx context.Context) (bool, error) {
	if e.keys.HasKey() {
		return false, nil
	}

	_, err := e.rawRemote.GetObject(ctx, crypto.CanaryEntityKey)
	if errors.Is(err, adapter.ErrNotFound) {
		// First device of the account; nothing to import yet.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe remote canary: %w", err)
	}

	return true, nil
}

// ImportEncryptionKey implements [SyncEngine].
func (e *syncEngine) ImportEncryptionKey(ctx context.Context, key []byte) error {
	canary, err := e.rawRemote.GetObject(ctx, crypto.CanaryEntityKey)

	switch {
	case errors.Is(err, adapter.ErrNotFound):
		// First device: adopt the key and publish the canary for the rest of
		// the account's devices.
		if err = e.keys.SetKey(key); err != nil {
			return err
		}
		value, err := crypto.CanaryValue(key)
		if err != nil {
			return fmt.Errorf("build canary: %w", err)
		}
		item := models.VSSItem{Key: crypto.CanaryEntityKey, Version: 1, Value: value}
		if err = e.rawRemote.PutObjects(ctx, []models.VSSItem{item}, nil, e.deviceID); err != nil {
			return fmt.Errorf("publish canary: %w", err)
		}

	case err != nil:
		return fmt.Errorf("fetch remote canary: %w", err)

	default:
		if err = crypto.ValidateCandidateKey(key, canary.Value); err != nil {
			return err
		}
		if err = e.keys.SetKey(key); err != nil {
			return err
		}
	}

	if err = e.settings.SaveLocalSetting(ctx, encryptionKeySetting, hex.EncodeToString(key)); err != nil {
		return fmt.Errorf("persist imported key: %w", err)
	}

	e.logger.Info().Msg("encryption key imported")
	return nil
}

// ActiveStore implements [SyncEngine]. The selection rides the regular
// settings sync, so after a pull it reflects whatever store the account last
// picked on any device.
func (e *syncEngine) ActiveStore(ctx context.Context) (string, error) {
	setting, err := e.settings.GetSetting(ctx, activeStoreSetting)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load store selection: %w", err)
	}

	return setting.Value, nil
}

// LastSyncAt implements [SyncEngine].
func (e *syncEngine) LastSyncAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSync
}

func (e *syncEngine) markSynced() {
	e.mu.Lock()
	e.lastSync = time.Now()
	e.mu.Unlock()
}
