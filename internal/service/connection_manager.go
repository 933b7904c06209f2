// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/btcpayserver/app-sub001/internal/adapter"
	"github.com/btcpayserver/app-sub001/internal/hub"
	"github.com/btcpayserver/app-sub001/internal/logger"
)

const (
	defaultRetryDelay  = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
	subscriberCapacity = 16
)

type managerMsgKind int

const (
	msgAuthUpdated managerMsgKind = iota
	msgKeySupplied
)

type managerMsg struct {
	kind  managerMsgKind
	key   []byte
	reply chan error
}

type connectionManager struct {
	engine   SyncEngine
	hub      hub.Hub
	tokens   adapter.TokenSource
	consumer RoleConsumer
	deviceID int64

	retryDelay time.Duration
	now        func() time.Time

	mailbox chan managerMsg
	retry   *time.Timer

	stateMu     sync.RWMutex
	state       ConnectionState
	activeStore string

	subMu sync.Mutex
	subs  map[<-chan StateChange]chan StateChange

	logger *logger.Logger
}

// NewConnectionManager assembles the lifecycle state machine. consumer may be
// nil; a logging no-op is substituted.
func NewConnectionManager(engine SyncEngine, h hub.Hub, tokens adapter.TokenSource, consumer RoleConsumer, deviceID int64, logger *logger.Logger) ConnectionManager {
	if consumer == nil {
		consumer = NewLoggingRoleConsumer(logger)
	}

	return &connectionManager{
		engine:     engine,
		hub:        h,
		tokens:     tokens,
		consumer:   consumer,
		deviceID:   deviceID,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
		mailbox:    make(chan managerMsg, 8),
		state:      StateInit,
		subs:       make(map[<-chan StateChange]chan StateChange),
		logger:     logger,
	}
}

// Run implements [ConnectionManager]. It is the only goroutine that mutates
// state; every external trigger arrives here as a message or channel event.
func (m *connectionManager) Run(ctx context.Context) error {
	m.advance(ctx)

	for {
		var retryC <-chan time.Time
		if m.retry != nil {
			retryC = m.retry.C
		}

		select {
		case <-ctx.Done():
			m.shutdown()
			return nil

		case <-m.hub.MasterUpdates():
			m.onMasterChanged(ctx)

		case err := <-m.hub.Disconnects():
			m.onDropped(ctx, err)

		case <-retryC:
			m.retry = nil
			m.advance(ctx)

		case msg := <-m.mailbox:
			switch msg.kind {
			case msgAuthUpdated:
				m.onAuthUpdated(ctx)
			case msgKeySupplied:
				msg.reply <- m.onKeySupplied(ctx, msg.key)
			}
		}
	}
}

// advance runs automatic transitions until the machine settles in a state
// that only an external trigger can leave.
func (m *connectionManager) advance(ctx context.Context) {
	for {
		next, settled := m.step(ctx)
		if settled {
			return
		}
		m.setState(ctx, next)
	}
}

// step performs the side effects of the current state and names its
// successor. settled means the state holds until an external trigger.
func (m *connectionManager) step(ctx context.Context) (next ConnectionState, settled bool) {
	switch m.State() {
	case StateInit:
		return StateWaitingForAuth, false

	case StateWaitingForAuth:
		if !adapter.TokenUsable(m.tokens.AccessToken(), m.now()) {
			return 0, true
		}
		if m.retry != nil {
			// A recent failure holds the reconnect until the timer fires.
			return 0, true
		}
		return StateConnecting, false

	case StateConnecting:
		if err := m.hub.Connect(ctx); err != nil {
			if errors.Is(err, hub.ErrUnauthorized) {
				m.logger.Warn().Err(err).Msg("hub rejected credentials, waiting for re-auth")
				return StateWaitingForAuth, false
			}
			m.logger.Warn().Err(err).Dur("retry_in", m.retryDelay).Msg("hub connect failed")
			m.scheduleRetry()
			return 0, true
		}
		return StateSyncing, false

	case StateSyncing:
		return m.stepSyncing(ctx), false

	case StateConnectedFinishedInitialSync:
		return m.stepClaimRole(ctx), false

	case StateDisconnected:
		// The session just failed; pace the next attempt so a persistently
		// broken backend is not hammered in a tight dial loop.
		m.scheduleRetry()
		return StateWaitingForAuth, false

	default:
		// WaitingForEncryptionKey and both connected roles hold until an
		// external trigger.
		return 0, true
	}
}

// stepSyncing performs the initial sync: background sync is stopped, the key
// situation is resolved, and one full pass runs in the direction implied by
// the recorded writer.
func (m *connectionManager) stepSyncing(ctx context.Context) ConnectionState {
	m.engine.Stop()

	needsImport, err := m.engine.EncryptionKeyRequiresImport(ctx)
	if err != nil {
		m.logger.Err(err).Msg("key import probe failed")
		return StateDisconnected
	}
	if needsImport {
		return StateWaitingForEncryptionKey
	}

	master, err := m.hub.GetCurrentMaster(ctx)
	if err != nil {
		m.logger.Err(err).Msg("current master query failed")
		return StateDisconnected
	}

	if master != nil && *master == m.deviceID {
		err = m.engine.PushOnce(ctx)
	} else {
		err = m.engine.PullOnce(ctx)
	}
	if err != nil {
		m.logger.Err(err).Msg("initial sync pass failed")
		return StateDisconnected
	}

	m.restoreActiveStore(ctx)

	return StateConnectedFinishedInitialSync
}

// restoreActiveStore re-applies the synced store selection after an initial
// sync, so the host reopens the store the account was using. A lookup failure
// only costs the restore, never the connection.
func (m *connectionManager) restoreActiveStore(ctx context.Context) {
	storeID, err := m.engine.ActiveStore(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("store selection lookup failed")
		return
	}
	if storeID == "" {
		return
	}

	m.stateMu.Lock()
	changed := m.activeStore != storeID
	m.activeStore = storeID
	m.stateMu.Unlock()

	if changed {
		m.logger.Info().Str("store_id", storeID).Msg("active store restored")
		m.consumer.ActiveStoreRestored(ctx, storeID)
	}
}

// ActiveStore implements [ConnectionManager].
func (m *connectionManager) ActiveStore() string {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.activeStore
}

// stepClaimRole signals the hub that this device wants the writer role and
// settles into whichever role the hub grants.
func (m *connectionManager) stepClaimRole(ctx context.Context) ConnectionState {
	accepted, err := m.hub.DeviceMasterSignal(ctx, m.deviceID, true)
	if err != nil {
		m.logger.Err(err).Msg("master claim failed")
		return StateDisconnected
	}

	if accepted {
		m.engine.Start(ctx, SyncDirectionPush)
		return StateConnectedAsPrimary
	}

	m.engine.Start(ctx, SyncDirectionPull)
	return StateConnectedAsSecondary
}

func (m *connectionManager) onAuthUpdated(ctx context.Context) {
	usable := adapter.TokenUsable(m.tokens.AccessToken(), m.now())

	switch state := m.State(); {
	case state == StateWaitingForAuth && usable:
		// Fresh credentials reconnect immediately, pending backoff or not.
		m.stopRetry()
		m.advance(ctx)

	case state != StateWaitingForAuth && state != StateInit && !usable:
		// Logout: tear the session down and wait for new credentials.
		m.engine.Stop()
		if err := m.hub.Close(); err != nil {
			m.logger.Warn().Err(err).Msg("hub close on logout")
		}
		m.setState(ctx, StateWaitingForAuth)
	}
}

func (m *connectionManager) onKeySupplied(ctx context.Context, key []byte) error {
	if m.State() != StateWaitingForEncryptionKey {
		return ErrKeyNotExpected
	}

	if err := m.engine.ImportEncryptionKey(ctx, key); err != nil {
		// A rejected key keeps the machine waiting for the right one.
		return err
	}

	m.setState(ctx, StateSyncing)
	m.advance(ctx)
	return nil
}

func (m *connectionManager) onMasterChanged(ctx context.Context) {
	state := m.State()
	if state != StateConnectedAsPrimary && state != StateConnectedAsSecondary {
		return
	}

	master, err := m.hub.GetCurrentMaster(ctx)
	if err != nil {
		m.logger.Err(err).Msg("current master query after change notification")
		return
	}

	switch state {
	case StateConnectedAsPrimary:
		if master != nil && *master == m.deviceID {
			return
		}
		// Demoted: fall back to reading and let the claim in the initial sync
		// settle the new role.
		m.logger.Info().Msg("writer role lost, resyncing")
		m.engine.Stop()
		m.setState(ctx, StateSyncing)
		m.advance(ctx)

	case StateConnectedAsSecondary:
		if master != nil {
			return
		}
		// The writer vanished; this device may claim.
		m.logger.Info().Msg("no writer recorded, attempting claim")
		m.engine.Stop()
		m.setState(ctx, StateSyncing)
		m.advance(ctx)
	}
}

func (m *connectionManager) onDropped(ctx context.Context, err error) {
	m.logger.Warn().Err(err).Msg("hub session dropped")
	m.engine.Stop()
	m.setState(ctx, StateDisconnected)
	m.advance(ctx)
}

// shutdown runs the clean exit sequence. A primary pushes its tail and cedes
// the writer role so the next device can take over immediately.
func (m *connectionManager) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	wasPrimary := m.State() == StateConnectedAsPrimary
	m.engine.Stop()

	if wasPrimary {
		if err := m.engine.PushOnce(ctx); err != nil {
			m.logger.Warn().Err(err).Msg("final push on shutdown")
		}
		if _, err := m.hub.DeviceMasterSignal(ctx, m.deviceID, false); err != nil {
			m.logger.Warn().Err(err).Msg("cede writer role on shutdown")
		}
	}

	if err := m.hub.Close(); err != nil {
		m.logger.Warn().Err(err).Msg("hub close on shutdown")
	}

	m.setState(ctx, StateDisconnected)
	m.logger.Info().Msg("connection manager stopped")
}

func (m *connectionManager) scheduleRetry() {
	if m.retry != nil {
		return
	}
	m.retry = time.NewTimer(m.retryDelay)
}

func (m *connectionManager) stopRetry() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
}

// State implements [ConnectionManager].
func (m *connectionManager) State() ConnectionState {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func (m *connectionManager) setState(ctx context.Context, next ConnectionState) {
	m.stateMu.Lock()
	old := m.state
	if old == next {
		m.stateMu.Unlock()
		return
	}
	m.state = next
	m.stateMu.Unlock()

	m.logger.Info().Str("from", old.String()).Str("to", next.String()).Msg("state transition")

	if next == StateConnectedAsPrimary {
		m.consumer.PrimaryGained(ctx)
	}
	if old == StateConnectedAsPrimary {
		m.consumer.PrimaryLost(ctx)
	}

	m.publish(StateChange{Old: old, New: next})
}

func (m *connectionManager) publish(change StateChange) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- change:
		default:
			// A full subscriber misses the event; the machine never blocks.
		}
	}
}

// Subscribe implements [ConnectionManager].
func (m *connectionManager) Subscribe() <-chan StateChange {
	ch := make(chan StateChange, subscriberCapacity)

	m.subMu.Lock()
	m.subs[ch] = ch
	m.subMu.Unlock()

	return ch
}

// Unsubscribe implements [ConnectionManager].
func (m *connectionManager) Unsubscribe(ch <-chan StateChange) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	if send, ok := m.subs[ch]; ok {
		delete(m.subs, ch)
		close(send)
	}
}

// NotifyAuthUpdated implements [ConnectionManager].
func (m *connectionManager) NotifyAuthUpdated() {
	select {
	case m.mailbox <- managerMsg{kind: msgAuthUpdated}:
	default:
		// Mailbox full means an auth check is already queued.
	}
}

// SupplyEncryptionKey implements [ConnectionManager].
func (m *connectionManager) SupplyEncryptionKey(ctx context.Context, key []byte) error {
	reply := make(chan error, 1)

	select {
	case m.mailbox <- managerMsg{kind: msgKeySupplied, key: key, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
