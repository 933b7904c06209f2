// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/btcpayserver/app-sub001/internal/adapter"
	"github.com/btcpayserver/app-sub001/internal/config"
	"github.com/btcpayserver/app-sub001/internal/logger"
)

// wsConn is the subset of *websocket.Conn the client uses; tests substitute a
// scripted fake.
type wsConn interface {
	Read(ctx context.Context) (websocket.MessageType, []byte, error)
	Write(ctx context.Context, typ websocket.MessageType, data []byte) error
	Close(code websocket.StatusCode, reason string) error
}

type dialFunc func(ctx context.Context, address, token string) (wsConn, error)

type client struct {
	address string
	tokens  adapter.TokenSource
	dial    dialFunc

	mu         sync.Mutex
	conn       wsConn
	readCancel context.CancelFunc
	pending    map[string]chan envelope

	masterUpdates chan struct{}
	disconnects   chan error

	logger *logger.Logger
}

// NewHub constructs a [Hub] client for the endpoint in adapterCfg.HubAddress.
// The session is not dialed until Connect.
func NewHub(adapterCfg config.ClientAdapter, tokens adapter.TokenSource, logger *logger.Logger) Hub {
	return &client{
		address:       adapterCfg.HubAddress,
		tokens:        tokens,
		dial:          dialWebsocket,
		pending:       make(map[string]chan envelope),
		masterUpdates: make(chan struct{}, 1),
		disconnects:   make(chan error, 1),
		logger:        logger,
	}
}

func dialWebsocket(ctx context.Context, address, token string) (wsConn, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.Dial(ctx, address, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("dial hub: %w", err)
	}

	return conn, nil
}

// Connect implements [Hub]. Reconnecting over a live session supersedes it:
// the old reader is cancelled and its socket closed before the new one starts,
// so a stale socket never leaks and its errors never reach Disconnects.
func (c *client) Connect(ctx context.Context) error {
	address := normalizeWSAddress(c.address)
	conn, err := c.dial(ctx, address, c.tokens.AccessToken())
	if err != nil {
		return err
	}

	readCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	oldConn := c.conn
	oldCancel := c.readCancel
	c.conn = conn
	c.readCancel = cancel
	c.mu.Unlock()

	if oldConn != nil {
		if oldCancel != nil {
			oldCancel()
		}
		if err := oldConn.Close(websocket.StatusNormalClosure, "superseded by reconnect"); err != nil {
			c.logger.Warn().Err(err).Msg("close superseded hub session")
		}
		// Calls still waiting on the old session can never be answered now.
		c.failPending(ErrNotConnected)
	}

	go c.readLoop(readCtx, conn)

	c.logger.Info().Str("address", address).Msg("hub session established")
	return nil
}

// normalizeWSAddress rewrites http(s) schemes to their ws(s) counterparts so
// config can hold either form.
func normalizeWSAddress(address string) string {
	switch {
	case strings.HasPrefix(address, "https://"):
		return "wss://" + strings.TrimPrefix(address, "https://")
	case strings.HasPrefix(address, "http://"):
		return "ws://" + strings.TrimPrefix(address, "http://")
	default:
		return address
	}
}

// readLoop is the single reader of one socket. Replies are routed to the
// waiting caller by id; notifications fan out on their channels. A read error
// fails every in-flight call and surfaces once on Disconnects, but only while
// this socket is still the session's current one.
func (c *client) readLoop(ctx context.Context, conn wsConn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			c.mu.Lock()
			active := c.conn
			c.mu.Unlock()

			// A superseded reader must not touch the session that replaced
			// it; the closed (nil) case still fails callers waiting on this
			// socket.
			if active == conn || active == nil {
				c.failPending(err)
			}
			if active == conn && ctx.Err() == nil {
				select {
				case c.disconnects <- err:
				default:
				}
			}
			return
		}

		var env envelope
		if err = json.Unmarshal(data, &env); err != nil {
			c.logger.Warn().Err(err).Msg("discarding malformed hub frame")
			continue
		}

		switch {
		case env.ID != "":
			c.deliver(env)
		case env.Type == msgMasterUpdated:
			select {
			case c.masterUpdates <- struct{}{}:
			default:
			}
		default:
			c.logger.Warn().Str("type", env.Type).Msg("unexpected hub message")
		}
	}
}

func (c *client) deliver(env envelope) {
	c.mu.Lock()
	ch, ok := c.pending[env.ID]
	if ok {
		delete(c.pending, env.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Warn().Str("id", env.ID).Msg("reply with no waiting call")
		return
	}
	ch <- env
}

func (c *client) failPending(err error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]chan envelope)
	c.mu.Unlock()

	for id, ch := range pending {
		ch <- envelope{ID: id, Error: err.Error()}
	}
}

// call performs one request/reply exchange. The reply channel is buffered so
// the reader never blocks on a caller that gave up.
func (c *client) call(ctx context.Context, method string, params any) (envelope, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return envelope{}, ErrNotConnected
	}

	env := envelope{ID: uuid.NewString(), Type: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return envelope{}, fmt.Errorf("encode %s params: %w", method, err)
		}
		env.Params = raw
	}

	data, err := json.Marshal(env)
	if err != nil {
		return envelope{}, fmt.Errorf("encode %s envelope: %w", method, err)
	}

	reply := make(chan envelope, 1)
	c.mu.Lock()
	c.pending[env.ID] = reply
	c.mu.Unlock()

	if err = conn.Write(ctx, websocket.MessageText, data); err != nil {
		c.mu.Lock()
		delete(c.pending, env.ID)
		c.mu.Unlock()
		return envelope{}, fmt.Errorf("write %s: %w", method, err)
	}

	select {
	case got := <-reply:
		if got.Error != "" {
			if got.Error == errUnauthorized {
				return envelope{}, fmt.Errorf("%s: %w", method, ErrUnauthorized)
			}
			return envelope{}, fmt.Errorf("%s: hub error: %s", method, got.Error)
		}
		return got, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, env.ID)
		c.mu.Unlock()
		return envelope{}, ctx.Err()
	}
}

// GetCurrentMaster implements [Hub].
func (c *client) GetCurrentMaster(ctx context.Context) (*int64, error) {
	env, err := c.call(ctx, msgGetCurrentMaster, nil)
	if err != nil {
		return nil, err
	}

	var result currentMasterResult
	if err = json.Unmarshal(env.Result, &result); err != nil {
		return nil, fmt.Errorf("decode current master result: %w", err)
	}

	return result.MasterDeviceID, nil
}

// DeviceMasterSignal implements [Hub].
func (c *client) DeviceMasterSignal(ctx context.Context, deviceID int64, active bool) (bool, error) {
	env, err := c.call(ctx, msgDeviceMasterSignal, masterSignalParams{DeviceID: deviceID, Active: active})
	if err != nil {
		return false, err
	}

	var result masterSignalResult
	if err = json.Unmarshal(env.Result, &result); err != nil {
		return false, fmt.Errorf("decode master signal result: %w", err)
	}

	return result.Accepted, nil
}

// MasterUpdates implements [Hub].
func (c *client) MasterUpdates() <-chan struct{} {
	return c.masterUpdates
}

// Disconnects implements [Hub].
func (c *client) Disconnects() <-chan error {
	return c.disconnects
}

// Close implements [Hub].
func (c *client) Close() error {
	c.mu.Lock()
	conn := c.conn
	cancel := c.readCancel
	c.conn = nil
	c.readCancel = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	if cancel != nil {
		cancel()
	}

	if err := conn.Close(websocket.StatusNormalClosure, "shutting down"); err != nil {
		return fmt.Errorf("close hub session: %w", err)
	}
	return nil
}
