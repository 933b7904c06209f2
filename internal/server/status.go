// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

// Package server exposes the daemon's localhost status endpoint: the UI
// process polls it to render connection state without linking the daemon in.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/btcpayserver/app-sub001/internal/config"
	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/internal/service"
)

const shutdownTimeout = 5 * time.Second

// StatusResponse is the GET /status body.
type StatusResponse struct {
	State       string     `json:"state"`
	Role        string     `json:"role"`
	DeviceID    int64      `json:"deviceId"`
	ActiveStore string     `json:"activeStore,omitempty"`
	LastSyncAt  *time.Time `json:"lastSyncAt,omitempty"`
}

// StatusServer serves /healthz and /status on a loopback address.
type StatusServer struct {
	server  *http.Server
	manager service.ConnectionManager
	engine  service.SyncEngine

	deviceID int64
	logger   *logger.Logger
}

// NewStatusServer builds the status endpoint on workersCfg.StatusAddress.
func NewStatusServer(workersCfg config.ClientWorkers, manager service.ConnectionManager, engine service.SyncEngine, deviceID int64, logger *logger.Logger) *StatusServer {
	address := workersCfg.StatusAddress
	if address == "" {
		address = config.DefaultStatusAddress
	}

	s := &StatusServer{
		manager:  manager,
		engine:   engine,
		deviceID: deviceID,
		logger:   logger,
	}
	s.server = &http.Server{
		Addr:    address,
		Handler: s.routes(),
	}

	return s
}

func (s *StatusServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/status", s.handleStatus)

	return r
}

func (s *StatusServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	state := s.manager.State()

	resp := StatusResponse{
		State:       state.String(),
		Role:        roleOf(state),
		DeviceID:    s.deviceID,
		ActiveStore: s.manager.ActiveStore(),
	}
	if last := s.engine.LastSyncAt(); !last.IsZero() {
		resp.LastSyncAt = &last
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Err(err).Msg("encode status response")
	}
}

func roleOf(state service.ConnectionState) string {
	switch state {
	case service.StateConnectedAsPrimary:
		return "primary"
	case service.StateConnectedAsSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Run implements the worker contract: serve until ctx is cancelled, then
// shut down gracefully.
func (s *StatusServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info().Str("address", s.server.Addr).Msg("status endpoint listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
