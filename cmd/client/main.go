// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/btcpayserver/app-sub001/internal/adapter"
	"github.com/btcpayserver/app-sub001/internal/config"
	"github.com/btcpayserver/app-sub001/internal/crypto"
	"github.com/btcpayserver/app-sub001/internal/hub"
	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/internal/server"
	"github.com/btcpayserver/app-sub001/internal/service"
	"github.com/btcpayserver/app-sub001/internal/store"
	"github.com/btcpayserver/app-sub001/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewDaemonLogger("sync-daemon")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	deviceID, err := storages.Device.DeviceIdentifier(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve device identifier")
	}
	log.Info().Int64("device_id", deviceID).Msg("device identity ready")

	keys, err := crypto.NewKeyStore(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("init key store")
	}

	tokens := adapter.NewStaticTokenSource(cfg.Account.AccessToken)

	remote, err := adapter.NewVSSClient(cfg.Adapter, tokens, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote storage client")
	}

	engine := service.NewSyncEngine(storages, remote, keys, deviceID, cfg.Workers, log)
	if err = engine.RestoreEncryptionKey(ctx); err != nil {
		log.Fatal().Err(err).Msg("restore encryption key")
	}

	coordination := hub.NewHub(cfg.Adapter, tokens, log)
	manager := service.NewConnectionManager(engine, coordination, tokens, nil, deviceID, log)
	status := server.NewStatusServer(cfg.Workers, manager, engine, deviceID, log)

	if err = workers.NewWorkers(log, manager, status).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("daemon run error")
	}

	log.Info().Msg("daemon stopped")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
