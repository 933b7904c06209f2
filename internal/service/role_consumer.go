// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package service

import (
	"context"

	"github.com/btcpayserver/app-sub001/internal/logger"
)

// loggingRoleConsumer is the default [RoleConsumer]: the wallet and node
// managers live in the host application, so the daemon only records the role
// changes it would hand them.
type loggingRoleConsumer struct {
	logger *logger.Logger
}

func NewLoggingRoleConsumer(logger *logger.Logger) RoleConsumer {
	return &loggingRoleConsumer{logger: logger}
}

func (c *loggingRoleConsumer) PrimaryGained(context.Context) {
	c.logger.Info().Msg("device is now the writer")
}

func (c *loggingRoleConsumer) PrimaryLost(context.Context) {
	c.logger.Info().Msg("device is no longer the writer")
}

func (c *loggingRoleConsumer) ActiveStoreRestored(_ context.Context, storeID string) {
	c.logger.Info().Str("store_id", storeID).Msg("store selection restored")
}
