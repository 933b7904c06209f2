// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcpayserver/app-sub001/internal/logger"
)

type deviceRepository struct {
	*DB
	logger *logger.Logger
}

// NewDeviceRepository constructs the sqlite-backed [DeviceRepository].
func NewDeviceRepository(db *DB, logger *logger.Logger) DeviceRepository {
	return &deviceRepository{
		DB:     db,
		logger: logger,
	}
}

// DeviceIdentifier implements [DeviceRepository]. The identifier is drawn
// from the OS CSPRNG on first run; a collision across the handful of devices
// on one account is not a realistic concern at 63 bits.
func (r *deviceRepository) DeviceIdentifier(ctx context.Context) (int64, error) {
	var id int64

	query, args, err := builder.
		Select("device_identifier").
		From("device_info").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build device query: %w", err)
	}

	err = r.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("query device identifier: %w", err)
	}

	id, err = generateDeviceIdentifier()
	if err != nil {
		return 0, err
	}

	query, args, err = builder.
		Insert("device_info").
		Columns("id", "device_identifier").
		Values(1, id).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build device insert: %w", err)
	}
	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("persist device identifier: %w", err)
	}

	r.logger.Info().Int64("device_identifier", id).Msg("generated device identifier at first run")
	return id, nil
}

func generateDeviceIdentifier() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("generate device identifier: %w", err)
	}

	id := int64(binary.BigEndian.Uint64(buf[:]) >> 1) // keep it positive
	if id == 0 {
		id = 1
	}
	return id, nil
}
