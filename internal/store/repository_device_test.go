// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcpayserver/app-sub001/internal/logger"
)

func TestDeviceIdentifier_ReturnsPersistedValue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT device_identifier FROM device_info").
		WillReturnRows(sqlmock.NewRows([]string{"device_identifier"}).AddRow(int64(424242)))

	id, err := repo.DeviceIdentifier(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(424242), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceIdentifier_GeneratesAndPersistsOnFirstRun(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT device_identifier FROM device_info").
		WillReturnRows(sqlmock.NewRows([]string{"device_identifier"}))
	mock.ExpectExec("INSERT INTO device_info").
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.DeviceIdentifier(context.Background())

	require.NoError(t, err)
	assert.Positive(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateDeviceIdentifier_Positive(t *testing.T) {
	for i := 0; i < 32; i++ {
		id, err := generateDeviceIdentifier()
		require.NoError(t, err)
		assert.Positive(t, id)
	}
}
