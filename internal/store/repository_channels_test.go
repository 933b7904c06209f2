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
	"github.com/btcpayserver/app-sub001/models"
)

func TestSaveChannel_WritesDataAliasesAndIntentInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelsRepository(db, logger.Nop())

	channel := models.Channel{
		ID:      "chan-1",
		Data:    []byte(`{"fundingTx":"abc"}`),
		Aliases: []string{"alias-a", "alias-b"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM channels").
		WithArgs("chan-1").
		WillReturnRows(noVersionRows())
	mock.ExpectExec("INSERT INTO channels").
		WithArgs("chan-1", channel.Data, int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM channel_aliases").
		WithArgs("chan-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO channel_aliases").
		WithArgs("chan-1", "alias-a").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO channel_aliases").
		WithArgs("chan-1", "alias-b").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO outbox").
		WithArgs(sqlmock.AnyArg(), int64(models.OutboxActionInsert), "Channel_chan-1", "Channel", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.SaveChannel(context.Background(), channel)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChannel_LoadsAliases(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelsRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT id, data, version FROM channels").
		WithArgs("chan-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data", "version"}).
			AddRow("chan-1", `{"fundingTx":"abc"}`, 3))
	mock.ExpectQuery("SELECT alias FROM channel_aliases").
		WithArgs("chan-1").
		WillReturnRows(sqlmock.NewRows([]string{"alias"}).
			AddRow("alias-a").
			AddRow("alias-b"))

	channel, err := repo.GetChannel(context.Background(), "chan-1")

	require.NoError(t, err)
	assert.Equal(t, models.Channel{
		ID:      "chan-1",
		Data:    []byte(`{"fundingTx":"abc"}`),
		Version: 3,
		Aliases: []string{"alias-a", "alias-b"},
	}, channel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteChannel_AppendsDeleteIntent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelsRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM channels").
		WithArgs("chan-1").
		WillReturnRows(versionRows(3))
	mock.ExpectExec("DELETE FROM channels").
		WithArgs("chan-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox").
		WithArgs(sqlmock.AnyArg(), int64(models.OutboxActionDelete), "Channel_chan-1", "Channel", int64(4)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.DeleteChannel(context.Background(), "chan-1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteChannel_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelsRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM channels").
		WithArgs("missing").
		WillReturnRows(noVersionRows())
	mock.ExpectRollback()

	err := repo.DeleteChannel(context.Background(), "missing")

	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
