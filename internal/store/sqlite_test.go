// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/btcpayserver/app-sub001/internal/logger"
)

// newMockDB returns a DB backed by sqlmock with loose regexp query matching,
// so expectations only need a recognizable fragment of the generated SQL.
func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &DB{DB: conn, logger: logger.Nop()}, mock
}

func noVersionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"version"})
}

func versionRows(version int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"version"}).AddRow(version)
}
