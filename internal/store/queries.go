// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/btcpayserver/app-sub001/models"
)

// builder is the shared squirrel statement builder; sqlite uses positional
// "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// currentVersion returns the stored version for one row inside a transaction.
// found is false when the row does not exist.
func currentVersion(ctx context.Context, tx *sql.Tx, table, keyColumn, key string) (version int64, found bool, err error) {
	query, args, err := builder.
		Select("version").
		From(table).
		Where(sq.Eq{keyColumn: key}).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build version query: %w", err)
	}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query version of %s %q: %w", table, key, err)
	}

	return version, true, nil
}

// appendOutboxEntry records a sync intent inside the same transaction as the
// entity write it describes. This coupling is what makes local mutations
// eventually consistent: nothing changes without an intent to push it.
func appendOutboxEntry(ctx context.Context, tx *sql.Tx, action models.OutboxActionType, entityKey string, entityType models.EntityType, version int64) error {
	query, args, err := builder.
		Insert("outbox").
		Columns("created_at", "action_type", "entity_key", "entity_type", "version").
		Values(time.Now().UTC(), int(action), entityKey, string(entityType), version).
		ToSql()
	if err != nil {
		return fmt.Errorf("build outbox insert: %w", err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append outbox entry for %q: %w", entityKey, err)
	}

	return nil
}
