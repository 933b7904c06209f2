// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/models"
)

type outboxRepository struct {
	*DB
	logger *logger.Logger
}

// NewOutboxRepository constructs the sqlite-backed [OutboxRepository].
func NewOutboxRepository(db *DB, logger *logger.Logger) OutboxRepository {
	return &outboxRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *outboxRepository) PendingEntries(ctx context.Context) ([]models.OutboxEntry, error) {
	query, args, err := builder.
		Select("id", "created_at", "action_type", "entity_key", "entity_type", "version").
		From("outbox").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outbox query: %w", err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Msg("failed to query outbox entries")
		return nil, fmt.Errorf("query outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []models.OutboxEntry
	for rows.Next() {
		var entry models.OutboxEntry
		var action int
		var entityType string

		if err = rows.Scan(&entry.ID, &entry.CreatedAt, &action, &entry.EntityKey, &entityType, &entry.Version); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		entry.ActionType = models.OutboxActionType(action)
		entry.EntityType = models.EntityType(entityType)
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox rows: %w", err)
	}

	return entries, nil
}

func (r *outboxRepository) DeleteEntries(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := builder.
		Delete("outbox").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build outbox delete: %w", err)
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Int("count", len(ids)).Msg("failed to delete outbox entries")
		return fmt.Errorf("delete %d outbox entries: %w", len(ids), err)
	}

	return nil
}
