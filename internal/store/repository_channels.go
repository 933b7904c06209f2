// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/models"
)

type channelsRepository struct {
	*DB
	logger *logger.Logger
}

// NewChannelsRepository constructs the sqlite-backed [ChannelsRepository].
func NewChannelsRepository(db *DB, logger *logger.Logger) ChannelsRepository {
	return &channelsRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *channelsRepository) SaveChannel(ctx context.Context, channel models.Channel) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		version, found, err := currentVersion(ctx, tx, "channels", "id", channel.ID)
		if err != nil {
			return err
		}

		action := models.OutboxActionInsert
		if found {
			action = models.OutboxActionUpdate
		}
		newVersion := version + 1

		query, args, err := builder.
			Insert("channels").
			Columns("id", "data", "version").
			Values(channel.ID, channel.Data, newVersion).
			Suffix("ON CONFLICT(id) DO UPDATE SET data = excluded.data, version = excluded.version").
			ToSql()
		if err != nil {
			return fmt.Errorf("build channels upsert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Err(err).Str("channel_id", channel.ID).Msg("failed to upsert channel")
			return fmt.Errorf("save channel %q: %w", channel.ID, err)
		}

		if err = replaceChannelAliases(ctx, tx, channel.ID, channel.Aliases); err != nil {
			return err
		}

		return appendOutboxEntry(ctx, tx, action, channel.EntityKey(), models.EntityTypeChannel, newVersion)
	})
}

func (r *channelsRepository) GetChannel(ctx context.Context, id string) (models.Channel, error) {
	query, args, err := builder.
		Select("id", "data", "version").
		From("channels").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Channel{}, fmt.Errorf("build channels query: %w", err)
	}

	var channel models.Channel
	err = r.QueryRowContext(ctx, query, args...).
		Scan(&channel.ID, &channel.Data, &channel.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Channel{}, fmt.Errorf("channel %q: %w", id, ErrNotFound)
	}
	if err != nil {
		r.logger.Err(err).Str("channel_id", id).Msg("failed to scan channel row")
		return models.Channel{}, fmt.Errorf("get channel %q: %w", id, err)
	}

	channel.Aliases, err = r.channelAliases(ctx, id)
	if err != nil {
		return models.Channel{}, err
	}

	return channel, nil
}

func (r *channelsRepository) DeleteChannel(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		version, found, err := currentVersion(ctx, tx, "channels", "id", id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("channel %q: %w", id, ErrNotFound)
		}

		query, args, err := builder.Delete("channels").Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build channels delete: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete channel %q: %w", id, err)
		}

		return appendOutboxEntry(ctx, tx, models.OutboxActionDelete, models.EntityKey(models.EntityTypeChannel, id), models.EntityTypeChannel, version+1)
	})
}

func (r *channelsRepository) channelAliases(ctx context.Context, id string) ([]string, error) {
	query, args, err := builder.
		Select("alias").
		From("channel_aliases").
		Where(sq.Eq{"channel_id": id}).
		OrderBy("alias").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build aliases query: %w", err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query aliases of channel %q: %w", id, err)
	}
	defer rows.Close()

	var aliases []string
	for rows.Next() {
		var alias string
		if err = rows.Scan(&alias); err != nil {
			return nil, fmt.Errorf("scan alias row: %w", err)
		}
		aliases = append(aliases, alias)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alias rows: %w", err)
	}

	return aliases, nil
}

func replaceChannelAliases(ctx context.Context, tx *sql.Tx, id string, aliases []string) error {
	query, args, err := builder.Delete("channel_aliases").Where(sq.Eq{"channel_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build aliases delete: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear aliases of channel %q: %w", id, err)
	}

	for _, alias := range aliases {
		query, args, err = builder.
			Insert("channel_aliases").
			Columns("channel_id", "alias").
			Values(id, alias).
			ToSql()
		if err != nil {
			return fmt.Errorf("build alias insert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert alias %q for channel %q: %w", alias, id, err)
		}
	}

	return nil
}
