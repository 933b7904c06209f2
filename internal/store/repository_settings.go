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

type settingsRepository struct {
	*DB
	logger *logger.Logger
}

// NewSettingsRepository constructs the sqlite-backed [SettingsRepository].
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *settingsRepository) SaveSetting(ctx context.Context, key, value string) error {
	return r.saveSetting(ctx, key, value, true)
}

func (r *settingsRepository) SaveLocalSetting(ctx context.Context, key, value string) error {
	return r.saveSetting(ctx, key, value, false)
}

func (r *settingsRepository) saveSetting(ctx context.Context, key, value string, backupEligible bool) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		version, found, err := currentVersion(ctx, tx, "settings", "key", key)
		if err != nil {
			return err
		}

		action := models.OutboxActionInsert
		if found {
			action = models.OutboxActionUpdate
		}
		newVersion := version + 1

		query, args, err := builder.
			Insert("settings").
			Columns("key", "value", "version", "backup_eligible").
			Values(key, value, newVersion, backupEligible).
			Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = excluded.version, backup_eligible = excluded.backup_eligible").
			ToSql()
		if err != nil {
			return fmt.Errorf("build settings upsert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Err(err).Str("key", key).Msg("failed to upsert setting")
			return fmt.Errorf("save setting %q: %w", key, err)
		}

		if !backupEligible {
			return nil
		}

		return appendOutboxEntry(ctx, tx, action, models.EntityKey(models.EntityTypeSetting, key), models.EntityTypeSetting, newVersion)
	})
}

func (r *settingsRepository) GetSetting(ctx context.Context, key string) (models.Setting, error) {
	query, args, err := builder.
		Select("key", "value", "version", "backup_eligible").
		From("settings").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return models.Setting{}, fmt.Errorf("build settings query: %w", err)
	}

	var setting models.Setting
	err = r.QueryRowContext(ctx, query, args...).
		Scan(&setting.Key, &setting.Value, &setting.Version, &setting.BackupEligible)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Setting{}, fmt.Errorf("setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		r.logger.Err(err).Str("key", key).Msg("failed to scan setting row")
		return models.Setting{}, fmt.Errorf("get setting %q: %w", key, err)
	}

	return setting, nil
}

func (r *settingsRepository) DeleteSetting(ctx context.Context, key string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var backupEligible bool
		var version int64

		query, args, err := builder.
			Select("version", "backup_eligible").
			From("settings").
			Where(sq.Eq{"key": key}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build settings query: %w", err)
		}
		err = tx.QueryRowContext(ctx, query, args...).Scan(&version, &backupEligible)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("setting %q: %w", key, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("query setting %q: %w", key, err)
		}

		query, args, err = builder.Delete("settings").Where(sq.Eq{"key": key}).ToSql()
		if err != nil {
			return fmt.Errorf("build settings delete: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete setting %q: %w", key, err)
		}

		if !backupEligible {
			return nil
		}

		// The delete is recorded one version above the row it removes so it
		// supersedes any pending insert/update for the same key.
		return appendOutboxEntry(ctx, tx, models.OutboxActionDelete, models.EntityKey(models.EntityTypeSetting, key), models.EntityTypeSetting, version+1)
	})
}
