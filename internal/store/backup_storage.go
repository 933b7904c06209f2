// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/btcpayserver/app-sub001/internal/logger"
	"github.com/btcpayserver/app-sub001/models"
)

type backupStorage struct {
	*DB
	logger *logger.Logger
}

// NewBackupStorage constructs the sqlite-backed [BackupStorage] facade used
// by the sync engine.
func NewBackupStorage(db *DB, logger *logger.Logger) BackupStorage {
	return &backupStorage{
		DB:     db,
		logger: logger,
	}
}

// LocalKeyVersions implements [BackupStorage].
func (b *backupStorage) LocalKeyVersions(ctx context.Context) ([]models.KeyVersion, error) {
	var result []models.KeyVersion

	listings := []struct {
		table      string
		keyColumn  string
		entityType models.EntityType
		where      sq.Sqlizer
	}{
		{"settings", "key", models.EntityTypeSetting, sq.Eq{"backup_eligible": true}},
		{"channels", "id", models.EntityTypeChannel, nil},
		{"payments", "payment_id", models.EntityTypePayment, nil},
	}

	for _, l := range listings {
		q := builder.Select(l.keyColumn, "version").From(l.table)
		if l.where != nil {
			q = q.Where(l.where)
		}
		query, args, err := q.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build %s listing: %w", l.table, err)
		}

		rows, err := b.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("list %s versions: %w", l.table, err)
		}

		for rows.Next() {
			var id string
			var version int64
			if err = rows.Scan(&id, &version); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s listing row: %w", l.table, err)
			}
			result = append(result, models.KeyVersion{
				Key:     models.EntityKey(l.entityType, id),
				Version: version,
			})
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterate %s listing rows: %w", l.table, err)
		}
	}

	return result, nil
}

// EntityPayload implements [BackupStorage]. The payload is the JSON encoding
// of the models type, which is also what pulls unmarshal on the other side.
func (b *backupStorage) EntityPayload(ctx context.Context, entityKey string) ([]byte, error) {
	entityType, id, err := models.SplitEntityKey(entityKey)
	if err != nil {
		return nil, err
	}

	switch entityType {
	case models.EntityTypeSetting:
		setting, err := NewSettingsRepository(b.DB, b.logger).GetSetting(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(setting)

	case models.EntityTypeChannel:
		channel, err := NewChannelsRepository(b.DB, b.logger).GetChannel(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(channel)

	case models.EntityTypePayment:
		payment, err := NewPaymentsRepository(b.DB, b.logger).GetPayment(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(payment)

	default:
		return nil, fmt.Errorf("unknown entity type in key %q", entityKey)
	}
}

// ApplyRemote implements [BackupStorage]. All writes happen in one
// transaction and none of them touch the outbox, so remote-origin state is
// never re-queued for push.
func (b *backupStorage) ApplyRemote(ctx context.Context, upserts []models.VSSItem, deleteKeys []string) error {
	if len(upserts) == 0 && len(deleteKeys) == 0 {
		return nil
	}

	return b.withTx(ctx, func(tx *sql.Tx) error {
		for _, key := range deleteKeys {
			if err := deleteEntityRow(ctx, tx, key); err != nil {
				return err
			}
		}

		for _, item := range upserts {
			if err := upsertEntityRow(ctx, tx, item); err != nil {
				return err
			}
		}

		return nil
	})
}

func deleteEntityRow(ctx context.Context, tx *sql.Tx, entityKey string) error {
	entityType, id, err := models.SplitEntityKey(entityKey)
	if err != nil {
		return err
	}

	table, keyColumn := tableFor(entityType)
	query, args, err := builder.Delete(table).Where(sq.Eq{keyColumn: id}).ToSql()
	if err != nil {
		return fmt.Errorf("build %s delete: %w", table, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s %q: %w", table, id, err)
	}

	return nil
}

func upsertEntityRow(ctx context.Context, tx *sql.Tx, item models.VSSItem) error {
	entityType, id, err := models.SplitEntityKey(item.Key)
	if err != nil {
		return err
	}

	// A pull must never regress a key below what is stored locally.
	table, keyColumn := tableFor(entityType)
	localVersion, found, err := currentVersion(ctx, tx, table, keyColumn, id)
	if err != nil {
		return err
	}
	if found && localVersion >= item.Version {
		return nil
	}

	switch entityType {
	case models.EntityTypeSetting:
		var setting models.Setting
		if err = json.Unmarshal(item.Value, &setting); err != nil {
			return fmt.Errorf("decode remote setting %q: %w", item.Key, err)
		}
		query, args, err := builder.
			Insert("settings").
			Columns("key", "value", "version", "backup_eligible").
			Values(id, setting.Value, item.Version, true).
			Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = excluded.version, backup_eligible = excluded.backup_eligible").
			ToSql()
		if err != nil {
			return fmt.Errorf("build settings upsert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("apply remote setting %q: %w", item.Key, err)
		}

	case models.EntityTypeChannel:
		var channel models.Channel
		if err = json.Unmarshal(item.Value, &channel); err != nil {
			return fmt.Errorf("decode remote channel %q: %w", item.Key, err)
		}
		query, args, err := builder.
			Insert("channels").
			Columns("id", "data", "version").
			Values(id, channel.Data, item.Version).
			Suffix("ON CONFLICT(id) DO UPDATE SET data = excluded.data, version = excluded.version").
			ToSql()
		if err != nil {
			return fmt.Errorf("build channels upsert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("apply remote channel %q: %w", item.Key, err)
		}
		if err = replaceChannelAliases(ctx, tx, id, channel.Aliases); err != nil {
			return err
		}

	case models.EntityTypePayment:
		var payment models.Payment
		if err = json.Unmarshal(item.Value, &payment); err != nil {
			return fmt.Errorf("decode remote payment %q: %w", item.Key, err)
		}
		query, args, err := builder.
			Insert("payments").
			Columns("payment_id", "data", "version").
			Values(id, payment.Data, item.Version).
			Suffix("ON CONFLICT(payment_id) DO UPDATE SET data = excluded.data, version = excluded.version").
			ToSql()
		if err != nil {
			return fmt.Errorf("build payments upsert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("apply remote payment %q: %w", item.Key, err)
		}

	default:
		return fmt.Errorf("unknown entity type in key %q", item.Key)
	}

	return nil
}

func tableFor(entityType models.EntityType) (table, keyColumn string) {
	switch entityType {
	case models.EntityTypeSetting:
		return "settings", "key"
	case models.EntityTypeChannel:
		return "channels", "id"
	default:
		return "payments", "payment_id"
	}
}
