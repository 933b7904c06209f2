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

type paymentsRepository struct {
	*DB
	logger *logger.Logger
}

// NewPaymentsRepository constructs the sqlite-backed [PaymentsRepository].
func NewPaymentsRepository(db *DB, logger *logger.Logger) PaymentsRepository {
	return &paymentsRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *paymentsRepository) SavePayment(ctx context.Context, payment models.Payment) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		version, found, err := currentVersion(ctx, tx, "payments", "payment_id", payment.PaymentID)
		if err != nil {
			return err
		}

		action := models.OutboxActionInsert
		if found {
			action = models.OutboxActionUpdate
		}
		newVersion := version + 1

		query, args, err := builder.
			Insert("payments").
			Columns("payment_id", "data", "version").
			Values(payment.PaymentID, payment.Data, newVersion).
			Suffix("ON CONFLICT(payment_id) DO UPDATE SET data = excluded.data, version = excluded.version").
			ToSql()
		if err != nil {
			return fmt.Errorf("build payments upsert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Err(err).Str("payment_id", payment.PaymentID).Msg("failed to upsert payment")
			return fmt.Errorf("save payment %q: %w", payment.PaymentID, err)
		}

		return appendOutboxEntry(ctx, tx, action, payment.EntityKey(), models.EntityTypePayment, newVersion)
	})
}

func (r *paymentsRepository) GetPayment(ctx context.Context, paymentID string) (models.Payment, error) {
	query, args, err := builder.
		Select("payment_id", "data", "version").
		From("payments").
		Where(sq.Eq{"payment_id": paymentID}).
		ToSql()
	if err != nil {
		return models.Payment{}, fmt.Errorf("build payments query: %w", err)
	}

	var payment models.Payment
	err = r.QueryRowContext(ctx, query, args...).
		Scan(&payment.PaymentID, &payment.Data, &payment.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, fmt.Errorf("payment %q: %w", paymentID, ErrNotFound)
	}
	if err != nil {
		r.logger.Err(err).Str("payment_id", paymentID).Msg("failed to scan payment row")
		return models.Payment{}, fmt.Errorf("get payment %q: %w", paymentID, err)
	}

	return payment, nil
}
