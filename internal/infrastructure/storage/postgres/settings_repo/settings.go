// Package settings_repo provides the PostgreSQL key/value settings store.
package settings_repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"tavolo/internal/domain/settings"
	"tavolo/internal/infrastructure/storage/postgres"
)

const settingsTable = "settings"

// Compile-time check that SettingsRepo implements settings.Repository.
var _ settings.Repository = (*SettingsRepo)(nil)

// SettingsRepo implements settings.Repository on a (key, value jsonb) table.
type SettingsRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txm *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the raw value for a key, with found=false when absent.
func (r *SettingsRepo) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	q := r.builder.
		Select("value").
		From(settingsTable).
		Where(squirrel.Eq{"key": key}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build query: %w", err)
	}

	var value json.RawMessage
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&value)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get setting %s: %w", key, err)
	}

	return value, true, nil
}

// Put upserts the value for a key.
func (r *SettingsRepo) Put(ctx context.Context, key string, value json.RawMessage) error {
	q := r.builder.
		Insert(settingsTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	_, err = r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}

	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *SettingsRepo) Delete(ctx context.Context, key string) error {
	q := r.builder.
		Delete(settingsTable).
		Where(squirrel.Eq{"key": key})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	_, err = r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}

	return nil
}
