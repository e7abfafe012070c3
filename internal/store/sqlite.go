package store

import (
	"context"
	"database/sql"
	"errors"
)

type sqliteBackend struct {
	db *sql.DB
}

func (b *sqliteBackend) get(ctx context.Context, key string) (string, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT data_value FROM kv_store WHERE data_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errNoRow
	}
	return value, err
}

func (b *sqliteBackend) upsert(ctx context.Context, key, value string) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv_store (data_key, data_value, updated_at)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT(data_key) DO UPDATE SET
			data_value = excluded.data_value,
			updated_at = excluded.updated_at
	`, key, value)
	return err
}

func (b *sqliteBackend) insertIfMissing(ctx context.Context, key, value string) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO kv_store (data_key, data_value, updated_at)
		VALUES (?, ?, strftime('%s', 'now'))
	`, key, value)
	return err
}

func (b *sqliteBackend) validJSON(ctx context.Context, payload string) (bool, error) {
	var ok int
	if err := b.db.QueryRowContext(ctx, `SELECT json_valid(?)`, payload).Scan(&ok); err != nil {
		return false, err
	}
	return ok == 1, nil
}

func (b *sqliteBackend) close() error {
	return b.db.Close()
}
