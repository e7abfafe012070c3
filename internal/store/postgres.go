package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// invalidTextRepresentation is the SQLSTATE Postgres raises for malformed jsonb input
const invalidTextRepresentation = "22P02"

type postgresBackend struct {
	pool *pgxpool.Pool
}

func (b *postgresBackend) get(ctx context.Context, key string) (string, error) {
	var value string
	err := b.pool.QueryRow(ctx, `SELECT data_value::text FROM kv_store WHERE data_key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errNoRow
	}
	return value, err
}

func (b *postgresBackend) upsert(ctx context.Context, key, value string) error {
	_, err := b.pool.Exec(ctx, `
		INSERT INTO kv_store (data_key, data_value, updated_at)
		VALUES ($1, $2::jsonb, extract(epoch FROM now())::bigint)
		ON CONFLICT (data_key) DO UPDATE SET
			data_value = excluded.data_value,
			updated_at = excluded.updated_at
	`, key, value)
	return err
}

func (b *postgresBackend) insertIfMissing(ctx context.Context, key, value string) error {
	_, err := b.pool.Exec(ctx, `
		INSERT INTO kv_store (data_key, data_value, updated_at)
		VALUES ($1, $2::jsonb, extract(epoch FROM now())::bigint)
		ON CONFLICT (data_key) DO NOTHING
	`, key, value)
	return err
}

func (b *postgresBackend) validJSON(ctx context.Context, payload string) (bool, error) {
	var ignored string
	err := b.pool.QueryRow(ctx, `SELECT $1::jsonb::text`, payload).Scan(&ignored)
	if err == nil {
		return true, nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return false, nil
	}
	return false, err
}

func (b *postgresBackend) close() error {
	b.pool.Close()
	return nil
}
