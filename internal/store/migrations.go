package store

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrate runs all SQLite migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// One JSON document per data key, as synced by the app
		`CREATE TABLE IF NOT EXISTS kv_store (
			data_key TEXT PRIMARY KEY,
			data_value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// migratePostgres runs all Postgres migrations
func migratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv_store (
			data_key TEXT PRIMARY KEY,
			data_value JSONB NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m); err != nil {
			return err
		}
	}

	return nil
}
