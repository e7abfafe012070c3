package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// ErrUnknownKey is returned when a data key is not part of the fixed key set
var ErrUnknownKey = errors.New("unknown key")

// ErrInvalidPayload is returned when a payload is not valid JSON
var ErrInvalidPayload = errors.New("invalid json payload")

// ErrMalformedDocument is returned when a stored document is valid JSON but
// not the shape its key holds
var ErrMalformedDocument = errors.New("malformed document")

// DefaultDBPath is the SQLite file used when nothing else is configured
const DefaultDBPath = "fricu_server.db"

// Open opens the SQLite database at dbPath, creating it if necessary,
// and seeds every data key with its default value.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s := newStore(&sqliteBackend{db: db})
	if err := s.seed(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding keys: %w", err)
	}
	return s, nil
}

// OpenPostgres connects to Postgres and prepares the kv_store table
func OpenPostgres(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := migratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s := newStore(&postgresBackend{pool: pool})
	if err := s.seed(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("seeding keys: %w", err)
	}
	return s, nil
}

// Connect opens Postgres when a database URL is given and SQLite otherwise
func Connect(ctx context.Context, dbPath, databaseURL string) (*Store, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return OpenPostgres(ctx, databaseURL)
	}
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	return Open(dbPath)
}
