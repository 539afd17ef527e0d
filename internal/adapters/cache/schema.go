package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres atlas cache schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, `
	CREATE TABLE IF NOT EXISTS atlas_cache (
        source TEXT PRIMARY KEY,
        data BYTEA NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL
    );
	`)
}

// Initialize the SQLite atlas cache schema.
func InitSqliteSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, `
	CREATE TABLE IF NOT EXISTS atlas_cache (
        source TEXT PRIMARY KEY,
        data BLOB NOT NULL,
        fetched_at INTEGER NOT NULL
    );
	`)
}

func initSchema(ctx context.Context, db *sql.DB, statements ...string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
