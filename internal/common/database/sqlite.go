// internal/common/database/sqlite.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"buzz-workers/internal/common/config"

	_ "modernc.org/sqlite"
)

// SQLiteSchema is the layout of the collector's local post archive. Dates
// are free-form text as exported from the platform's CSV.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	account     TEXT,
	text        TEXT,
	likes       INTEGER DEFAULT 0,
	retweets    INTEGER DEFAULT 0,
	replies     INTEGER DEFAULT 0,
	impressions INTEGER DEFAULT 0,
	date        TEXT,
	source_file TEXT,
	added_at    TEXT
);
`

// SQLiteClient wraps a modernc sqlite connection.
type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLite opens the archive at cfg.Path. ":memory:" is accepted.
func NewSQLite(cfg config.SQLiteConfig) (*SQLiteClient, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One writer; an in-memory database also needs a single connection to persist.
	db.SetMaxOpenConns(1)
	return &SQLiteClient{DB: db}, nil
}

func (c *SQLiteClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Migrate applies SQLiteSchema.
func (c *SQLiteClient) Migrate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, SQLiteSchema); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
