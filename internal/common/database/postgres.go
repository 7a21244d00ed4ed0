// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"buzz-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresSchema creates the post corpus and calibration tables.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id                  BIGSERIAL PRIMARY KEY,
	account             TEXT        NOT NULL,
	text                TEXT        NOT NULL,
	published_at        TIMESTAMPTZ NOT NULL,
	is_thread           BOOLEAN,
	impressions         BIGINT NOT NULL DEFAULT 0,
	author_replies      BIGINT NOT NULL DEFAULT 0,
	replies             BIGINT NOT NULL DEFAULT 0,
	profile_clicks      BIGINT NOT NULL DEFAULT 0,
	conversation_clicks BIGINT NOT NULL DEFAULT 0,
	bookmarks           BIGINT NOT NULL DEFAULT 0,
	reposts             BIGINT NOT NULL DEFAULT 0,
	likes               BIGINT NOT NULL DEFAULT 0,
	dwells              BIGINT NOT NULL DEFAULT 0,
	negatives           BIGINT NOT NULL DEFAULT 0,
	reports             BIGINT NOT NULL DEFAULT 0,
	UNIQUE (account, published_at)
);

CREATE TABLE IF NOT EXISTS score_history (
	run_id        UUID PRIMARY KEY,
	scope         TEXT        NOT NULL,
	status        TEXT        NOT NULL,
	table_version TEXT        NOT NULL,
	sample_size   INTEGER     NOT NULL,
	correlation   DOUBLE PRECISION NOT NULL,
	low           DOUBLE PRECISION NOT NULL,
	high          DOUBLE PRECISION NOT NULL,
	notes         TEXT,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS score_weights (
	run_id  UUID NOT NULL REFERENCES score_history (run_id) ON DELETE CASCADE,
	bucket  TEXT NOT NULL,
	weight  DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, bucket)
);

CREATE INDEX IF NOT EXISTS score_history_scope_created ON score_history (scope, created_at DESC);
`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	dsn := cfg.GetDSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Migrate applies PostgresSchema. It is idempotent.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// GetDB returns the underlying *sql.DB for compatibility
func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
