package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/common/database"
	"buzz-workers/internal/common/logger"
)

// OpenPostReader connects the post reader selected by cfg.Store.Driver. The
// postgres reader shares pg; the returned close func releases anything the
// reader opened on its own.
func OpenPostReader(ctx context.Context, cfg *config.Config, pg *sql.DB, log logger.Logger) (PostReader, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if pg == nil {
			return nil, nil, fmt.Errorf("postgres post store needs a database handle")
		}
		return NewPostgresPostStore(pg), noop, nil

	case config.StoreDriverSQLite:
		client, err := database.NewSQLite(cfg.Database.SQLite)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
		return NewSQLitePostStore(client.DB, time.UTC, log), client.Close, nil

	case config.StoreDriverElasticsearch:
		client, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, nil, err
		}
		index := cfg.Database.Elasticsearch.PostsIndex
		if err := client.Ping(ctx); err != nil {
			return nil, nil, err
		}
		if err := client.IndexExists(ctx, index); err != nil {
			return nil, nil, err
		}
		return NewElasticsearchPostStore(client.Client, index), noop, nil
	}
	return nil, nil, fmt.Errorf("store driver %q is not supported", cfg.Store.Driver)
}
