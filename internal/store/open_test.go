package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/common/logger"
)

func TestOpenPostReader(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	t.Run("postgres shares the handle", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverPostgres}}
		r, closeFn, err := OpenPostReader(ctx, cfg, db, log)
		require.NoError(t, err)
		assert.Equal(t, config.StoreDriverPostgres, r.Driver())
		assert.NoError(t, closeFn())
	})

	t.Run("postgres without handle", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverPostgres}}
		_, _, err := OpenPostReader(ctx, cfg, nil, log)
		assert.Error(t, err)
	})

	t.Run("sqlite archive", func(t *testing.T) {
		cfg := &config.Config{
			Store:    config.StoreConfig{Driver: config.StoreDriverSQLite},
			Database: config.DatabaseConfig{SQLite: config.SQLiteConfig{Path: ":memory:"}},
		}
		r, closeFn, err := OpenPostReader(ctx, cfg, nil, log)
		require.NoError(t, err)
		assert.Equal(t, config.StoreDriverSQLite, r.Driver())
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite without path", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverSQLite}}
		_, _, err := OpenPostReader(ctx, cfg, nil, log)
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
		_, _, err := OpenPostReader(ctx, cfg, nil, log)
		assert.ErrorContains(t, err, `"mongo"`)
	})
}
