package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const baseYAML = `
app:
  name: buzz-workers
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    port: 5432
    database: buzz
    user: ${BUZZ_TEST_DB_USER}
  redis:
    address: localhost:6379
workers:
  calibrate-score-model:
    enabled: false
`

const sqliteYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: buzz
    user: scorer
  sqlite:
    path: %s
  redis:
    address: localhost:6379
store:
  driver: sqlite
  exclude_giveaways: true
  dedupe_per_account: true
engine:
  min_samples: 25
  cache_ttl: 60
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Loading
// ==========================

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("BUZZ_TEST_DB_USER", "scorer")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "scorer", cfg.Database.Postgres.User)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 10, cfg.Engine.MinSamples)
	assert.Equal(t, 0.5, cfg.Engine.SignificanceThreshold)
	assert.Equal(t, 4, cfg.Engine.BatchConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.Engine.CacheTTLDuration())
	assert.Equal(t, "global", cfg.Engine.DefaultScope)
	assert.Equal(t, OutcomeAlgorithmicValue, cfg.Engine.Outcome)
	assert.Equal(t, "posts", cfg.Database.Elasticsearch.PostsIndex)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, ":9090", cfg.Metrics.Address)

	assert.False(t, IsWorkerEnabled(cfg, "calibrate-score-model"))
	assert.True(t, IsWorkerEnabled(cfg, "score-post"))
	assert.Equal(t, 3, GetWorkerConfig(cfg, "calibrate-score-model").MaxRetries)
	assert.Equal(t, 10, GetWorkerConfig(cfg, "score-post").MaxJobsActive)
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "calibrate-score-model").Timeout)
	assert.Equal(t, 10, cfg.Database.Redis.PoolSize)
	assert.Equal(t, 500, cfg.Database.Redis.TimeoutMs)
}

func TestLoadFromFile_SQLiteDriver(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, fmt.Sprintf(sqliteYAML, "/var/lib/buzz/posts.db")))
	require.NoError(t, err)

	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/buzz/posts.db", cfg.Database.SQLite.Path)
	assert.True(t, cfg.Store.ExcludeGiveaways)
	assert.True(t, cfg.Store.DedupePerAccount)
	assert.Equal(t, 25, cfg.Engine.MinSamples)
	assert.Equal(t, time.Minute, cfg.Engine.CacheTTLDuration())
}

func TestLoadFromFile_SQLiteRequiresPath(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, fmt.Sprintf(sqliteYAML, `""`)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.sqlite.path")
}

func TestLoadFromFile_Validation(t *testing.T) {
	t.Setenv("BUZZ_TEST_DB_USER", "scorer")

	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{
			name:    "unknown driver",
			extra:   "store:\n  driver: mongo\n",
			wantErr: "store.driver",
		},
		{
			name:    "sns without topic",
			extra:   "notifications:\n  sns:\n    enabled: true\n",
			wantErr: "topic_arn",
		},
		{
			name:    "negative threshold",
			extra:   "engine:\n  significance_threshold: -1\n",
			wantErr: "significance_threshold",
		},
		{
			name:    "unknown outcome",
			extra:   "engine:\n  outcome: clicks\n",
			wantErr: "engine.outcome",
		},
		{
			name:    "elasticsearch without address",
			extra:   "store:\n  driver: elasticsearch\n",
			wantErr: "elasticsearch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, baseYAML+tt.extra))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
