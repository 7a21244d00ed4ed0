package database

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzz-workers/internal/common/config"
)

type stubTransport struct {
	status int
	calls  int
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: s.status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(`{}`)),
		Request:    req,
	}, nil
}

func TestSQLite_MigrateInMemory(t *testing.T) {
	client, err := NewSQLite(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))
	require.NoError(t, client.Migrate(ctx))
	require.NoError(t, client.Migrate(ctx), "migrate is idempotent")

	_, err = client.DB.ExecContext(ctx,
		`INSERT INTO posts (account, text, likes, date) VALUES (?, ?, ?, ?)`,
		"founder", "hello", 3, "2026-01-02 20:15")
	require.NoError(t, err)

	var n int
	require.NoError(t, client.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLite_EmptyPath(t *testing.T) {
	_, err := NewSQLite(config.SQLiteConfig{})
	assert.Error(t, err)
}

func TestPostgres_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	client := &PostgresClient{DB: db}
	defer client.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS posts").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, client.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	assert.Equal(t, uint32(0), client.PoolStats().Timeouts)

	addr := mr.Addr()
	mr.Close()
	err = client.Ping(context.Background())
	assert.ErrorContains(t, err, addr)
}

func TestRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestElasticsearch_Ping(t *testing.T) {
	ctx := context.Background()
	ok := &stubTransport{status: http.StatusOK}
	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: "http://es.local:9200"}, WithTransport(ok))
	require.NoError(t, err)
	assert.NoError(t, client.Ping(ctx))
	assert.Equal(t, 1, ok.calls)

	down := &stubTransport{status: http.StatusServiceUnavailable}
	client, err = NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{"http://es.local:9200"}}, WithTransport(down))
	require.NoError(t, err)
	assert.ErrorContains(t, client.Ping(ctx), "es.local")
	assert.Greater(t, down.calls, 1, "503 is retried")
}

func TestElasticsearch_RequiresAddress(t *testing.T) {
	_, err := NewElasticsearch(config.ElasticsearchConfig{})
	assert.Error(t, err)
}

func TestElasticsearch_IndexExists(t *testing.T) {
	ctx := context.Background()
	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: "http://es.local:9200"}, WithTransport(&stubTransport{status: http.StatusOK}))
	require.NoError(t, err)
	assert.NoError(t, client.IndexExists(ctx, "posts"))

	client, err = NewElasticsearch(config.ElasticsearchConfig{URL: "http://es.local:9200"}, WithTransport(&stubTransport{status: http.StatusNotFound}))
	require.NoError(t, err)
	assert.ErrorContains(t, client.IndexExists(ctx, "postz"), "does not exist")
}
