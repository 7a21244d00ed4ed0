// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"buzz-workers/internal/common/config"
)

// RedisClient holds the connection behind the weight set cache. Cache reads
// sit on the scoring path, so command timeouts stay short.
type RedisClient struct {
	Client *redis.Client
	addr   string
}

// NewRedis builds a pooled client. It does not dial.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     poolSize,
		MinIdleConns: max(1, poolSize/4),
	})
	return &RedisClient{Client: rdb, addr: cfg.Address}, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: ping: %w", c.addr, err)
	}
	return nil
}

// PoolStats reports connection pool usage for the readiness probe.
func (c *RedisClient) PoolStats() *redis.PoolStats {
	return c.Client.PoolStats()
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// GetClient returns the underlying go-redis client.
func (c *RedisClient) GetClient() *redis.Client {
	return c.Client
}
