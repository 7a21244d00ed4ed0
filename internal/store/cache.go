package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"buzz-workers/internal/common/errors"
)

// ErrCacheMiss is returned by WeightSetCache.Get when nothing is cached.
var ErrCacheMiss = stderrors.New("weight set cache miss")

const cacheKeyPrefix = "buzz:weightset:"

// WeightSetCache keeps the active calibration run of each scope in redis.
type WeightSetCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWeightSetCache(client *redis.Client, ttl time.Duration) *WeightSetCache {
	return &WeightSetCache{client: client, ttl: ttl}
}

func cacheKey(scope string) string {
	return cacheKeyPrefix + scope
}

func (c *WeightSetCache) Get(ctx context.Context, scope string) (*CalibrationRun, error) {
	data, err := c.client.Get(ctx, cacheKey(scope)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.NewCacheFailedError(fmt.Errorf("get %s: %w", scope, err))
	}

	var run CalibrationRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.NewCacheFailedError(fmt.Errorf("decode %s: %w", scope, err))
	}
	if run.WeightSet == nil {
		return nil, ErrCacheMiss
	}
	return &run, nil
}

func (c *WeightSetCache) Put(ctx context.Context, run *CalibrationRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return errors.NewCacheFailedError(fmt.Errorf("encode %s: %w", run.Scope, err))
	}
	if err := c.client.Set(ctx, cacheKey(run.Scope), data, c.ttl).Err(); err != nil {
		return errors.NewCacheFailedError(fmt.Errorf("set %s: %w", run.Scope, err))
	}
	return nil
}

func (c *WeightSetCache) Invalidate(ctx context.Context, scope string) error {
	if err := c.client.Del(ctx, cacheKey(scope)).Err(); err != nil {
		return errors.NewCacheFailedError(fmt.Errorf("del %s: %w", scope, err))
	}
	return nil
}
