package store

import (
	"context"
	stderrors "errors"

	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/common/metrics"
)

type RunRepository interface {
	SaveRun(ctx context.Context, run *CalibrationRun) error
	LatestRun(ctx context.Context, scope string) (*CalibrationRun, error)
}

type RunCache interface {
	Get(ctx context.Context, scope string) (*CalibrationRun, error)
	Put(ctx context.Context, run *CalibrationRun) error
	Invalidate(ctx context.Context, scope string) error
}

// ModelProvider resolves the weight set scoring should use for a scope.
// Cache errors are logged and never fail a lookup.
type ModelProvider struct {
	repo   RunRepository
	cache  RunCache
	logger logger.Logger
}

func NewModelProvider(repo RunRepository, cache RunCache, log logger.Logger) *ModelProvider {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &ModelProvider{repo: repo, cache: cache, logger: logger.Component(log, "model-provider")}
}

// Active returns the cached run, else the latest stored run, else DefaultRun.
func (p *ModelProvider) Active(ctx context.Context, scope string) (*CalibrationRun, error) {
	if p.cache != nil {
		run, err := p.cache.Get(ctx, scope)
		switch {
		case err == nil:
			metrics.ModelLookups.WithLabelValues(metrics.SourceCache).Inc()
			return run, nil
		case !stderrors.Is(err, ErrCacheMiss):
			p.logger.WithError(err).Warn("weight set cache read failed", map[string]interface{}{"scope": scope})
		}
	}

	run, err := p.repo.LatestRun(ctx, scope)
	if stderrors.Is(err, ErrNoRun) {
		metrics.ModelLookups.WithLabelValues(metrics.SourceDefault).Inc()
		return DefaultRun(scope), nil
	}
	if err != nil {
		return nil, err
	}
	metrics.ModelLookups.WithLabelValues(metrics.SourceDatabase).Inc()

	if p.cache != nil {
		if err := p.cache.Put(ctx, run); err != nil {
			p.logger.WithError(err).Warn("weight set cache write failed", map[string]interface{}{"scope": scope})
		}
	}
	return run, nil
}

// Save persists run and makes it the cached run of its scope.
func (p *ModelProvider) Save(ctx context.Context, run *CalibrationRun) error {
	if err := p.repo.SaveRun(ctx, run); err != nil {
		return err
	}
	if p.cache == nil {
		return nil
	}
	if err := p.cache.Put(ctx, run); err != nil {
		p.logger.WithError(err).Warn("weight set cache refresh failed", map[string]interface{}{
			"scope": run.Scope,
			"runId": run.ID.String(),
		})
		if err := p.cache.Invalidate(ctx, run.Scope); err != nil {
			p.logger.WithError(err).Error("stale weight set left in cache", map[string]interface{}{"scope": run.Scope})
		}
	}
	return nil
}
