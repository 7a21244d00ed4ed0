package store

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"buzz-workers/internal/common/errors"
	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/common/metrics"
	"buzz-workers/internal/engine/scoring"
)

type fakeRepo struct {
	runs    map[string]*CalibrationRun
	err     error
	saveErr error
	saved   []*CalibrationRun
	reads   int
}

func (f *fakeRepo) SaveRun(_ context.Context, run *CalibrationRun) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, run)
	return nil
}

func (f *fakeRepo) LatestRun(_ context.Context, scope string) (*CalibrationRun, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	run, ok := f.runs[scope]
	if !ok {
		return nil, ErrNoRun
	}
	return run, nil
}

type fakeCache struct {
	runs        map[string]*CalibrationRun
	getErr      error
	putErr      error
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{runs: map[string]*CalibrationRun{}}
}

func (f *fakeCache) Get(_ context.Context, scope string) (*CalibrationRun, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	run, ok := f.runs[scope]
	if !ok {
		return nil, ErrCacheMiss
	}
	return run, nil
}

func (f *fakeCache) Put(_ context.Context, run *CalibrationRun) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.runs[run.Scope] = run
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, scope string) error {
	f.invalidated = append(f.invalidated, scope)
	delete(f.runs, scope)
	return nil
}

// ==========================
// Active
// ==========================

func TestModelProvider_ActiveFallsThroughToDatabase(t *testing.T) {
	run := testRun()
	repo := &fakeRepo{runs: map[string]*CalibrationRun{"global": run}}
	cache := newFakeCache()
	p := NewModelProvider(repo, cache, logger.NewTestLogger(t))

	before := testutil.ToFloat64(metrics.ModelLookups.WithLabelValues(metrics.SourceDatabase))
	got, err := p.Active(context.Background(), "global")
	require.NoError(t, err)
	assert.Same(t, run, got)
	assert.Same(t, run, cache.runs["global"], "database hit warms the cache")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ModelLookups.WithLabelValues(metrics.SourceDatabase)))

	got, err = p.Active(context.Background(), "global")
	require.NoError(t, err)
	assert.Same(t, run, got)
	assert.Equal(t, 1, repo.reads, "second lookup served from cache")
}

func TestModelProvider_ActiveDefault(t *testing.T) {
	p := NewModelProvider(&fakeRepo{}, nil, nil)

	got, err := p.Active(context.Background(), "new-account")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got.ID)
	assert.Equal(t, "new-account", got.Scope)
	assert.Equal(t, scoring.StatusDefault, got.WeightSet.Status)
	assert.NoError(t, scoring.Validate(got.WeightSet))
}

func TestModelProvider_CacheErrorsAreNotFatal(t *testing.T) {
	run := testRun()
	repo := &fakeRepo{runs: map[string]*CalibrationRun{"global": run}}
	cache := newFakeCache()
	cache.getErr = errors.NewCacheFailedError(stderrors.New("connection refused"))
	cache.putErr = cache.getErr

	log, logs := logger.NewObservedLogger(zapcore.WarnLevel)
	p := NewModelProvider(repo, cache, log)

	got, err := p.Active(context.Background(), "global")
	require.NoError(t, err)
	assert.Same(t, run, got)
	assert.Equal(t, 1, logs.FilterMessage("weight set cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("weight set cache write failed").Len())
}

func TestModelProvider_DatabaseErrorSurfaces(t *testing.T) {
	repo := &fakeRepo{err: errors.NewModelStoreFailedError(stderrors.New("too many connections"))}
	p := NewModelProvider(repo, newFakeCache(), nil)

	_, err := p.Active(context.Background(), "global")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeModelStoreFailed, errors.Normalize(err).Code)
}

// ==========================
// Save
// ==========================

func TestModelProvider_Save(t *testing.T) {
	repo := &fakeRepo{}
	cache := newFakeCache()
	p := NewModelProvider(repo, cache, nil)

	run := testRun()
	require.NoError(t, p.Save(context.Background(), run))
	require.Len(t, repo.saved, 1)
	assert.Same(t, run, cache.runs["global"])
}

func TestModelProvider_SaveInvalidatesOnCacheFailure(t *testing.T) {
	repo := &fakeRepo{}
	cache := newFakeCache()
	cache.runs["global"] = DefaultRun("global")
	cache.putErr = errors.NewCacheFailedError(stderrors.New("OOM"))
	p := NewModelProvider(repo, cache, nil)

	require.NoError(t, p.Save(context.Background(), testRun()))
	assert.Equal(t, []string{"global"}, cache.invalidated)
	assert.NotContains(t, cache.runs, "global")
}

func TestModelProvider_SaveFailure(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.NewModelStoreFailedError(stderrors.New("deadlock"))}
	cache := newFakeCache()
	p := NewModelProvider(repo, cache, nil)

	assert.Error(t, p.Save(context.Background(), testRun()))
	assert.Empty(t, cache.runs)
}
