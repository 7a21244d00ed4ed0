// internal/engine/engine.go
// Package engine ties extraction, the engagement weight table, calibration,
// scoring and rationale into one entry point used by workers and the CLI.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/engine/features"
	"buzz-workers/internal/engine/rationale"
	"buzz-workers/internal/engine/scoring"
	"buzz-workers/internal/engine/weights"
	"buzz-workers/internal/models"
)

const DefaultBatchConcurrency = 4

type Options struct {
	MinSamples            int
	SignificanceThreshold float64
	BatchConcurrency      int
	Outcome               Outcome
}

func (o Options) concurrency() int {
	if o.BatchConcurrency <= 0 {
		return DefaultBatchConcurrency
	}
	return o.BatchConcurrency
}

// Engine is safe for concurrent use. The weight table can be swapped while
// scoring is in flight; each call sees one table.
type Engine struct {
	table   atomic.Pointer[weights.Table]
	logger  logger.Logger
	options Options
}

func New(table *weights.Table, log logger.Logger, opts Options) *Engine {
	if table == nil {
		table = weights.Default()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	e := &Engine{
		logger:  logger.Component(log, "engine"),
		options: opts,
	}
	e.table.Store(table)
	return e
}

// Table returns the active engagement weight table.
func (e *Engine) Table() *weights.Table {
	return e.table.Load()
}

// SwapTable installs a new weight table and returns the previous one.
func (e *Engine) SwapTable(t *weights.Table) *weights.Table {
	if t == nil {
		return e.table.Load()
	}
	old := e.table.Swap(t)
	e.logger.Info("engagement weight table swapped", map[string]interface{}{
		"previousVersion": old.Version(),
		"version":         t.Version(),
	})
	return old
}

func (e *Engine) Extract(text string, meta features.Metadata) features.Vector {
	return features.Extract(text, meta)
}

func (e *Engine) AlgorithmicValue(counts models.Counts) (float64, error) {
	return e.Table().AlgorithmicValue(counts)
}

// PostMetadata derives extraction metadata from a stored post.
func PostMetadata(p models.Post) features.Metadata {
	return features.Metadata{
		PublishedAt: p.PublishedAt,
		IsThread:    p.IsThread,
		Account:     p.Account,
	}
}

// Samples converts posts into calibration samples, measuring each outcome
// with the active weight table and the configured outcome.
func (e *Engine) Samples(posts []models.Post) ([]scoring.Sample, error) {
	return e.SamplesFor(posts, e.options.Outcome)
}

// SamplesFor is Samples with an explicit outcome.
func (e *Engine) SamplesFor(posts []models.Post, outcome Outcome) ([]scoring.Sample, error) {
	table := e.Table()
	samples := make([]scoring.Sample, 0, len(posts))
	for _, p := range posts {
		value, err := table.AlgorithmicValue(p.Counts)
		if err != nil {
			return nil, fmt.Errorf("post %s: %w", p.Key(), err)
		}
		samples = append(samples, scoring.Sample{
			Features: features.Extract(p.Text, PostMetadata(p)),
			Outcome:  outcome.measure(value, p),
		})
	}
	return samples, nil
}

// Outcome is the metric Calibrate and Evaluate use by default.
func (e *Engine) Outcome() Outcome {
	return e.options.Outcome.orDefault()
}

// MinSamples is the corpus size below which Calibrate falls back to priors.
func (e *Engine) MinSamples() int {
	if e.options.MinSamples > 0 {
		return e.options.MinSamples
	}
	return scoring.DefaultMinSamples
}

// Calibrate fits a weight set from a post corpus.
func (e *Engine) Calibrate(posts []models.Post) (*scoring.WeightSet, error) {
	return e.CalibrateFor(posts, e.options.Outcome)
}

// CalibrateFor fits a weight set against an explicit outcome.
func (e *Engine) CalibrateFor(posts []models.Post, outcome Outcome) (*scoring.WeightSet, error) {
	samples, err := e.SamplesFor(posts, outcome)
	if err != nil {
		e.logger.WithError(err).Error("calibration rejected corpus", map[string]interface{}{
			"posts": len(posts),
		})
		return nil, err
	}

	ws := scoring.Calibrate(samples, scoring.Options{MinSamples: e.options.MinSamples})

	fields := map[string]interface{}{
		"sampleSize":   ws.SampleSize,
		"status":       string(ws.Status),
		"tableVersion": e.Table().Version(),
		"outcome":      string(outcome.orDefault()),
	}
	if unmeasured := countUnmeasured(samples); unmeasured > 0 {
		fields["unmeasured"] = unmeasured
	}
	if ws.BelowThreshold() {
		e.logger.Warn("calibration fell back to default weights", fields)
	} else {
		e.logger.Info("calibration completed", fields)
	}
	return ws, nil
}

func countUnmeasured(samples []scoring.Sample) int {
	n := 0
	for _, s := range samples {
		if math.IsNaN(s.Outcome) {
			n++
		}
	}
	return n
}

func (e *Engine) Score(ws *scoring.WeightSet, v features.Vector) (*scoring.ScoredPost, error) {
	sp, err := scoring.Score(ws, v)
	if err != nil {
		e.logger.WithError(err).Error("scoring rejected weight set", nil)
		return nil, err
	}
	return sp, nil
}

// ScoreText extracts and scores free text.
func (e *Engine) ScoreText(ws *scoring.WeightSet, text string, meta features.Metadata) (*scoring.ScoredPost, error) {
	sp, err := e.Score(ws, features.Extract(text, meta))
	if err != nil {
		return nil, err
	}
	sp.Text = text
	return sp, nil
}

// ScorePost scores a stored post and attaches its algorithmic value.
func (e *Engine) ScorePost(ws *scoring.WeightSet, p models.Post) (*scoring.ScoredPost, error) {
	value, err := e.AlgorithmicValue(p.Counts)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", p.Key(), err)
	}
	sp, err := e.ScoreText(ws, p.Text, PostMetadata(p))
	if err != nil {
		return nil, err
	}
	post := p
	sp.Post = &post
	sp.AlgorithmicValue = &value
	return sp, nil
}

// Explain applies the engine's significance threshold unless opts sets one.
func (e *Engine) Explain(sp *scoring.ScoredPost, opts rationale.Options) []rationale.Statement {
	if opts.Threshold <= 0 {
		opts.Threshold = e.options.SignificanceThreshold
	}
	return rationale.Collect(sp, opts)
}

// BatchScore scores posts in parallel. Results keep input order. The first
// failure cancels the remaining work.
func (e *Engine) BatchScore(ctx context.Context, ws *scoring.WeightSet, posts []models.Post) ([]*scoring.ScoredPost, error) {
	if err := scoring.Validate(ws); err != nil {
		return nil, err
	}

	out := make([]*scoring.ScoredPost, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.options.concurrency())

	for i, p := range posts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sp, err := e.ScorePost(ws, p)
			if err != nil {
				return err
			}
			out[i] = sp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Debug("batch scored", map[string]interface{}{"posts": len(posts)})
	return out, nil
}

// Evaluate measures how well ws tracks the outcomes of a post corpus.
func (e *Engine) Evaluate(ws *scoring.WeightSet, posts []models.Post) (scoring.Evaluation, error) {
	return e.EvaluateFor(ws, posts, e.options.Outcome)
}

// EvaluateFor is Evaluate against an explicit outcome.
func (e *Engine) EvaluateFor(ws *scoring.WeightSet, posts []models.Post, outcome Outcome) (scoring.Evaluation, error) {
	samples, err := e.SamplesFor(posts, outcome)
	if err != nil {
		return scoring.Evaluation{}, err
	}
	return scoring.Evaluate(ws, samples)
}
