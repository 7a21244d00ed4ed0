// Package store reads the historical post corpus and persists calibrated
// weight sets.
package store

import (
	"context"
	"fmt"

	"buzz-workers/internal/common/errors"
	"buzz-workers/internal/common/metrics"
	"buzz-workers/internal/engine/enginerr"
	"buzz-workers/internal/engine/features"
	"buzz-workers/internal/models"
)

// ErrCorruptRecord marks a stored post whose counts cannot be scored.
var ErrCorruptRecord = enginerr.NewConfigurationError("post store", "counts", "negative interaction count")

// PostReader is a read-only view of the post corpus.
type PostReader interface {
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	Driver() string
}

// FilterOptions trims a corpus before calibration.
type FilterOptions struct {
	ExcludeGiveaways bool
	DedupePerAccount bool
	// Rank orders posts of one account when deduplicating. Defaults to the
	// total interaction count.
	Rank func(models.Post) float64
}

// LoadCorpus reads posts through r and applies FilterCorpus.
func LoadCorpus(ctx context.Context, r PostReader, filter models.PostFilter, opts FilterOptions) ([]models.Post, error) {
	posts, err := r.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	metrics.CorpusPostsRead.WithLabelValues(r.Driver()).Add(float64(len(posts)))
	return FilterCorpus(posts, opts), nil
}

// FilterCorpus drops flame and copyright-dispute posts, optionally giveaway
// posts, and optionally keeps only the highest ranked post per account.
// Surviving posts keep their input order.
func FilterCorpus(posts []models.Post, opts FilterOptions) []models.Post {
	kept := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if features.MatchesExclusion(p.Text) {
			continue
		}
		if opts.ExcludeGiveaways && features.MatchesGiveaway(p.Text) {
			continue
		}
		kept = append(kept, p)
	}
	if !opts.DedupePerAccount {
		return kept
	}

	rank := opts.Rank
	if rank == nil {
		rank = totalInteractions
	}

	best := make(map[string]int, len(kept))
	scores := make([]float64, len(kept))
	for i, p := range kept {
		scores[i] = rank(p)
		j, seen := best[p.Account]
		if !seen || scores[i] > scores[j] {
			best[p.Account] = i
		}
	}

	out := make([]models.Post, 0, len(best))
	for i, p := range kept {
		if best[p.Account] == i {
			out = append(out, p)
		}
	}
	return out
}

func totalInteractions(p models.Post) float64 {
	var sum float64
	for _, c := range p.Counts {
		sum += float64(c)
	}
	return sum
}

func checkCounts(p models.Post) error {
	for kind, c := range p.Counts {
		if c < 0 {
			return fmt.Errorf("%w: post %s: %s=%d", ErrCorruptRecord, p.Key(), kind, c)
		}
	}
	if p.Impressions < 0 {
		return fmt.Errorf("%w: post %s: impressions=%d", ErrCorruptRecord, p.Key(), p.Impressions)
	}
	return nil
}

// readError classifies a driver failure as a timeout or a read failure.
func readError(ctx context.Context, driver string, err error) error {
	if ctx.Err() != nil {
		return errors.NewStoreTimeoutError(driver, fmt.Errorf("%w: %v", ctx.Err(), err))
	}
	return errors.NewStoreReadFailedError(driver, err)
}
