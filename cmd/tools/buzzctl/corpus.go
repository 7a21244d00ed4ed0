// cmd/tools/buzzctl/corpus.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/common/database"
	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/engine"
	"buzz-workers/internal/models"
	"buzz-workers/internal/store"
)

// corpusFlags select the slice of the post store a command works on.
type corpusFlags struct {
	account string
	from    string
	to      string
}

func (f *corpusFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", "", "only posts from this account")
	cmd.Flags().StringVar(&f.from, "from", "", "earliest publish time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "latest publish time (RFC3339 or YYYY-MM-DD)")
}

func (f *corpusFlags) filter() (models.PostFilter, error) {
	filter := models.PostFilter{Account: f.account}
	var err error
	if filter.From, err = parseDay(f.from); err != nil {
		return filter, fmt.Errorf("--from: %w", err)
	}
	if filter.To, err = parseDay(f.to); err != nil {
		return filter, fmt.Errorf("--to: %w", err)
	}
	return filter, nil
}

// parseDay accepts RFC3339 or a bare date.
func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

// loadCorpus reads the filtered corpus from the configured store, applying
// the store's hygiene options and ranking duplicates by algorithmic value.
func loadCorpus(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, eng *engine.Engine, filter models.PostFilter, log logger.Logger) ([]models.Post, error) {
	reader, closeReader, err := store.OpenPostReader(ctx, cfg, pg.GetDB(), log)
	if err != nil {
		return nil, err
	}
	defer closeReader()

	return store.LoadCorpus(ctx, reader, filter, store.FilterOptions{
		ExcludeGiveaways: cfg.Store.ExcludeGiveaways,
		DedupePerAccount: cfg.Store.DedupePerAccount,
		Rank: func(p models.Post) float64 {
			v, _ := eng.AlgorithmicValue(p.Counts)
			return v
		},
	})
}
