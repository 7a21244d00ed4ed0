// cmd/tools/buzzctl/score.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/common/database"
	"buzz-workers/internal/engine/features"
	"buzz-workers/internal/engine/rationale"
	"buzz-workers/internal/engine/scoring"
	"buzz-workers/internal/store"
)

type scoreResult struct {
	Score         float64                `json:"score"`
	Baseline      float64                `json:"baseline"`
	ModelStatus   scoring.Status         `json:"modelStatus"`
	Scope         string                 `json:"scope,omitempty"`
	Contributions []scoring.Contribution `json:"contributions"`
	Rationale     []rationale.Statement  `json:"rationale"`
	Features      []features.Entry       `json:"features,omitempty"`
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var (
		text      string
		hour      int
		thread    bool
		published string
		account   string
		scope     string
		limit     int
		showAll   bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a draft post and explain the result",
		Long: "Score a draft post with the built-in prior model, or with the latest calibrated\n" +
			"model of --scope read from the configured postgres database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta := features.Metadata{Account: account}
			if cmd.Flags().Changed("hour") {
				meta.PostHour = &hour
			}
			if cmd.Flags().Changed("thread") {
				meta.IsThread = &thread
			}
			if published != "" {
				t, err := time.Parse(time.RFC3339, published)
				if err != nil {
					return fmt.Errorf("--published: %w", err)
				}
				meta.PublishedAt = t
			}

			ws := scoring.DefaultWeightSet(scoring.StatusDefault, 0)
			cfg, _ := opts.loadConfig()
			if scope != "" {
				if cfg == nil {
					return fmt.Errorf("--scope needs a readable config")
				}
				run, err := latestRun(cmd.Context(), cfg.Database.Postgres, scope)
				if err != nil {
					return err
				}
				ws = run.WeightSet
			}

			eng, err := opts.newEngine(cfg)
			if err != nil {
				return err
			}
			sp, err := eng.ScoreText(ws, text, meta)
			if err != nil {
				return err
			}

			res := scoreResult{
				Score:         sp.Score,
				Baseline:      sp.Baseline,
				ModelStatus:   sp.ModelStatus,
				Scope:         scope,
				Contributions: sp.Contributions,
				Rationale:     eng.Explain(sp, rationale.Options{Limit: limit}),
			}
			if showAll {
				res.Features = sp.Features.Entries()
			}
			if opts.jsonOutput() {
				return opts.writeJSON(cmd.OutOrStdout(), res)
			}
			printScore(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "post text")
	cmd.Flags().IntVar(&hour, "hour", 0, "posting hour 0-23")
	cmd.Flags().BoolVar(&thread, "thread", false, "post is part of a thread")
	cmd.Flags().StringVar(&published, "published", "", "publish time (RFC3339)")
	cmd.Flags().StringVar(&account, "account", "", "posting account")
	cmd.Flags().StringVar(&scope, "scope", "", "score with the latest calibrated model of this scope")
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum rationale lines (0 = all)")
	cmd.Flags().BoolVar(&showAll, "features", false, "include every extracted feature")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func latestRun(ctx context.Context, pgCfg config.PostgresConfig, scope string) (*store.CalibrationRun, error) {
	pg, err := database.NewPostgres(pgCfg)
	if err != nil {
		return nil, err
	}
	defer pg.Close()
	run, err := store.NewWeightSetRepository(pg.GetDB()).LatestRun(ctx, scope)
	if errors.Is(err, store.ErrNoRun) {
		return store.DefaultRun(scope), nil
	}
	return run, err
}

func printScore(w io.Writer, res scoreResult) {
	fmt.Fprintf(w, "Score:    %6.2f / %.0f\n", res.Score, scoring.MaxScore)
	fmt.Fprintf(w, "Baseline: %6.2f\n", res.Baseline)
	fmt.Fprintf(w, "Model:    %s\n", res.ModelStatus)
	if res.Scope != "" {
		fmt.Fprintf(w, "Scope:    %s\n", res.Scope)
	}
	fmt.Fprintln(w, "\nWhy:")
	for _, s := range res.Rationale {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	if len(res.Features) > 0 {
		fmt.Fprintln(w, "\nFeatures:")
		for _, e := range res.Features {
			fmt.Fprintf(w, "  %-28s %s\n", e.Name, e.Value)
		}
	}
}
