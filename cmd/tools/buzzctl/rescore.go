// cmd/tools/buzzctl/rescore.go
package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"buzz-workers/internal/common/database"
	"buzz-workers/internal/engine/scoring"
	"buzz-workers/internal/store"
)

type rescoredPost struct {
	Key              string  `json:"key"`
	Score            float64 `json:"score"`
	AlgorithmicValue float64 `json:"algorithmicValue"`
	Text             string  `json:"text"`
}

type rescoreResult struct {
	Scope       string         `json:"scope,omitempty"`
	RunID       string         `json:"runId,omitempty"`
	ModelStatus scoring.Status `json:"modelStatus"`
	Posts       int            `json:"posts"`
	Correlation float64        `json:"correlation"`
	MeanScore   float64        `json:"meanScore"`
	Top         []rescoredPost `json:"top"`
}

// rankScored orders scored posts by score, highest first, ties by post key.
func rankScored(scored []*scoring.ScoredPost, n int) []rescoredPost {
	lines := make([]rescoredPost, 0, len(scored))
	for _, sp := range scored {
		line := rescoredPost{Score: sp.Score, Text: clip(sp.Text, 60)}
		if sp.Post != nil {
			line.Key = sp.Post.Key()
		}
		if sp.AlgorithmicValue != nil {
			line.AlgorithmicValue = *sp.AlgorithmicValue
		}
		lines = append(lines, line)
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Score != lines[j].Score {
			return lines[i].Score > lines[j].Score
		}
		return lines[i].Key < lines[j].Key
	})
	if n > 0 && len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func newRescoreCmd(opts *rootOptions) *cobra.Command {
	var (
		corpus corpusFlags
		scope  string
		top    int
	)
	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Score every stored post with the active model",
		Long: "Score the configured post store with the built-in prior model, or with the\n" +
			"latest calibrated model of --scope, and list the highest scoring posts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			filter, err := corpus.filter()
			if err != nil {
				return err
			}

			log := opts.newLogger()
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			run := store.DefaultRun(scope)
			if scope != "" {
				if run, err = latestRun(ctx, cfg.Database.Postgres, scope); err != nil {
					return err
				}
			}

			eng, err := opts.newEngine(cfg)
			if err != nil {
				return err
			}
			posts, err := loadCorpus(ctx, cfg, pg, eng, filter, log)
			if err != nil {
				return err
			}
			scored, err := eng.BatchScore(ctx, run.WeightSet, posts)
			if err != nil {
				return err
			}
			ev, err := eng.Evaluate(run.WeightSet, posts)
			if err != nil {
				return err
			}

			res := rescoreResult{
				Scope:       scope,
				ModelStatus: run.WeightSet.Status,
				Posts:       len(scored),
				Correlation: ev.Correlation,
				MeanScore:   ev.MeanScore,
				Top:         rankScored(scored, top),
			}
			if run.ID != uuid.Nil {
				res.RunID = run.ID.String()
			}
			if opts.jsonOutput() {
				return opts.writeJSON(cmd.OutOrStdout(), res)
			}
			printRescore(cmd.OutOrStdout(), res)
			return nil
		},
	}
	corpus.register(cmd)
	cmd.Flags().StringVar(&scope, "scope", "", "score with the latest calibrated model of this scope")
	cmd.Flags().IntVar(&top, "top", 10, "posts to list (0 = all)")
	return cmd
}

func printRescore(w io.Writer, res rescoreResult) {
	fmt.Fprintf(w, "Model:        %s\n", res.ModelStatus)
	if res.RunID != "" {
		fmt.Fprintf(w, "Run:          %s\n", res.RunID)
	}
	fmt.Fprintf(w, "Posts:        %d\n", res.Posts)
	fmt.Fprintf(w, "Correlation:  %.3f\n", res.Correlation)
	fmt.Fprintf(w, "Mean score:   %.2f\n", res.MeanScore)
	fmt.Fprintln(w, "\nTop posts:")
	for _, p := range res.Top {
		fmt.Fprintf(w, "  %6.2f  %10.1f  %-28s %s\n", p.Score, p.AlgorithmicValue, p.Key, p.Text)
	}
}
