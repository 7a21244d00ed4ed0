// cmd/tools/buzzctl/calibrate.go
package main

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"buzz-workers/internal/common/database"
	"buzz-workers/internal/engine"
	"buzz-workers/internal/engine/scoring"
	"buzz-workers/internal/store"
)

type weightLine struct {
	Bucket string  `json:"bucket"`
	Weight float64 `json:"weight"`
}

type calibrateResult struct {
	Scope        string         `json:"scope"`
	Outcome      string         `json:"outcome"`
	Status       scoring.Status `json:"status"`
	SampleSize   int            `json:"sampleSize"`
	CorpusSize   int            `json:"corpusSize"`
	Correlation  float64        `json:"correlation"`
	MeanScore    float64        `json:"meanScore"`
	TableVersion string         `json:"tableVersion"`
	TopWeights   []weightLine   `json:"topWeights"`
	RunID        string         `json:"runId,omitempty"`
}

// topWeights returns the n weights furthest from zero, ties by bucket key.
func topWeights(ws *scoring.WeightSet, n int) []weightLine {
	lines := make([]weightLine, 0, len(ws.Weights))
	for bucket, w := range ws.Weights {
		if w == 0 {
			continue
		}
		lines = append(lines, weightLine{Bucket: bucket, Weight: w})
	}
	sort.Slice(lines, func(i, j int) bool {
		ai, aj := math.Abs(lines[i].Weight), math.Abs(lines[j].Weight)
		if ai != aj {
			return ai > aj
		}
		return lines[i].Bucket < lines[j].Bucket
	})
	if n > 0 && len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

func newCalibrateCmd(opts *rootOptions) *cobra.Command {
	var (
		corpus  corpusFlags
		scope   string
		outcome string
		top     int
		save    bool
	)
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate a weight set from the configured post store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if scope == "" {
				scope = cfg.Engine.DefaultScope
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

			eng, err := opts.newEngine(cfg)
			if err != nil {
				return err
			}
			measure := eng.Outcome()
			if outcome != "" {
				if measure, err = engine.ParseOutcome(outcome); err != nil {
					return fmt.Errorf("--outcome: %w", err)
				}
			}
			posts, err := loadCorpus(ctx, cfg, pg, eng, filter, log)
			if err != nil {
				return err
			}

			ws, err := eng.CalibrateFor(posts, measure)
			if err != nil {
				return err
			}
			ev, err := eng.EvaluateFor(ws, posts, measure)
			if err != nil {
				return err
			}

			res := calibrateResult{
				Scope:        scope,
				Outcome:      string(measure),
				Status:       ws.Status,
				SampleSize:   ws.SampleSize,
				CorpusSize:   len(posts),
				Correlation:  ev.Correlation,
				MeanScore:    ev.MeanScore,
				TableVersion: eng.Table().Version(),
				TopWeights:   topWeights(ws, top),
			}

			if save {
				if ws.BelowThreshold() {
					return fmt.Errorf("not saving a %s weight set (%d samples)", ws.Status, ws.SampleSize)
				}
				if err := pg.Migrate(ctx); err != nil {
					return err
				}
				rdb, err := database.NewRedis(cfg.Database.Redis)
				if err != nil {
					return err
				}
				defer rdb.Close()

				provider := store.NewModelProvider(
					store.NewWeightSetRepository(pg.GetDB()),
					store.NewWeightSetCache(rdb.GetClient(), cfg.Engine.CacheTTLDuration()),
					log,
				)
				run := store.NewCalibrationRun(scope, res.TableVersion, ws, ev.Correlation)
				run.Notes = "buzzctl"
				if err := provider.Save(ctx, run); err != nil {
					return err
				}
				res.RunID = run.ID.String()
			}

			if opts.jsonOutput() {
				return opts.writeJSON(cmd.OutOrStdout(), res)
			}
			printCalibration(cmd.OutOrStdout(), res)
			return nil
		},
	}
	corpus.register(cmd)
	cmd.Flags().StringVar(&scope, "scope", "", "scope to label the run with (default engine.default_scope)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "algorithmic_value or engagement_rate (default engine.outcome)")
	cmd.Flags().IntVar(&top, "top", 10, "weights to print (0 = all)")
	cmd.Flags().BoolVar(&save, "save", false, "persist the run and refresh the model cache")
	return cmd
}

func printCalibration(w io.Writer, res calibrateResult) {
	fmt.Fprintf(w, "Scope:        %s\n", res.Scope)
	fmt.Fprintf(w, "Outcome:      %s\n", res.Outcome)
	fmt.Fprintf(w, "Status:       %s\n", res.Status)
	fmt.Fprintf(w, "Samples:      %d of %d posts\n", res.SampleSize, res.CorpusSize)
	fmt.Fprintf(w, "Correlation:  %.3f\n", res.Correlation)
	fmt.Fprintf(w, "Mean score:   %.2f\n", res.MeanScore)
	fmt.Fprintf(w, "Weight table: %s\n", res.TableVersion)
	if res.RunID != "" {
		fmt.Fprintf(w, "Saved run:    %s\n", res.RunID)
	}
	fmt.Fprintln(w, "\nStrongest weights:")
	for _, l := range res.TopWeights {
		fmt.Fprintf(w, "  %-40s %+.3f\n", l.Bucket, l.Weight)
	}
}
