// cmd/tools/buzzctl/weights.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/engine/weights"
	"buzz-workers/internal/models"
)

type weightsResult struct {
	Version string                             `json:"version"`
	Weights map[models.InteractionKind]float64 `json:"weights"`
}

func newWeightsCmd(opts *rootOptions) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Print the active engagement weight table",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without --table an unreadable config falls back to the built-in table.
			var cfg *config.Config
			if opts.tableFile == "" {
				cfg, _ = opts.loadConfig()
			}
			table, err := opts.loadTable(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case asYAML:
				data, err := weights.Marshal(table)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case opts.jsonOutput():
				return opts.writeJSON(out, weightsResult{Version: table.Version(), Weights: table.Weights()})
			}
			printTable(out, table)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as a loadable YAML table")
	return cmd
}

func printTable(w io.Writer, t *weights.Table) {
	fmt.Fprintf(w, "Weight table %s\n", t.Version())
	for _, kind := range t.Kinds() {
		weight, _ := t.Weight(kind)
		fmt.Fprintf(w, "  %-20s %8.1f\n", kind, weight)
	}
	if missing := unweighted(t); len(missing) > 0 {
		fmt.Fprintf(w, "Not weighted: %v\n", missing)
	}
}

// unweighted lists the known interaction kinds the table ignores.
func unweighted(t *weights.Table) []models.InteractionKind {
	var missing []models.InteractionKind
	for _, kind := range models.AllInteractionKinds() {
		if _, ok := t.Weight(kind); !ok {
			missing = append(missing, kind)
		}
	}
	return missing
}
