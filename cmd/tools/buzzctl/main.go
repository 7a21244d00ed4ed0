// cmd/tools/buzzctl/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/common/logger"
	"buzz-workers/internal/engine"
	"buzz-workers/internal/engine/weights"
)

type rootOptions struct {
	configFile string
	tableFile  string
	output     string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "buzzctl",
		Short:         "Score posts and manage buzz score models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: configs/config.yaml lookup)")
	root.PersistentFlags().StringVar(&opts.tableFile, "table", "", "engagement weight table YAML (overrides engine.weight_table_path)")
	root.PersistentFlags().StringVar(&opts.output, "output", "text", "output format: json|text")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newScoreCmd(opts))
	root.AddCommand(newCalibrateCmd(opts))
	root.AddCommand(newRescoreCmd(opts))
	root.AddCommand(newWeightsCmd(opts))
	root.AddCommand(newActivitiesCmd(opts))
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadFromFile(o.configFile)
	}
	return config.Load()
}

// newLogger writes to stderr so command output stays machine readable.
func (o *rootOptions) newLogger() logger.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return logger.NewStructured(level, "console")
}

// loadTable prefers --table, then the configured path, then the built-in
// table.
func (o *rootOptions) loadTable(cfg *config.Config) (*weights.Table, error) {
	path := o.tableFile
	if path == "" && cfg != nil {
		path = cfg.Engine.WeightTablePath
	}
	return weights.LoadFile(path)
}

func (o *rootOptions) newEngine(cfg *config.Config) (*engine.Engine, error) {
	table, err := o.loadTable(cfg)
	if err != nil {
		return nil, err
	}
	var eo engine.Options
	if cfg != nil {
		outcome, err := engine.ParseOutcome(cfg.Engine.Outcome)
		if err != nil {
			return nil, fmt.Errorf("engine.outcome: %w", err)
		}
		eo = engine.Options{
			MinSamples:            cfg.Engine.MinSamples,
			SignificanceThreshold: cfg.Engine.SignificanceThreshold,
			BatchConcurrency:      cfg.Engine.BatchConcurrency,
			Outcome:               outcome,
		}
	}
	return engine.New(table, o.newLogger(), eo), nil
}

func (o *rootOptions) writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *rootOptions) jsonOutput() bool { return o.output == "json" }
