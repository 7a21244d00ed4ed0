// internal/workers/buzz/calibrate-score-model/config.go
package calibratescoremodel

import (
	"time"

	"buzz-workers/internal/common/config"
)

type Config struct {
	Timeout          time.Duration
	MaxRetries       int
	DefaultScope     string
	ExcludeGiveaways bool
	DedupePerAccount bool
}

func LoadConfig(wcfg config.WorkerConfig, cfg *config.Config) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	scope := cfg.Engine.DefaultScope
	if scope == "" {
		scope = "global"
	}
	return &Config{
		Timeout:          timeout,
		MaxRetries:       wcfg.MaxRetries,
		DefaultScope:     scope,
		ExcludeGiveaways: cfg.Store.ExcludeGiveaways,
		DedupePerAccount: cfg.Store.DedupePerAccount,
	}
}
