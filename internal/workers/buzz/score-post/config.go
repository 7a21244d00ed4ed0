// internal/workers/buzz/score-post/config.go
package scorepost

import (
	"time"

	"buzz-workers/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	MaxRetries     int
	DefaultScope   string
	RationaleLimit int
}

func LoadConfig(wcfg config.WorkerConfig, ecfg config.EngineConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	scope := ecfg.DefaultScope
	if scope == "" {
		scope = "global"
	}
	return &Config{
		Timeout:        timeout,
		MaxRetries:     wcfg.MaxRetries,
		DefaultScope:   scope,
		RationaleLimit: 5,
	}
}
