// internal/workers/buzz/extract-post-features/config.go
package extractpostfeatures

import (
	"time"

	"buzz-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		Timeout:    timeout,
		MaxRetries: wcfg.MaxRetries,
	}
}
