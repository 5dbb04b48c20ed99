// internal/workers/tournament/battle-coffee-shops/config.go
package battlecoffeeshops

import (
	"time"

	"coffee-tournament/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
