package judge

import (
	"time"

	"coffee-tournament/internal/common/config"
)

const (
	ProviderGemini = "gemini"
	ProviderHTTP   = "http"
	ProviderNone   = "none"
)

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// LoadConfig maps the application config section onto the judge config.
func LoadConfig(cfg config.JudgeConfig) Config {
	return Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Timeout:     config.GetDuration(cfg.Timeout),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1000
	}
	return c
}
