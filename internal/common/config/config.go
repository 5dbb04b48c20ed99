// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Server    ServerConfig            `mapstructure:"server"`
	Places    PlacesConfig            `mapstructure:"places"`
	Judge     JudgeConfig             `mapstructure:"judge"`
	Database  DatabaseConfig          `mapstructure:"database"`
	RateLimit RateLimitConfig         `mapstructure:"rate_limit"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// PlacesConfig holds the geocoding and nearby-search provider settings.
// The API key is deliberately absent: it is read from the environment per call.
type PlacesConfig struct {
	GeocodeURL    string `mapstructure:"geocode_url"`
	NearbyURL     string `mapstructure:"nearby_url"`
	PhotoURL      string `mapstructure:"photo_url"`
	DefaultRadius int    `mapstructure:"default_radius"` // meters
	PhotoMaxWidth int    `mapstructure:"photo_max_width"`
	Timeout       int    `mapstructure:"timeout"`   // milliseconds
	CacheTTL      int    `mapstructure:"cache_ttl"` // milliseconds, 0 disables caching
}

// JudgeConfig selects and tunes the LLM backing the battle judge.
type JudgeConfig struct {
	Provider    string  `mapstructure:"provider"` // gemini | http | none
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the optional cache and rate-limit store. An empty
// address disables both.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type RateLimitConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Capacity         int    `mapstructure:"capacity"`
	RefillTokens     int    `mapstructure:"refill_tokens"`
	RefillIntervalMs int    `mapstructure:"refill_interval_ms"`
	Prefix           string `mapstructure:"prefix"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
