package places

import (
	"os"
	"time"

	"coffee-tournament/internal/common/config"
	"coffee-tournament/internal/common/errors"
)

const (
	// APIKeyEnv holds the provider credential.
	APIKeyEnv = "PLACES_API_KEY"
	// LegacyAPIKeyEnv is accepted when APIKeyEnv is unset.
	LegacyAPIKeyEnv = "GOOGLE_PLACES_API_KEY"
)

type Config struct {
	GeocodeURL    string
	NearbyURL     string
	PhotoURL      string
	DefaultRadius int
	PhotoMaxWidth int
	Timeout       time.Duration
	CacheTTL      time.Duration
}

// LoadConfig maps the application config section onto the client config.
func LoadConfig(cfg config.PlacesConfig) Config {
	return Config{
		GeocodeURL:    cfg.GeocodeURL,
		NearbyURL:     cfg.NearbyURL,
		PhotoURL:      cfg.PhotoURL,
		DefaultRadius: cfg.DefaultRadius,
		PhotoMaxWidth: cfg.PhotoMaxWidth,
		Timeout:       config.GetDuration(cfg.Timeout),
		CacheTTL:      config.GetDuration(cfg.CacheTTL),
	}
}

func (c Config) withDefaults() Config {
	if c.GeocodeURL == "" {
		c.GeocodeURL = config.DefaultGeocodeURL
	}
	if c.NearbyURL == "" {
		c.NearbyURL = config.DefaultNearbyURL
	}
	if c.PhotoURL == "" {
		c.PhotoURL = config.DefaultPhotoURL
	}
	if c.DefaultRadius <= 0 {
		c.DefaultRadius = 5000
	}
	if c.PhotoMaxWidth <= 0 {
		c.PhotoMaxWidth = 400
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// KeyFunc supplies the provider credential. It is called on every request.
type KeyFunc func() (string, error)

// EnvKey reads the credential from the process environment.
func EnvKey() (string, error) {
	for _, name := range []string{APIKeyEnv, LegacyAPIKeyEnv} {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	return "", errors.NewConfigurationError(APIKeyEnv)
}

// StaticKey always returns key, or a configuration error when key is empty.
func StaticKey(key string) KeyFunc {
	return func() (string, error) {
		if key == "" {
			return "", errors.NewConfigurationError(APIKeyEnv)
		}
		return key, nil
	}
}
