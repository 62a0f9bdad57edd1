// Package config loads the service configuration from YAML. Every field has
// a default so the binary runs with no config file at all. Durations are
// stored as integer milliseconds or seconds and exposed through getters.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	HTTP    HTTPConfig    `yaml:"http"`
	Redis   RedisConfig   `yaml:"redis"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// FetchConfig tunes the aggregation pipeline.
type FetchConfig struct {
	BatchSize        int     `yaml:"batch_size"`
	BatchDelayMS     int     `yaml:"batch_delay_ms"`
	FetchTimeoutSecs int     `yaml:"fetch_timeout_secs"`
	BookDepth        int     `yaml:"book_depth"`
	RateRPS          float64 `yaml:"rate_rps"`
	RateBurst        int     `yaml:"rate_burst"`
}

// BatchDelay returns the inter-batch pause as a time.Duration.
func (f FetchConfig) BatchDelay() time.Duration {
	return time.Duration(f.BatchDelayMS) * time.Millisecond
}

// FetchTimeout returns the per-venue fetch timeout as a time.Duration.
func (f FetchConfig) FetchTimeout() time.Duration {
	return time.Duration(f.FetchTimeoutSecs) * time.Second
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"`
	IdleTimeoutSecs  int    `yaml:"idle_timeout_secs"`
}

// ReadTimeout returns the server read timeout as a time.Duration.
func (h HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(h.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the server write timeout as a time.Duration.
func (h HTTPConfig) WriteTimeout() time.Duration {
	return time.Duration(h.WriteTimeoutSecs) * time.Second
}

// IdleTimeout returns the server idle timeout as a time.Duration.
func (h HTTPConfig) IdleTimeout() time.Duration {
	return time.Duration(h.IdleTimeoutSecs) * time.Second
}

// RedisConfig selects the cache backend. An empty address keeps the
// in-memory store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RefreshConfig controls the optional background refresh loop. A zero
// interval disables it.
type RefreshConfig struct {
	IntervalSecs int      `yaml:"interval_secs"`
	Assets       []string `yaml:"assets"`
}

// Interval returns the refresh period as a time.Duration.
func (r RefreshConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSecs) * time.Second
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Fetch: FetchConfig{
			BatchSize:        10,
			BatchDelayMS:     500,
			FetchTimeoutSecs: 10,
			BookDepth:        20,
			RateRPS:          5,
			RateBurst:        10,
		},
		HTTP: HTTPConfig{
			Host:             "127.0.0.1",
			Port:             8080,
			ReadTimeoutSecs:  10,
			WriteTimeoutSecs: 15,
			IdleTimeoutSecs:  60,
		},
		Refresh: RefreshConfig{
			IntervalSecs: 0, // disabled unless configured
			Assets:       []string{"BTC"},
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config YAML: %w", err)
	}
	return cfg, nil
}
