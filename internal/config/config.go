// Package config loads the module's configuration surface via viper,
// following a Setup(path) (*Config, error) shape for bootstrap config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/badukstudy/aicore/internal/inference"
)

// Config is the external configuration surface: back-end preference,
// batching, board size, and cache sizing. Unknown keys are rejected at
// decode time rather than silently ignored.
type Config struct {
	Backend            string   `mapstructure:"backend"`
	BackendFallback    []string `mapstructure:"backendFallback"`
	ModelPath          string   `mapstructure:"modelPath"`
	LibPath            string   `mapstructure:"libPath"`
	StaticBatchSize    int      `mapstructure:"staticBatchSize"`
	BoardSize          int      `mapstructure:"boardSize"`
	Threads            int      `mapstructure:"threads"`
	EnableCache        bool     `mapstructure:"enableCache"`
	CacheCapacity      int      `mapstructure:"cacheCapacity"`
	EnableGraphCapture bool     `mapstructure:"enableGraphCapture"`
	Debug              bool     `mapstructure:"debug"`
	NumVisits          int      `mapstructure:"numVisits"`
	Komi               float64  `mapstructure:"komi"`
}

// Setup reads the configuration file at cfgPath and decodes it strictly:
// any key not named in Config is a load error, with unknown options
// rejected rather than silently ignored.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetDefault("backend", "cpu")
	v.SetDefault("boardSize", 19)
	v.SetDefault("staticBatchSize", 8)
	v.SetDefault("cacheCapacity", 500_000)
	v.SetDefault("numVisits", 1)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", cfgPath, err)
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", cfgPath, err)
	}
	return &cfg, nil
}

// BackendPreference converts the configured back-end names into the
// ordered list internal/inference negotiates against, falling back to the
// package default when the config is silent.
func (c *Config) BackendPreference() []inference.Backend {
	names := append([]string{c.Backend}, c.BackendFallback...)
	prefs := make([]inference.Backend, 0, len(names))
	seen := map[inference.Backend]bool{}
	for _, n := range names {
		b := inference.Backend(n)
		if n == "" || seen[b] {
			continue
		}
		seen[b] = true
		prefs = append(prefs, b)
	}
	if len(prefs) == 0 {
		return inference.DefaultBackendPreference()
	}
	return prefs
}

// SessionConfig builds the internal/inference.Config this configuration
// describes.
func (c *Config) SessionConfig() inference.Config {
	return inference.Config{
		ModelPath:          c.ModelPath,
		LibPath:            c.LibPath,
		BackendPreference:  c.BackendPreference(),
		EnableGraphCapture: c.EnableGraphCapture,
		StaticBatchSize:    c.StaticBatchSize,
		BoardSize:          c.BoardSize,
		Threads:            c.Threads,
		EnableCache:        c.EnableCache,
		CacheCapacity:      c.CacheCapacity,
	}
}
