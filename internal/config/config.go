// Package config loads camseed settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/teslashibe/go-camseed/pkg/acquire"
	"github.com/teslashibe/go-camseed/pkg/seed"
)

// Config holds every tunable of the camseed command.
type Config struct {
	Backend   string        `env:"CAMSEED_BACKEND"   envDefault:"auto"`
	Device    int           `env:"CAMSEED_DEVICE"    envDefault:"0"`
	Image     string        `env:"CAMSEED_IMAGE"`
	Timeout   time.Duration `env:"CAMSEED_TIMEOUT"   envDefault:"5s"`
	Width     int           `env:"CAMSEED_WIDTH"`
	Height    int           `env:"CAMSEED_HEIGHT"`
	Algorithm string        `env:"CAMSEED_ALGORITHM" envDefault:"sha256"`

	Addr           string        `env:"CAMSEED_ADDR"            envDefault:":8080"`
	StreamInterval time.Duration `env:"CAMSEED_STREAM_INTERVAL" envDefault:"2s"`

	LogLevel string `env:"CAMSEED_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that are not covered by the acquire config.
func (c Config) Validate() error {
	if _, err := seed.ParseAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.StreamInterval <= 0 {
		return fmt.Errorf("config: stream interval must be positive, got %v", c.StreamInterval)
	}
	acq := c.Acquire()
	if acq.Backend == acquire.BackendFile && acq.Path == "" {
		// The CLI fills the path in from its flags.
		acq.Path = "seed.png"
	}
	if err := acq.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Acquire returns the capture settings.
func (c Config) Acquire() acquire.Config {
	return acquire.Config{
		Backend: acquire.Backend(c.Backend),
		Device:  c.Device,
		Path:    c.Image,
		Timeout: c.Timeout,
		Width:   c.Width,
		Height:  c.Height,
	}
}

// Condenser builds the configured condenser.
func (c Config) Condenser() (*seed.Condenser, error) {
	alg, err := seed.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}
	return seed.New(seed.WithAlgorithm(alg))
}
