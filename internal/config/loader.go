package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "TOUCHREC_"
	envFileVar = "TOUCHREC_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if TOUCHREC_CONFIG is set
//  3. env (prefix TOUCHREC_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TOUCHREC_METRICS_ADDR -> metrics_addr; underscores are kept to match
	// the flat koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first unusable value.
func (c *Config) Validate() error {
	switch {
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	case c.PointerCapacity <= 0:
		return fmt.Errorf("%w: pointer_capacity must be positive", ErrInvalidConfig)
	case c.InputSize < 0:
		return fmt.Errorf("%w: input_size must not be negative", ErrInvalidConfig)
	case c.InputPressure < 0:
		return fmt.Errorf("%w: input_pressure must not be negative", ErrInvalidConfig)
	case c.EdgeSlop < 0:
		return fmt.Errorf("%w: edge_slop must not be negative", ErrInvalidConfig)
	}
	return nil
}
