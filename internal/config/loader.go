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

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LEAGUERANK_CONFIG is set
//  3. env (prefix LEAGUERANK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LEAGUERANK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LEAGUERANK_DAMPING, LEAGUERANK_MARGIN_CAP, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("LEAGUERANK_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "leaguerank_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
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

// Validate rejects configurations the numeric core cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Damping <= 0 || c.Damping >= 1:
		return fmt.Errorf("%w: damping %v outside (0,1)", ErrInvalidConfig, c.Damping)
	case c.PageRankTolerance <= 0:
		return fmt.Errorf("%w: pagerank_tolerance must be positive", ErrInvalidConfig)
	case c.PageRankMaxIterations < 1:
		return fmt.Errorf("%w: pagerank_max_iterations must be at least 1", ErrInvalidConfig)
	case c.MarginCap < 1:
		return fmt.Errorf("%w: margin_cap must be at least 1", ErrInvalidConfig)
	case c.VenueHomeFactor <= 0 || c.VenueNeutralFactor <= 0 || c.VenueAwayFactor <= 0:
		return fmt.Errorf("%w: venue factors must be positive", ErrInvalidConfig)
	case c.RecencyLambda < 0:
		return fmt.Errorf("%w: recency_lambda must not be negative", ErrInvalidConfig)
	case c.ShrinkageK <= 0:
		return fmt.Errorf("%w: shrinkage_k must be positive", ErrInvalidConfig)
	case c.WinProbC <= 0:
		return fmt.Errorf("%w: win_prob_c must be positive", ErrInvalidConfig)
	case c.ConvergenceThreshold <= 0:
		return fmt.Errorf("%w: convergence_threshold must be positive", ErrInvalidConfig)
	case c.MaxOuterIterations < 1:
		return fmt.Errorf("%w: max_outer_iterations must be at least 1", ErrInvalidConfig)
	}
	return nil
}
