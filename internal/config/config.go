// Package config defines engine configuration and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file/env.
// - One immutable Config is constructed at startup and threaded through
//   every component via parameters; nothing reads configuration ambiently.
// - External errors are wrapped via this package's error sentinels.
package config

// Config contains every recognized engine option.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// PageRank parameters.
	Damping               float64 `koanf:"damping"`
	PageRankTolerance     float64 `koanf:"pagerank_tolerance"`
	PageRankMaxIterations int     `koanf:"pagerank_max_iterations"`

	// Edge-weight parameters.
	MarginCap          int     `koanf:"margin_cap"`
	VenueHomeFactor    float64 `koanf:"venue_home_factor"`
	VenueNeutralFactor float64 `koanf:"venue_neutral_factor"`
	VenueAwayFactor    float64 `koanf:"venue_away_factor"`
	RecencyLambda      float64 `koanf:"recency_lambda"`
	ShrinkageK         float64 `koanf:"shrinkage_k"`
	WinProbC           float64 `koanf:"win_prob_c"`
	RiskExponent       float64 `koanf:"risk_exponent"`
	SurpriseGamma      float64 `koanf:"surprise_gamma"`
	SurpriseCap        float64 `koanf:"surprise_cap"`
	BowlBump           float64 `koanf:"bowl_bump"`

	// Hindsight (EM) fixed-point parameters.
	ConvergenceThreshold float64 `koanf:"convergence_threshold"`
	MaxOuterIterations   int     `koanf:"max_outer_iterations"`

	// Bias audit thresholds.
	BiasThreshold     float64 `koanf:"bias_threshold"`
	AutoTuneThreshold float64 `koanf:"auto_tune_threshold"`

	// Bootstrap parameters.
	BootstrapSamples int `koanf:"bootstrap_samples"`
	BootstrapWorkers int `koanf:"bootstrap_workers"`
	BootstrapTopK    int `koanf:"bootstrap_top_k"`
}

// New creates a Config with engine defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Damping:               0.85,
		PageRankTolerance:     1e-9,
		PageRankMaxIterations: 1000,
		MarginCap:             5,
		VenueHomeFactor:       1.1,
		VenueNeutralFactor:    1.0,
		VenueAwayFactor:       0.9,
		RecencyLambda:         0.05,
		ShrinkageK:            4,
		WinProbC:              0.40,
		RiskExponent:          1.0,
		SurpriseGamma:         0.75,
		SurpriseCap:           3,
		BowlBump:              1.10,
		ConvergenceThreshold:  1e-6,
		MaxOuterIterations:    6,
		BiasThreshold:         0.06,
		AutoTuneThreshold:     0.04,
		BootstrapSamples:      50,
		BootstrapWorkers:      0, // 0 = one worker per CPU
		BootstrapTopK:         25,
	}
}
