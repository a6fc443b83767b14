package bootstrap

import "github.com/leaguerank/leaguerank/pkg/logger"

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithSamples sets the round count, clamped to [MinSamples, MaxSamples].
func WithSamples(n int) Option {
	return func(e *Estimator) {
		if n < MinSamples {
			n = MinSamples
		}
		if n > MaxSamples {
			n = MaxSamples
		}
		e.samples = n
	}
}

// WithWorkers sets the number of concurrent round workers.
func WithWorkers(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithTopK sets the top-K window used for the stability metric.
func WithTopK(k int) Option {
	return func(e *Estimator) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithSeed sets the base seed for deterministic resampling.
func WithSeed(seed int64) Option {
	return func(e *Estimator) {
		e.seed = seed
	}
}

// WithLogger sets a custom logger for the estimator.
func WithLogger(l logger.Logger) Option {
	return func(e *Estimator) {
		if l != nil {
			e.logger = l
		}
	}
}
