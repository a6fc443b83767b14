package pagerank

import "github.com/leaguerank/leaguerank/pkg/logger"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDamping sets the damping factor d in (0,1).
func WithDamping(d float64) Option {
	return func(e *Engine) {
		if d > 0 && d < 1 {
			e.damping = d
		}
	}
}

// WithTolerance sets the convergence tolerance on max|Δv|.
func WithTolerance(tol float64) Option {
	return func(e *Engine) {
		if tol > 0 {
			e.tolerance = tol
		}
	}
}

// WithMaxIterations caps the power iteration. The cap doubles as a circuit
// breaker against runaway computation.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
