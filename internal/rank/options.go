package rank

import (
	"github.com/leaguerank/leaguerank/internal/audit"
	"github.com/leaguerank/leaguerank/internal/domain/pagerank"
	"github.com/leaguerank/leaguerank/internal/domain/weights"
	"github.com/leaguerank/leaguerank/pkg/logger"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithWeightOptions forwards options to the weight calculators built for
// each run. The orchestrator controls shrinkage itself per mode.
func WithWeightOptions(opts ...weights.Option) Option {
	return func(o *Orchestrator) {
		o.weightOpts = append(o.weightOpts, opts...)
	}
}

// WithEngine sets the PageRank engine.
func WithEngine(engine *pagerank.Engine) Option {
	return func(o *Orchestrator) {
		if engine != nil {
			o.engine = engine
		}
	}
}

// WithAuditor sets the bias auditor.
func WithAuditor(a *audit.Auditor) Option {
	return func(o *Orchestrator) {
		if a != nil {
			o.auditor = a
		}
	}
}

// WithConvergenceThreshold sets the fixed-point stop threshold on the
// largest per-team rating change.
func WithConvergenceThreshold(t float64) Option {
	return func(o *Orchestrator) {
		if t > 0 {
			o.convergenceThreshold = t
		}
	}
}

// WithMaxOuterIterations caps the hindsight loop.
func WithMaxOuterIterations(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxOuterIterations = n
		}
	}
}

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}
