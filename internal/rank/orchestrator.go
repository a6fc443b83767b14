// Package rank coordinates the two-stage ranking pipeline: conference
// PageRank, conference-strength injection, then team PageRank.
package rank

import (
	"context"

	"github.com/google/uuid"

	"github.com/leaguerank/leaguerank/internal/audit"
	"github.com/leaguerank/leaguerank/internal/domain/graph"
	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/internal/domain/pagerank"
	"github.com/leaguerank/leaguerank/internal/domain/weights"
	"github.com/leaguerank/leaguerank/pkg/logger"
	"github.com/leaguerank/leaguerank/pkg/metrics"
)

// Default fixed-point parameters for hindsight mode.
const (
	defaultConvergenceThreshold = 1e-6
	defaultMaxOuterIterations   = 6
)

// Orchestrator runs the two-stage pipeline in either mode. It is stateless
// across runs; graphs are rebuilt fresh every pass.
type Orchestrator struct {
	weightOpts           []weights.Option
	engine               *pagerank.Engine
	auditor              *audit.Auditor
	convergenceThreshold float64
	maxOuterIterations   int
	logger               logger.Logger
}

// New creates an Orchestrator with default configuration.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		convergenceThreshold: defaultConvergenceThreshold,
		maxOuterIterations:   defaultMaxOuterIterations,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.engine == nil {
		o.engine = pagerank.New()
	}
	if o.auditor == nil {
		o.auditor = audit.New()
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("rank")
	}
	return o
}

// RunIncremental performs the single-pass weekly update. Last period's
// ratings act as the shrinkage prior; the returned ratings become the next
// period's priors.
func (o *Orchestrator) RunIncremental(ctx context.Context, games []model.GameRecord, priors Priors) *Result {
	metrics.RecordRun(string(ModeIncremental))
	runID := uuid.New().String()
	o.logger.Info(ctx, "starting incremental run",
		logger.String("runID", runID),
		logger.Int("games", len(games)),
	)

	teamPriors := priors.TeamRatings
	if teamPriors == nil {
		teamPriors = model.UniformRatings(model.Teams(games))
	}

	builder := o.builder(true)
	referenceWeek := model.LatestWeek(games, 1)

	confGraph, teamGraph := builder.Build(ctx, games, teamPriors, referenceWeek)
	teamConf := model.TeamConferences(games)

	strengths := o.rankConferences(ctx, confGraph, games, priors.ConferenceRatings)
	builder.InjectConferenceStrength(ctx, teamGraph, teamConf, strengths)
	ratings := o.engine.Rank(ctx, teamGraph, nil, teamPriors).Ranks

	bias := o.auditor.Audit(ctx, ratings, teamConf)
	metrics.RecordRankedCounts(len(ratings), len(strengths))

	o.logger.Info(ctx, "incremental run complete",
		logger.String("runID", runID),
		logger.Int("teamsRanked", len(ratings)),
		logger.Int("conferencesRanked", len(strengths)),
		logger.Float64("neutralityMetric", bias.NeutralityMetric),
	)

	return &Result{
		RunID:             runID,
		Mode:              ModeIncremental,
		GamesProcessed:    len(games),
		TeamRatings:       ratings,
		ConferenceRatings: strengths,
		Bias:              bias,
	}
}

// RunHindsight iterates both stages to a joint fixed point. Each outer
// iteration rebuilds the graphs from the previous iteration's team ratings
// with shrinkage disabled, recomputes conference strength, and recomputes
// team ratings. Stops when the largest per-team rating change drops below
// the convergence threshold, or at the outer-iteration cap. Hitting the
// cap is reported through the Converged flag, not an error.
func (o *Orchestrator) RunHindsight(ctx context.Context, games []model.GameRecord, seed model.Ratings) *Result {
	metrics.RecordRun(string(ModeHindsight))
	runID := uuid.New().String()
	o.logger.Info(ctx, "starting hindsight run",
		logger.String("runID", runID),
		logger.Int("games", len(games)),
		logger.Int("maxOuterIterations", o.maxOuterIterations),
	)

	ratings := seed
	if ratings == nil {
		ratings = model.UniformRatings(model.Teams(games))
	} else {
		ratings = ratings.Clone()
	}

	builder := o.builder(false)
	referenceWeek := model.LatestWeek(games, 1)
	teamConf := model.TeamConferences(games)

	report := &ConvergenceReport{}
	var strengths model.Ratings

	for outer := 1; outer <= o.maxOuterIterations; outer++ {
		confGraph, teamGraph := builder.Build(ctx, games, ratings, referenceWeek)

		strengths = o.rankConferences(ctx, confGraph, games, strengths)
		builder.InjectConferenceStrength(ctx, teamGraph, teamConf, strengths)
		next := o.engine.Rank(ctx, teamGraph, nil, ratings).Ranks

		maxDelta := next.MaxDelta(ratings)
		report.Iterations = outer
		report.FinalMaxDelta = maxDelta
		report.History = append(report.History, IterationStats{Iteration: outer, MaxDelta: maxDelta})
		ratings = next

		o.logger.Debug(ctx, "hindsight outer iteration",
			logger.Int("iteration", outer),
			logger.Float64("maxDelta", maxDelta),
		)

		if maxDelta < o.convergenceThreshold {
			report.Converged = true
			break
		}
	}

	if !report.Converged {
		o.logger.Warn(ctx, "hindsight run did not converge",
			logger.String("runID", runID),
			logger.Int("iterations", report.Iterations),
			logger.Float64("finalMaxDelta", report.FinalMaxDelta),
		)
	}
	metrics.RecordEMRun(report.Iterations, report.Converged)

	bias := o.auditor.Audit(ctx, ratings, teamConf)
	metrics.RecordRankedCounts(len(ratings), len(strengths))

	o.logger.Info(ctx, "hindsight run complete",
		logger.String("runID", runID),
		logger.Bool("converged", report.Converged),
		logger.Int("iterations", report.Iterations),
	)

	return &Result{
		RunID:             runID,
		Mode:              ModeHindsight,
		GamesProcessed:    len(games),
		TeamRatings:       ratings,
		ConferenceRatings: strengths,
		Convergence:       report,
		Bias:              bias,
	}
}

// rankConferences runs the stage-1 PageRank. A conference graph with no
// qualifying cross-conference games yields no distribution; every observed
// conference then falls back to neutral strength so stage 2 still runs.
func (o *Orchestrator) rankConferences(ctx context.Context, confGraph *graph.Graph, games []model.GameRecord, warmStart model.Ratings) model.Ratings {
	strengths := o.engine.Rank(ctx, confGraph, nil, warmStart).Ranks
	if len(strengths) > 0 {
		return strengths
	}
	fallback := model.UniformRatings(model.Conferences(games))
	if len(fallback) > 0 {
		o.logger.Warn(ctx, "conference graph produced no ratings; using neutral strengths",
			logger.Int("conferences", len(fallback)),
		)
	}
	return fallback
}

// builder assembles a graph builder for the given shrinkage mode, layering
// the orchestrator's weight options over the mode default.
func (o *Orchestrator) builder(shrinkage bool) *graph.Builder {
	opts := make([]weights.Option, 0, len(o.weightOpts)+1)
	opts = append(opts, o.weightOpts...)
	opts = append(opts, weights.WithShrinkage(shrinkage))
	return graph.NewBuilder(
		graph.WithCalculator(weights.New(opts...)),
		graph.WithLogger(o.logger.Named("graph")),
	)
}
