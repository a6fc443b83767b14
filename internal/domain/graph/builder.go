package graph

import (
	"context"
	"math"

	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/internal/domain/weights"
	"github.com/leaguerank/leaguerank/pkg/logger"
	"github.com/leaguerank/leaguerank/pkg/metrics"
)

// Builder constructs the conference and team graphs for one ranking pass.
//
// Edge convention: each game contributes a loser→winner credit edge and a
// winner→loser penalty edge to the team graph. The dual-edge form keeps
// return flow in the chain; a single credit edge would push all mass toward
// winners and starve the stationary distribution of back-pressure.
type Builder struct {
	calc   *weights.Calculator
	logger logger.Logger
}

// BuilderOption applies a configuration option to the Builder.
type BuilderOption func(*Builder)

// WithCalculator sets the weight calculator.
func WithCalculator(calc *weights.Calculator) BuilderOption {
	return func(b *Builder) {
		if calc != nil {
			b.calc = calc
		}
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(l logger.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder with a default-parameter calculator.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		calc: weights.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("graph")
	}
	return b
}

// Build derives (conferenceGraph, teamGraph) from the season's games.
//
// ratings seed the expectation model: in incremental mode they are last
// period's ratings and the calculator shrinks them by games played; in
// hindsight mode the calculator is configured without shrinkage and ratings
// are the current iterate. Every observed team and conference becomes a
// node regardless of edges. referenceWeek anchors recency decay.
func (b *Builder) Build(ctx context.Context, games []model.GameRecord, ratings model.Ratings, referenceWeek int) (*Graph, *Graph) {
	done := metrics.TimeGraphBuild()
	defer done()

	confGraph := New()
	teamGraph := New()

	for _, team := range model.Teams(games) {
		teamGraph.AddNode(team)
	}
	for _, conf := range model.Conferences(games) {
		confGraph.AddNode(conf)
	}

	played := model.GamesPlayed(games)

	for _, g := range games {
		bundle := b.calc.Calculate(weights.Input{
			Game:          g,
			ReferenceWeek: referenceWeek,
			WinnerRating:  ratings.Get(g.Winner),
			LoserRating:   ratings.Get(g.Loser),
			WinnerGames:   played[g.Winner],
			LoserGames:    played[g.Loser],
		})

		teamGraph.UpsertAccumulateEdge(g.Loser, g.Winner, bundle.CreditWeight)
		teamGraph.UpsertAccumulateEdge(g.Winner, g.Loser, bundle.PenaltyWeight)

		if bundle.ConferenceWeight > 0 {
			confGraph.UpsertAccumulateEdge(g.LoserConference, g.WinnerConference, bundle.ConferenceWeight)
		}
	}

	b.logger.Debug(ctx, "built ranking graphs",
		logger.Int("teams", teamGraph.NodeCount()),
		logger.Int("teamEdges", teamGraph.EdgeCount()),
		logger.Int("conferences", confGraph.NodeCount()),
		logger.Int("conferenceEdges", confGraph.EdgeCount()),
	)

	return confGraph, teamGraph
}

// InjectConferenceStrength rescales every intra-conference team edge by
// √(S_conf/mean(S)). Scaling is relative to the mean so the team-rating
// scale stays stable no matter how S happens to be normalized. Teams or
// conferences missing from the inputs default to neutral strength.
func (b *Builder) InjectConferenceStrength(ctx context.Context, teamGraph *Graph, teamConf map[string]string, strengths model.Ratings) {
	if teamGraph == nil || len(strengths) == 0 {
		return
	}
	meanStrength := strengths.Mean()
	if meanStrength <= 0 {
		return
	}

	scaled := 0
	for _, edge := range teamGraph.Edges() {
		srcConf, srcOK := teamConf[edge.Source]
		dstConf, dstOK := teamConf[edge.Target]
		if !srcOK || !dstOK || srcConf != dstConf {
			continue
		}
		factor := math.Sqrt(strengths.Get(srcConf) / meanStrength)
		teamGraph.ScaleEdge(edge.Source, edge.Target, factor)
		scaled++
	}

	b.logger.Debug(ctx, "injected conference strength",
		logger.Int("edgesScaled", scaled),
		logger.Float64("meanStrength", meanStrength),
	)
}

// Calculator exposes the builder's weight calculator.
func (b *Builder) Calculator() *weights.Calculator {
	return b.calc
}
