// Package pagerank implements weighted PageRank by dense power iteration.
package pagerank

import (
	"context"
	"math"

	"github.com/leaguerank/leaguerank/internal/domain/graph"
	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/pkg/logger"
	"github.com/leaguerank/leaguerank/pkg/metrics"
)

// Default iteration parameters.
const (
	defaultDamping       = 0.85
	defaultTolerance     = 1e-9
	defaultMaxIterations = 1000
)

// Result is a stationary distribution over graph nodes.
type Result struct {
	// Ranks maps node → probability; sums to 1 for a non-empty graph.
	Ranks model.Ratings
	// Iterations is the number of power-iteration steps performed.
	Iterations int
	// Converged is false when the iteration cap was hit first. The last
	// iterate is still returned; non-convergence is a soft failure.
	Converged bool
	// Delta is the final max|Δv|.
	Delta float64
}

// Engine runs power iteration over a weighted digraph. At league scale
// (~130 nodes) a dense transition matrix is fine; a sparse adjacency
// rewrite only pays off in the thousands of nodes.
type Engine struct {
	damping       float64
	tolerance     float64
	maxIterations int
	logger        logger.Logger
}

// New creates an Engine with default parameters, then applies options.
func New(opts ...Option) *Engine {
	e := &Engine{
		damping:       defaultDamping,
		tolerance:     defaultTolerance,
		maxIterations: defaultMaxIterations,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("pagerank")
	}
	return e
}

// Rank computes the stationary distribution of g.
//
// personalization biases the teleport vector (nil → uniform). warmStart
// seeds the iterate (nil → uniform); a good seed cuts iterations but never
// changes the fixed point. An empty graph yields an empty, converged
// result; a singleton yields {node: 1}.
func (e *Engine) Rank(ctx context.Context, g *graph.Graph, personalization, warmStart model.Ratings) Result {
	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return Result{Ranks: model.Ratings{}, Converged: true}
	}
	if n == 1 {
		return Result{Ranks: model.Ratings{nodes[0]: 1.0}, Converged: true}
	}

	index := make(map[string]int, n)
	for i, id := range nodes {
		index[id] = i
	}

	m := e.transitionMatrix(g, nodes, index)
	pers := stochasticVector(nodes, personalization)
	v := stochasticVector(nodes, warmStart)

	next := make([]float64, n)
	var (
		iterations int
		delta      float64
		converged  bool
	)
	for iterations = 1; iterations <= e.maxIterations; iterations++ {
		// next = d·M·v + (1−d)·pers
		for i := 0; i < n; i++ {
			sum := 0.0
			row := m[i]
			for j := 0; j < n; j++ {
				sum += row[j] * v[j]
			}
			next[i] = e.damping*sum + (1-e.damping)*pers[i]
		}

		delta = 0
		for i := 0; i < n; i++ {
			if d := math.Abs(next[i] - v[i]); d > delta {
				delta = d
			}
		}
		v, next = next, v

		if delta < e.tolerance {
			converged = true
			break
		}
	}
	if iterations > e.maxIterations {
		iterations = e.maxIterations
	}

	if converged {
		e.logger.Debug(ctx, "power iteration converged",
			logger.Int("iterations", iterations),
			logger.Int("nodes", n),
		)
	} else {
		e.logger.Warn(ctx, "power iteration hit the iteration cap; returning last iterate",
			logger.Int("maxIterations", e.maxIterations),
			logger.Float64("delta", delta),
		)
	}
	metrics.RecordPageRankRun(iterations, converged)

	ranks := make(model.Ratings, n)
	for i, id := range nodes {
		ranks[id] = v[i]
	}
	return Result{
		Ranks:      ranks,
		Iterations: iterations,
		Converged:  converged,
		Delta:      delta,
	}
}

// transitionMatrix builds the column-stochastic matrix M where M[i][j] is
// the probability of moving to node i from node j. Dangling nodes (no out
// weight) redistribute uniformly so no rank leaks.
func (e *Engine) transitionMatrix(g *graph.Graph, nodes []string, index map[string]int) [][]float64 {
	n := len(nodes)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}

	for j, src := range nodes {
		total := g.TotalOutWeight(src)
		if total <= 0 {
			for i := 0; i < n; i++ {
				m[i][j] = 1.0 / float64(n)
			}
			continue
		}
		for _, edge := range g.OutEdges(src) {
			m[index[edge.Target]][j] = edge.Weight / total
		}
	}
	return m
}

// stochasticVector projects ratings onto nodes and normalizes to sum 1.
// Nil or degenerate input yields the uniform vector.
func stochasticVector(nodes []string, ratings model.Ratings) []float64 {
	n := len(nodes)
	v := make([]float64, n)
	uniform := 1.0 / float64(n)

	if len(ratings) == 0 {
		for i := range v {
			v[i] = uniform
		}
		return v
	}

	sum := 0.0
	for i, id := range nodes {
		val, ok := ratings[id]
		if !ok || val < 0 {
			val = uniform
		}
		v[i] = val
		sum += val
	}
	if sum <= 0 {
		for i := range v {
			v[i] = uniform
		}
		return v
	}
	for i := range v {
		v[i] /= sum
	}
	return v
}
