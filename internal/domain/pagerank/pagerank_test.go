package pagerank_test

import (
	"context"
	"math"
	"testing"

	"github.com/leaguerank/leaguerank/internal/domain/graph"
	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/internal/domain/pagerank"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRankDegenerateGraphs(t *testing.T) {
	Convey("Given a default engine", t, func() {
		ctx := context.Background()
		engine := pagerank.New()

		Convey("When ranking an empty graph", func() {
			res := engine.Rank(ctx, graph.New(), nil, nil)

			Convey("Then the result is empty and converged", func() {
				So(res.Ranks, ShouldBeEmpty)
				So(res.Converged, ShouldBeTrue)
			})
		})

		Convey("When ranking a single node", func() {
			g := graph.New()
			g.AddNode("only")
			res := engine.Rank(ctx, g, nil, nil)

			Convey("Then that node holds all the mass", func() {
				So(res.Ranks["only"], ShouldEqual, 1.0)
				So(res.Converged, ShouldBeTrue)
			})
		})
	})
}

func TestRankTwoNodeChain(t *testing.T) {
	Convey("Given a two-node graph with a single edge a→b", t, func() {
		ctx := context.Background()
		engine := pagerank.New()

		g := graph.New()
		g.UpsertAccumulateEdge("a", "b", 1.0)

		Convey("When ranked", func() {
			res := engine.Rank(ctx, g, nil, nil)

			Convey("Then the sink outranks the source and mass sums to 1", func() {
				So(res.Converged, ShouldBeTrue)
				So(res.Ranks["a"], ShouldAlmostEqual, 0.35087719, 1e-6)
				So(res.Ranks["b"], ShouldAlmostEqual, 0.64912280, 1e-6)
				So(res.Ranks["a"]+res.Ranks["b"], ShouldAlmostEqual, 1.0, 1e-9)
			})
		})
	})
}

func TestRankProperties(t *testing.T) {
	Convey("Given a graph with a dominant node and an isolated node", t, func() {
		ctx := context.Background()
		engine := pagerank.New()

		g := graph.New()
		g.UpsertAccumulateEdge("b", "a", 3.0)
		g.UpsertAccumulateEdge("c", "a", 2.0)
		g.UpsertAccumulateEdge("a", "b", 0.5)
		g.UpsertAccumulateEdge("c", "b", 1.0)
		g.AddNode("idle")

		Convey("When ranked", func() {
			res := engine.Rank(ctx, g, nil, nil)

			Convey("Then the distribution sums to 1", func() {
				sum := 0.0
				for _, v := range res.Ranks {
					sum += v
				}
				So(sum, ShouldAlmostEqual, 1.0, 1e-9)
			})

			Convey("Then the heavily cited node ranks first", func() {
				So(res.Ranks["a"], ShouldBeGreaterThan, res.Ranks["b"])
				So(res.Ranks["a"], ShouldBeGreaterThan, res.Ranks["c"])
			})

			Convey("Then the isolated node still receives mass", func() {
				So(res.Ranks["idle"], ShouldBeGreaterThan, 0.0)
			})
		})

		Convey("When ranked with a warm start near the fixed point", func() {
			cold := engine.Rank(ctx, g, nil, nil)
			warm := engine.Rank(ctx, g, nil, cold.Ranks)

			Convey("Then the fixed point is unchanged and found faster", func() {
				for id, v := range cold.Ranks {
					So(warm.Ranks[id], ShouldAlmostEqual, v, 1e-6)
				}
				So(warm.Iterations, ShouldBeLessThanOrEqualTo, cold.Iterations)
			})
		})

		Convey("When ranked with a personalization biased to one node", func() {
			uniform := engine.Rank(ctx, g, nil, nil)
			biased := engine.Rank(ctx, g, model.Ratings{"c": 1.0}, nil)

			Convey("Then the favored node gains rank", func() {
				So(biased.Ranks["c"], ShouldBeGreaterThan, uniform.Ranks["c"])
			})
		})
	})
}

func TestRankIterationCap(t *testing.T) {
	Convey("Given an engine capped at a single iteration", t, func() {
		ctx := context.Background()
		engine := pagerank.New(pagerank.WithMaxIterations(1))

		g := graph.New()
		g.UpsertAccumulateEdge("a", "b", 1.0)

		Convey("When the cap is hit before convergence", func() {
			res := engine.Rank(ctx, g, nil, nil)

			Convey("Then the last iterate is returned as a soft failure", func() {
				So(res.Converged, ShouldBeFalse)
				So(res.Iterations, ShouldEqual, 1)
				So(res.Delta, ShouldBeGreaterThan, 0.0)
				So(math.Abs(res.Ranks["a"]+res.Ranks["b"]-1.0), ShouldBeLessThan, 1e-9)
			})
		})
	})
}
