package graph_test

import (
	"context"
	"testing"

	"github.com/leaguerank/leaguerank/internal/domain/graph"
	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/internal/domain/weights"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuilderBuild(t *testing.T) {
	Convey("Given a builder and a three-game cross-conference season", t, func() {
		ctx := context.Background()
		b := graph.NewBuilder(graph.WithCalculator(weights.New(weights.WithShrinkage(false))))

		games := []model.GameRecord{
			mustGame(t, 1, "A", "B", "X", "X", 20, model.VenueHome, model.PhaseRegular),
			mustGame(t, 1, "C", "D", "Y", "Y", 3, model.VenueNeutral, model.PhaseRegular),
			mustGame(t, 1, "A", "C", "X", "Y", 3, model.VenueNeutral, model.PhaseRegular),
		}
		ratings := model.UniformRatings(model.Teams(games))

		Convey("When both graphs are built", func() {
			confGraph, teamGraph := b.Build(ctx, games, ratings, 1)

			Convey("Then every team is a node with credit and penalty edges per game", func() {
				So(teamGraph.NodeCount(), ShouldEqual, 4)
				So(teamGraph.EdgeCount(), ShouldEqual, 6)
				So(teamGraph.Weight("B", "A"), ShouldBeGreaterThan, 0)
				So(teamGraph.Weight("A", "B"), ShouldBeGreaterThan, 0)
				So(teamGraph.Weight("D", "C"), ShouldBeGreaterThan, 0)
				So(teamGraph.Weight("C", "A"), ShouldBeGreaterThan, 0)
			})

			Convey("Then only the cross-conference game reaches the conference graph", func() {
				So(confGraph.NodeCount(), ShouldEqual, 2)
				So(confGraph.EdgeCount(), ShouldEqual, 1)
				So(confGraph.Weight("Y", "X"), ShouldBeGreaterThan, 0)
				So(confGraph.Weight("X", "Y"), ShouldEqual, 0.0)
			})

			Convey("Then the bigger home win outweighs the narrow neutral win", func() {
				So(teamGraph.Weight("B", "A"), ShouldBeGreaterThan, teamGraph.Weight("D", "C"))
			})
		})

		Convey("When a team appears only as an isolated entry", func() {
			withIdle := append(games, mustGame(t, 1, "E", "F", "", "", 0, model.VenueNeutral, model.PhaseRegular))
			_, teamGraph := b.Build(ctx, withIdle, ratings, 1)

			Convey("Then the new teams still become nodes", func() {
				So(teamGraph.HasNode("E"), ShouldBeTrue)
				So(teamGraph.HasNode("F"), ShouldBeTrue)
			})
		})

		Convey("When no games exist", func() {
			confGraph, teamGraph := b.Build(ctx, nil, nil, 1)

			Convey("Then both graphs are empty", func() {
				So(confGraph.NodeCount(), ShouldEqual, 0)
				So(teamGraph.NodeCount(), ShouldEqual, 0)
			})
		})
	})
}

func TestInjectConferenceStrength(t *testing.T) {
	Convey("Given a team graph with intra- and cross-conference edges", t, func() {
		ctx := context.Background()
		b := graph.NewBuilder()

		build := func() *graph.Graph {
			g := graph.New()
			g.UpsertAccumulateEdge("sec1", "sec2", 1.0)
			g.UpsertAccumulateEdge("mac1", "mac2", 1.0)
			g.UpsertAccumulateEdge("sec1", "mac1", 1.0)
			return g
		}
		teamConf := map[string]string{
			"sec1": "SEC", "sec2": "SEC",
			"mac1": "MAC", "mac2": "MAC",
		}

		Convey("When conference strengths are injected", func() {
			g := build()
			b.InjectConferenceStrength(ctx, g, teamConf, model.Ratings{"SEC": 0.40, "MAC": 0.70})

			Convey("Then intra-conference edges scale by the root of relative strength", func() {
				So(g.Weight("sec1", "sec2"), ShouldAlmostEqual, 0.8528028654224418, 1e-9)
				So(g.Weight("mac1", "mac2"), ShouldAlmostEqual, 1.1281521496355338, 1e-9)
			})

			Convey("Then cross-conference edges are untouched", func() {
				So(g.Weight("sec1", "mac1"), ShouldEqual, 1.0)
			})
		})

		Convey("When strengths are uniform", func() {
			g := build()
			b.InjectConferenceStrength(ctx, g, teamConf, model.Ratings{"SEC": 0.5, "MAC": 0.5})

			Convey("Then every edge keeps its weight", func() {
				So(g.Weight("sec1", "sec2"), ShouldAlmostEqual, 1.0, 1e-12)
				So(g.Weight("mac1", "mac2"), ShouldAlmostEqual, 1.0, 1e-12)
			})
		})

		Convey("When a team's conference is unknown", func() {
			g := build()
			partial := map[string]string{"sec1": "SEC"}
			b.InjectConferenceStrength(ctx, g, partial, model.Ratings{"SEC": 0.40, "MAC": 0.70})

			Convey("Then its edges are left alone", func() {
				So(g.Weight("sec1", "sec2"), ShouldEqual, 1.0)
			})
		})

		Convey("When strengths are empty", func() {
			g := build()
			b.InjectConferenceStrength(ctx, g, teamConf, nil)

			Convey("Then nothing changes", func() {
				So(g.Weight("sec1", "sec2"), ShouldEqual, 1.0)
			})
		})
	})
}

func mustGame(t *testing.T, week int, winner, loser, winnerConf, loserConf string, margin int, venue model.Venue, phase model.Phase) model.GameRecord {
	t.Helper()
	g, err := model.NewGameRecord(2024, week, winner, loser, winnerConf, loserConf, margin, venue, phase)
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	return g
}
