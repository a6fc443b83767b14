package seasongen_test

import (
	"context"
	"testing"

	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/internal/seasongen"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a small two-conference league", t, func() {
		ctx := context.Background()
		newGen := func(seed int64) *seasongen.Generator {
			return seasongen.New(
				seasongen.WithConferences(2),
				seasongen.WithTeamsPerConference(4),
				seasongen.WithWeeks(3),
				seasongen.WithBowlGames(2),
				seasongen.WithSeed(seed),
			)
		}

		Convey("When a season is generated", func() {
			games, strengths := newGen(42).Generate(ctx)

			Convey("Then the schedule has the expected shape", func() {
				So(games, ShouldHaveLength, 3*4+2)
				So(strengths, ShouldHaveLength, 8)
				So(model.Teams(games), ShouldHaveLength, 8)
				So(model.Conferences(games), ShouldHaveLength, 2)
			})

			Convey("Then every record is internally consistent", func() {
				for _, g := range games {
					_, err := model.NewGameRecord(g.Season, g.Week, g.Winner, g.Loser,
						g.WinnerConference, g.LoserConference, g.Margin, g.Venue, g.Phase)
					So(err, ShouldBeNil)
					So(g.Week, ShouldBeGreaterThanOrEqualTo, 1)
					So(g.Week, ShouldBeLessThanOrEqualTo, 4)
					So(g.Margin, ShouldBeGreaterThanOrEqualTo, 1)
				}
			})

			Convey("Then bowls are cross-conference games on neutral fields", func() {
				bowls := 0
				for _, g := range games {
					if !g.IsBowl() {
						continue
					}
					bowls++
					So(g.CrossConference, ShouldBeTrue)
					So(g.Venue, ShouldEqual, model.VenueNeutral)
					So(g.Week, ShouldEqual, 4)
				}
				So(bowls, ShouldEqual, 2)
			})

			Convey("Then latent strengths stay inside their band", func() {
				for _, s := range strengths {
					So(s, ShouldBeGreaterThan, 0.2)
					So(s, ShouldBeLessThan, 0.8)
				}
			})
		})

		Convey("When the same seed is used twice", func() {
			first, firstStrengths := newGen(7).Generate(ctx)
			second, secondStrengths := newGen(7).Generate(ctx)

			Convey("Then the seasons are identical", func() {
				So(second, ShouldResemble, first)
				So(secondStrengths, ShouldResemble, firstStrengths)
			})
		})

		Convey("When different seeds are used", func() {
			first, _ := newGen(7).Generate(ctx)
			second, _ := newGen(8).Generate(ctx)

			Convey("Then the seasons differ", func() {
				So(second, ShouldNotResemble, first)
			})
		})
	})
}

func TestGenerateFeedsThePipeline(t *testing.T) {
	Convey("Given a generated season", t, func() {
		ctx := context.Background()
		games, _ := seasongen.New(
			seasongen.WithConferences(2),
			seasongen.WithTeamsPerConference(4),
			seasongen.WithWeeks(4),
			seasongen.WithBowlGames(2),
		).Generate(ctx)

		Convey("Then teams play a full slate", func() {
			played := model.GamesPlayed(games)
			So(played, ShouldHaveLength, 8)
			for _, n := range played {
				So(n, ShouldBeGreaterThanOrEqualTo, 4)
			}
		})
	})
}
