package seasongen

import "github.com/leaguerank/leaguerank/pkg/logger"

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeason sets the season year stamped on generated games.
func WithSeason(year int) Option {
	return func(g *Generator) {
		if year > 0 {
			g.season = year
		}
	}
}

// WithConferences sets the number of conferences.
func WithConferences(n int) Option {
	return func(g *Generator) {
		if n > 0 && n <= len(conferenceNames) {
			g.conferences = n
		}
	}
}

// WithTeamsPerConference sets the roster size per conference.
func WithTeamsPerConference(n int) Option {
	return func(g *Generator) {
		if n > 1 {
			g.teamsPerConference = n
		}
	}
}

// WithWeeks sets the regular-season length.
func WithWeeks(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.weeks = n
		}
	}
}

// WithBowlGames sets the number of postseason games.
func WithBowlGames(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.bowlGames = n
		}
	}
}

// WithSeed sets the generation seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithLogger sets a custom logger for the generator.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}
