// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Venue indicates where a game was played, from the winner's perspective
// when resolving home-field adjustments.
type Venue string

// Venue values.
const (
	VenueHome    Venue = "home"
	VenueAway    Venue = "away"
	VenueNeutral Venue = "neutral"
)

// Phase distinguishes regular-season games from postseason (bowl) games.
type Phase string

// Phase values.
const (
	PhaseRegular    Phase = "regular"
	PhasePostseason Phase = "postseason"
)

// ParseVenue parses a venue string (case-insensitive).
func ParseVenue(s string) (Venue, error) {
	switch Venue(strings.ToLower(strings.TrimSpace(s))) {
	case VenueHome:
		return VenueHome, nil
	case VenueAway:
		return VenueAway, nil
	case VenueNeutral:
		return VenueNeutral, nil
	}
	return "", fmt.Errorf("%w: venue %q", ErrInvalidGame, s)
}

// ParsePhase parses a phase string (case-insensitive).
func ParsePhase(s string) (Phase, error) {
	switch Phase(strings.ToLower(strings.TrimSpace(s))) {
	case PhaseRegular:
		return PhaseRegular, nil
	case PhasePostseason:
		return PhasePostseason, nil
	}
	return "", fmt.Errorf("%w: phase %q", ErrInvalidGame, s)
}

// GameRecord is one completed game as consumed by the ranking engine.
// Records are produced by the external ingestion layer and are read-only here.
// Conference fields are empty when the conference is unknown.
type GameRecord struct {
	Season           int    `json:"season"`
	Week             int    `json:"week"`
	Winner           string `json:"winner"`
	Loser            string `json:"loser"`
	WinnerConference string `json:"winner_conference,omitempty"`
	LoserConference  string `json:"loser_conference,omitempty"`
	Margin           int    `json:"margin"`
	Venue            Venue  `json:"venue"`
	Phase            Phase  `json:"phase"`
	CrossConference  bool   `json:"cross_conference"`
}

// NewGameRecord validates fields and derives the cross-conference flag.
// A game is cross-conference only when both conferences are known and differ.
func NewGameRecord(season, week int, winner, loser string, winnerConf, loserConf string, margin int, venue Venue, phase Phase) (GameRecord, error) {
	if winner == "" || loser == "" {
		return GameRecord{}, fmt.Errorf("%w: missing team id", ErrInvalidGame)
	}
	if winner == loser {
		return GameRecord{}, fmt.Errorf("%w: winner and loser are both %q", ErrInvalidGame, winner)
	}
	if margin < 0 {
		return GameRecord{}, fmt.Errorf("%w: negative margin %d", ErrInvalidGame, margin)
	}
	if _, err := ParseVenue(string(venue)); err != nil {
		return GameRecord{}, err
	}
	if _, err := ParsePhase(string(phase)); err != nil {
		return GameRecord{}, err
	}
	return GameRecord{
		Season:           season,
		Week:             week,
		Winner:           winner,
		Loser:            loser,
		WinnerConference: winnerConf,
		LoserConference:  loserConf,
		Margin:           margin,
		Venue:            venue,
		Phase:            phase,
		CrossConference:  winnerConf != "" && loserConf != "" && winnerConf != loserConf,
	}, nil
}

// IsBowl reports whether the game counts as a postseason (bowl) game.
func (g GameRecord) IsBowl() bool {
	return g.Phase == PhasePostseason
}

// IntraConferenceBowl reports a postseason game between two teams of the same
// known conference. These feed the team graph but never the conference graph.
func (g GameRecord) IntraConferenceBowl() bool {
	return g.IsBowl() && !g.CrossConference &&
		g.WinnerConference != "" && g.WinnerConference == g.LoserConference
}

// Teams returns every distinct team id observed in games.
func Teams(games []GameRecord) []string {
	seen := make(map[string]struct{}, len(games)*2)
	out := make([]string, 0, len(games)*2)
	for _, g := range games {
		if _, ok := seen[g.Winner]; !ok {
			seen[g.Winner] = struct{}{}
			out = append(out, g.Winner)
		}
		if _, ok := seen[g.Loser]; !ok {
			seen[g.Loser] = struct{}{}
			out = append(out, g.Loser)
		}
	}
	return out
}

// Conferences returns every distinct known conference id observed in games.
func Conferences(games []GameRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, g := range games {
		for _, c := range []string{g.WinnerConference, g.LoserConference} {
			if c == "" {
				continue
			}
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	return out
}

// TeamConferences maps each team to its conference as observed in games.
// Teams with no known conference are absent from the map.
func TeamConferences(games []GameRecord) map[string]string {
	m := make(map[string]string)
	for _, g := range games {
		if g.WinnerConference != "" {
			m[g.Winner] = g.WinnerConference
		}
		if g.LoserConference != "" {
			m[g.Loser] = g.LoserConference
		}
	}
	return m
}

// GamesPlayed counts appearances per team, used for shrinkage.
func GamesPlayed(games []GameRecord) map[string]int {
	m := make(map[string]int)
	for _, g := range games {
		m[g.Winner]++
		m[g.Loser]++
	}
	return m
}

// LatestWeek returns the highest week seen, or fallback when games is empty.
func LatestWeek(games []GameRecord, fallback int) int {
	week := fallback
	for _, g := range games {
		if g.Week > week {
			week = g.Week
		}
	}
	return week
}
