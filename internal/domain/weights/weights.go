// Package weights computes edge weights for the ranking graphs from game
// outcomes and rating estimates.
package weights

import (
	"math"

	"github.com/leaguerank/leaguerank/internal/domain/model"
)

// Default weighting parameters.
const (
	defaultMarginCap   = 5
	defaultLambdaDecay = 0.05
	defaultHomeFactor  = 1.1
	defaultNeutralFac  = 1.0
	defaultAwayFactor  = 0.9
	defaultShrinkageK  = 4.0
	defaultWinProbC    = 0.40
	defaultRiskB       = 1.0
	defaultGamma       = 0.75
	defaultSurpriseCap = 3.0
	defaultBowlBump    = 1.10

	// probEpsilon bounds probabilities away from 0 and 1 before any log or
	// power operation.
	probEpsilon = 1e-10
)

// Input carries the game and the rating context needed to weight it.
type Input struct {
	Game model.GameRecord

	// ReferenceWeek anchors recency decay; games older than it decay.
	ReferenceWeek int

	// WinnerRating and LoserRating are raw rating estimates.
	WinnerRating float64
	LoserRating  float64

	// WinnerGames and LoserGames are games-played counts for shrinkage.
	// Ignored when shrinkage is disabled.
	WinnerGames int
	LoserGames  int
}

// Bundle is the weight set for one game.
type Bundle struct {
	// CreditWeight is the loser→winner team edge weight.
	CreditWeight float64
	// PenaltyWeight is the winner→loser team edge weight.
	PenaltyWeight float64
	// ConferenceWeight is the loser-conference→winner-conference edge
	// weight; zero unless the game qualifies for the conference graph.
	ConferenceWeight float64

	CrossConference bool
	IsBowl          bool

	// Diagnostic factors.
	Base        float64
	Margin      float64
	Venue       float64
	Decay       float64
	ExpectedWin float64
}

// Calculator turns game outcomes into edge weights. The zero value is not
// usable; construct with New.
type Calculator struct {
	marginCap   int
	lambdaDecay float64
	homeFactor  float64
	neutralFac  float64
	awayFactor  float64
	shrinkageK  float64
	winProbC    float64
	riskB       float64
	gamma       float64
	surpriseCap float64
	bowlBump    float64
	shrinkage   bool
}

// New creates a Calculator with default parameters, then applies options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		marginCap:   defaultMarginCap,
		lambdaDecay: defaultLambdaDecay,
		homeFactor:  defaultHomeFactor,
		neutralFac:  defaultNeutralFac,
		awayFactor:  defaultAwayFactor,
		shrinkageK:  defaultShrinkageK,
		winProbC:    defaultWinProbC,
		riskB:       defaultRiskB,
		gamma:       defaultGamma,
		surpriseCap: defaultSurpriseCap,
		bowlBump:    defaultBowlBump,
		shrinkage:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MarginFactor is log2(1+margin) with margin clamped to [1, cap].
func (c *Calculator) MarginFactor(margin int) float64 {
	if margin < 1 {
		margin = 1
	}
	if margin > c.marginCap {
		margin = c.marginCap
	}
	return math.Log2(1 + float64(margin))
}

// VenueFactor is the home-field adjustment from the winner's side.
func (c *Calculator) VenueFactor(venue model.Venue) float64 {
	switch venue {
	case model.VenueHome:
		return c.homeFactor
	case model.VenueAway:
		return c.awayFactor
	default:
		return c.neutralFac
	}
}

// DecayFactor is exp(-λ·Δweeks) relative to the reference week. Games from
// the reference week or later decay by nothing.
func (c *Calculator) DecayFactor(gameWeek, referenceWeek int) float64 {
	delta := referenceWeek - gameWeek
	if delta < 0 {
		delta = 0
	}
	return math.Exp(-c.lambdaDecay * float64(delta))
}

// BlendedRating shrinks a low-sample rating toward the neutral prior:
// ω·rating + (1−ω)·0.5 with ω = played/(played+k). When shrinkage is
// disabled (hindsight mode) the rating passes through unchanged.
func (c *Calculator) BlendedRating(rating float64, played int) float64 {
	if !c.shrinkage {
		return rating
	}
	omega := float64(played) / (float64(played) + c.shrinkageK)
	return omega*rating + (1-omega)*model.NeutralRating
}

// ExpectedWinProbability is the logistic expectation
// 1/(1+10^(−(rWin−rLose)/C)), clamped to (probEpsilon, 1−probEpsilon).
func (c *Calculator) ExpectedWinProbability(winnerRating, loserRating float64) float64 {
	diff := winnerRating - loserRating
	p := 1 / (1 + math.Pow(10, -diff/c.winProbC))
	return clampProb(p)
}

// SurpriseMultiplier is min(1+γ·(−log2 p), cap): cross-conference upsets
// carry extra information for the conference graph.
func (c *Calculator) SurpriseMultiplier(p float64) float64 {
	information := -math.Log2(clampProb(p))
	m := 1 + c.gamma*information
	return math.Min(m, c.surpriseCap)
}

// Calculate produces the full weight bundle for one game.
func (c *Calculator) Calculate(in Input) Bundle {
	g := in.Game

	margin := c.MarginFactor(g.Margin)
	venue := c.VenueFactor(g.Venue)
	decay := c.DecayFactor(g.Week, in.ReferenceWeek)
	base := margin * venue * decay

	rWin := c.BlendedRating(in.WinnerRating, in.WinnerGames)
	rLose := c.BlendedRating(in.LoserRating, in.LoserGames)
	p := c.ExpectedWinProbability(rWin, rLose)

	// Upset wins earn disproportionate credit; expected losses are
	// penalized lightly.
	credit := base * (1 - p) / math.Pow(0.5, c.riskB)
	penalty := base * math.Pow(p/0.5, c.riskB)

	isBowl := g.IsBowl()
	if isBowl {
		credit *= c.bowlBump
	}

	// Conference edges exist only for cross-conference games with both
	// conferences known. Intra-conference bowls stay out of the conference
	// graph so a conference cannot boost itself through its own postseason.
	confWeight := 0.0
	if g.CrossConference && g.WinnerConference != "" && g.LoserConference != "" {
		confWeight = credit * c.SurpriseMultiplier(p)
	}

	return Bundle{
		CreditWeight:     credit,
		PenaltyWeight:    penalty,
		ConferenceWeight: confWeight,
		CrossConference:  g.CrossConference,
		IsBowl:           isBowl,
		Base:             base,
		Margin:           margin,
		Venue:            venue,
		Decay:            decay,
		ExpectedWin:      p,
	}
}

// LambdaDecay exposes the current recency parameter, used by the bias audit
// when suggesting a retune.
func (c *Calculator) LambdaDecay() float64 {
	return c.lambdaDecay
}

func clampProb(p float64) float64 {
	if p < probEpsilon {
		return probEpsilon
	}
	if p > 1-probEpsilon {
		return 1 - probEpsilon
	}
	return p
}
