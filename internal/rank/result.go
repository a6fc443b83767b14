package rank

import (
	"github.com/leaguerank/leaguerank/internal/audit"
	"github.com/leaguerank/leaguerank/internal/domain/model"
)

// Mode selects how the orchestrator couples the two ranking stages.
type Mode string

// Orchestration modes.
const (
	// ModeIncremental runs one pass using last period's ratings as the
	// shrinkage prior.
	ModeIncremental Mode = "incremental"
	// ModeHindsight iterates the two stages to a joint fixed point with
	// shrinkage disabled.
	ModeHindsight Mode = "hindsight"
)

// IterationStats records one outer iteration of the hindsight loop.
type IterationStats struct {
	Iteration int     `json:"iteration"`
	MaxDelta  float64 `json:"max_delta"`
}

// ConvergenceReport describes the outcome of the hindsight fixed-point
// loop. Incremental runs carry a nil report.
type ConvergenceReport struct {
	Iterations    int              `json:"iterations"`
	Converged     bool             `json:"converged"`
	FinalMaxDelta float64          `json:"final_max_delta"`
	History       []IterationStats `json:"history,omitempty"`
}

// Priors seed a run. Nil maps mean cold start (uniform neutral).
type Priors struct {
	TeamRatings       model.Ratings
	ConferenceRatings model.Ratings
}

// Result is the committed output of one orchestrated run.
type Result struct {
	RunID             string             `json:"run_id"`
	Mode              Mode               `json:"mode"`
	GamesProcessed    int                `json:"games_processed"`
	TeamRatings       model.Ratings      `json:"team_ratings"`
	ConferenceRatings model.Ratings      `json:"conference_ratings"`
	Convergence       *ConvergenceReport `json:"convergence,omitempty"`
	Bias              audit.Report       `json:"bias"`
}
