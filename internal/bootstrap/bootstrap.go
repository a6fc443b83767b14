// Package bootstrap estimates ranking uncertainty by resampling games with
// replacement and re-running the hindsight pipeline on each sample.
package bootstrap

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/internal/rank"
	"github.com/leaguerank/leaguerank/internal/standings"
	"github.com/leaguerank/leaguerank/pkg/logger"
	"github.com/leaguerank/leaguerank/pkg/metrics"
)

// Sample-count bounds and defaults.
const (
	MinSamples     = 25
	MaxSamples     = 100
	defaultSamples = 50
	defaultTopK    = 25
	defaultSeed    = 42
)

// TeamUncertainty summarizes one team's rank distribution across rounds.
type TeamUncertainty struct {
	MeanRank   float64 `json:"mean_rank"`
	MedianRank float64 `json:"median_rank"`
	StdRank    float64 `json:"std_rank"`
	MinRank    int     `json:"min_rank"`
	MaxRank    int     `json:"max_rank"`
	// Volatility is MaxRank − MinRank.
	Volatility int `json:"volatility"`
	// CI90 and CI95 are percentile intervals over the rank distribution.
	CI90 [2]float64 `json:"ci_90"`
	CI95 [2]float64 `json:"ci_95"`
}

// Report aggregates all bootstrap rounds. Available is false when no round
// succeeded; that is "uncertainty unavailable", not an error.
type Report struct {
	Available        bool                       `json:"available"`
	SamplesRequested int                        `json:"samples_requested"`
	SamplesUsed      int                        `json:"samples_used"`
	Teams            map[string]TeamUncertainty `json:"teams,omitempty"`
	// TopKStability is the mean overlap fraction between the baseline
	// top-K and each round's top-K.
	TopKStability float64 `json:"top_k_stability"`
	TopK          int     `json:"top_k"`
}

// Estimator runs the resampling rounds. Rounds only read immutable game
// data and the seed ratings, so they run on independent workers with a
// plain result merge and no locks.
type Estimator struct {
	orchestrator *rank.Orchestrator
	samples      int
	workers      int
	topK         int
	seed         int64
	logger       logger.Logger
}

// New creates an Estimator, then applies options.
func New(orchestrator *rank.Orchestrator, opts ...Option) *Estimator {
	e := &Estimator{
		orchestrator: orchestrator,
		samples:      defaultSamples,
		workers:      runtime.NumCPU(),
		topK:         defaultTopK,
		seed:         defaultSeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.orchestrator == nil {
		e.orchestrator = rank.New()
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("bootstrap")
	}
	return e
}

type roundResult struct {
	ranks map[string]int
	top   []string
	err   error
}

// Run draws len(games) games with replacement per round, reruns the
// hindsight pipeline seeded from the converged baseline, and aggregates
// the resulting rank distributions. Failed rounds are skipped and excluded
// from the sample count.
func (e *Estimator) Run(ctx context.Context, games []model.GameRecord, baseline model.Ratings) Report {
	report := Report{SamplesRequested: e.samples, TopK: e.topK}
	if len(games) == 0 || len(baseline) == 0 {
		e.logger.Warn(ctx, "bootstrap skipped: nothing to resample",
			logger.Int("games", len(games)),
			logger.Int("teams", len(baseline)),
		)
		return report
	}

	baselineTop := standings.New(baseline).TopNIDs(e.topK)

	jobs := make(chan int64)
	results := make(chan roundResult, e.samples)

	workers := e.workers
	if workers < 1 {
		workers = 1
	}
	if workers > e.samples {
		workers = e.samples
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for round := range jobs {
				results <- e.runRound(ctx, games, baseline, round)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for round := int64(0); round < int64(e.samples); round++ {
			select {
			case jobs <- round:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ranksByTeam := make(map[string][]int)
	overlapSum := 0.0
	succeeded := 0
	for res := range results {
		if res.err != nil {
			e.logger.Warn(ctx, "bootstrap round failed; skipping", logger.Error(res.err))
			continue
		}
		succeeded++
		worst := len(baseline)
		for team := range baseline {
			r, ok := res.ranks[team]
			if !ok {
				// Teams that vanish from a resample rank last.
				r = worst
			}
			ranksByTeam[team] = append(ranksByTeam[team], r)
		}
		overlapSum += overlap(baselineTop, res.top)
	}

	report.SamplesUsed = succeeded
	if succeeded == 0 {
		e.logger.Warn(ctx, "all bootstrap rounds failed; uncertainty unavailable")
		return report
	}

	report.Available = true
	report.Teams = make(map[string]TeamUncertainty, len(ranksByTeam))
	for team, ranks := range ranksByTeam {
		report.Teams[team] = summarizeRanks(ranks)
	}
	if len(baselineTop) > 0 {
		report.TopKStability = overlapSum / float64(succeeded)
	}

	e.logger.Info(ctx, "bootstrap analysis complete",
		logger.Int("samplesUsed", succeeded),
		logger.Int("samplesRequested", e.samples),
		logger.Float64("topKStability", report.TopKStability),
	)
	return report
}

// runRound executes one resampling round. A panic inside the pipeline is
// converted to a failed round rather than taking down the whole analysis.
func (e *Estimator) runRound(ctx context.Context, games []model.GameRecord, baseline model.Ratings, round int64) (res roundResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = roundResult{err: fmt.Errorf("bootstrap round %d panicked: %v", round, r)}
		}
		metrics.RecordBootstrapRound(time.Since(start), res.err == nil)
	}()

	rng := rand.New(rand.NewSource(e.seed + round)) //nolint:gosec // deterministic resampling, not crypto

	sampled := make([]model.GameRecord, len(games))
	for i := range sampled {
		sampled[i] = games[rng.Intn(len(games))]
	}

	result := e.orchestrator.RunHindsight(ctx, sampled, baseline)
	if len(result.TeamRatings) == 0 {
		return roundResult{err: fmt.Errorf("bootstrap round %d produced no ratings", round)}
	}

	table := standings.New(result.TeamRatings)
	return roundResult{
		ranks: table.RankMap(),
		top:   table.TopNIDs(e.topK),
	}
}

// overlap returns the fraction of baseline ids present in sample.
func overlap(baseline, sample []string) float64 {
	if len(baseline) == 0 {
		return 0
	}
	in := make(map[string]struct{}, len(sample))
	for _, id := range sample {
		in[id] = struct{}{}
	}
	hits := 0
	for _, id := range baseline {
		if _, ok := in[id]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(baseline))
}

func summarizeRanks(ranks []int) TeamUncertainty {
	sorted := make([]int, len(ranks))
	copy(sorted, ranks)
	sort.Ints(sorted)

	n := len(sorted)
	sum := 0.0
	for _, r := range sorted {
		sum += float64(r)
	}
	mean := sum / float64(n)

	ss := 0.0
	for _, r := range sorted {
		d := float64(r) - mean
		ss += d * d
	}

	u := TeamUncertainty{
		MeanRank:   mean,
		MedianRank: percentile(sorted, 50),
		StdRank:    math.Sqrt(ss / float64(n)),
		MinRank:    sorted[0],
		MaxRank:    sorted[n-1],
		CI90:       [2]float64{percentile(sorted, 5), percentile(sorted, 95)},
		CI95:       [2]float64{percentile(sorted, 2.5), percentile(sorted, 97.5)},
	}
	u.Volatility = u.MaxRank - u.MinRank
	return u
}

// percentile interpolates the p-th percentile of sorted values.
func percentile(sorted []int, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return float64(sorted[0])
	}
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}
