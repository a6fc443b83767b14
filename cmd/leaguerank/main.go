// Command leaguerank runs the ranking pipeline over a season of games and
// writes the resulting ratings as JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leaguerank/leaguerank/internal/audit"
	"github.com/leaguerank/leaguerank/internal/bootstrap"
	"github.com/leaguerank/leaguerank/internal/config"
	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/internal/domain/pagerank"
	"github.com/leaguerank/leaguerank/internal/domain/weights"
	"github.com/leaguerank/leaguerank/internal/rank"
	"github.com/leaguerank/leaguerank/internal/seasongen"
	"github.com/leaguerank/leaguerank/internal/standings"
	"github.com/leaguerank/leaguerank/pkg/logger"
	"github.com/leaguerank/leaguerank/pkg/metrics"
)

const metricsReadHeaderTimeout = 5 * time.Second

// priorsFile is the JSON shape accepted by -priors.
type priorsFile struct {
	TeamRatings       model.Ratings `json:"team_ratings"`
	ConferenceRatings model.Ratings `json:"conference_ratings"`
}

// output is the JSON document written on stdout.
type output struct {
	Result    *rank.Result      `json:"result"`
	Standings []standings.Entry `json:"standings"`
	Bootstrap *bootstrap.Report `json:"bootstrap,omitempty"`
}

func main() {
	var (
		gamesPath     = flag.String("games", "-", "Path to a JSON array of game records, or - for stdin")
		priorsPath    = flag.String("priors", "", "Optional path to prior ratings JSON")
		mode          = flag.String("mode", "hindsight", "Ranking mode: incremental or hindsight")
		demo          = flag.Bool("demo", false, "Generate a synthetic season instead of reading games")
		withBootstrap = flag.Bool("bootstrap", false, "Run bootstrap uncertainty analysis after ranking")
		metricsAddr   = flag.String("metrics-addr", "", "Optional listen address for Prometheus metrics, e.g. :9100")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
	}

	if *metricsAddr != "" {
		go serveMetrics(ctx, log, *metricsAddr)
	}

	games, err := loadGames(ctx, *demo, *gamesPath)
	if err != nil {
		log.Error(ctx, "failed to load games", logger.Error(err))
		os.Exit(1)
	}
	if len(games) == 0 {
		log.Error(ctx, "no games to rank")
		os.Exit(1)
	}

	priors, err := loadPriors(*priorsPath)
	if err != nil {
		log.Error(ctx, "failed to load priors", logger.Error(err))
		os.Exit(1)
	}

	orchestrator := buildOrchestrator(cfg)

	var result *rank.Result
	switch rank.Mode(*mode) {
	case rank.ModeIncremental:
		result = orchestrator.RunIncremental(ctx, games, priors)
	case rank.ModeHindsight:
		result = orchestrator.RunHindsight(ctx, games, priors.TeamRatings)
	default:
		log.Error(ctx, "unknown mode", logger.String("mode", *mode))
		os.Exit(1)
	}

	out := output{
		Result:    result,
		Standings: standings.New(result.TeamRatings).Entries(),
	}

	if *withBootstrap {
		estimator := bootstrap.New(orchestrator,
			bootstrap.WithSamples(cfg.BootstrapSamples),
			bootstrap.WithWorkers(cfg.BootstrapWorkers),
			bootstrap.WithTopK(cfg.BootstrapTopK),
		)
		report := estimator.Run(ctx, games, result.TeamRatings)
		out.Bootstrap = &report
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error(ctx, "failed to encode output", logger.Error(err))
		os.Exit(1)
	}
}

func buildOrchestrator(cfg *config.Config) *rank.Orchestrator {
	return rank.New(
		rank.WithEngine(pagerank.New(
			pagerank.WithDamping(cfg.Damping),
			pagerank.WithTolerance(cfg.PageRankTolerance),
			pagerank.WithMaxIterations(cfg.PageRankMaxIterations),
		)),
		rank.WithWeightOptions(
			weights.WithMarginCap(cfg.MarginCap),
			weights.WithVenueFactors(cfg.VenueHomeFactor, cfg.VenueNeutralFactor, cfg.VenueAwayFactor),
			weights.WithLambdaDecay(cfg.RecencyLambda),
			weights.WithShrinkageK(cfg.ShrinkageK),
			weights.WithWinProbC(cfg.WinProbC),
			weights.WithRiskExponent(cfg.RiskExponent),
			weights.WithSurprise(cfg.SurpriseGamma, cfg.SurpriseCap),
			weights.WithBowlBump(cfg.BowlBump),
		),
		rank.WithAuditor(audit.New(
			audit.WithThreshold(cfg.BiasThreshold),
			audit.WithAutoTuneThreshold(cfg.AutoTuneThreshold),
			audit.WithCurrentLambda(cfg.RecencyLambda),
		)),
		rank.WithConvergenceThreshold(cfg.ConvergenceThreshold),
		rank.WithMaxOuterIterations(cfg.MaxOuterIterations),
	)
}

func loadGames(ctx context.Context, demo bool, path string) ([]model.GameRecord, error) {
	if demo {
		games, _ := seasongen.New().Generate(ctx)
		return games, nil
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var games []model.GameRecord
	if err := json.NewDecoder(r).Decode(&games); err != nil {
		return nil, err
	}

	// Revalidate through the constructor; upstream JSON is not trusted to
	// have derived the cross-conference flag.
	out := make([]model.GameRecord, 0, len(games))
	for _, g := range games {
		record, err := model.NewGameRecord(g.Season, g.Week, g.Winner, g.Loser,
			g.WinnerConference, g.LoserConference, g.Margin, g.Venue, g.Phase)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func loadPriors(path string) (rank.Priors, error) {
	if path == "" {
		return rank.Priors{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return rank.Priors{}, err
	}
	defer f.Close()

	var p priorsFile
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return rank.Priors{}, err
	}
	return rank.Priors{
		TeamRatings:       p.TeamRatings,
		ConferenceRatings: p.ConferenceRatings,
	}, nil
}

func serveMetrics(ctx context.Context, log logger.Logger, addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn(ctx, "metrics server stopped", logger.Error(err))
	}
}
