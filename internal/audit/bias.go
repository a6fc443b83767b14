// Package audit measures conference neutrality of a rating output.
package audit

import (
	"context"
	"math"

	"github.com/leaguerank/leaguerank/internal/domain/model"
	"github.com/leaguerank/leaguerank/pkg/logger"
	"github.com/leaguerank/leaguerank/pkg/metrics"
)

// Default audit thresholds and the bounds of the λ retune suggestion.
const (
	defaultThreshold         = 0.06
	defaultAutoTuneThreshold = 0.04

	lambdaTuneFactor = 0.9
	lambdaMin        = 0.01
	lambdaMax        = 0.1
)

// ConferenceStats summarizes one conference's ratings.
type ConferenceStats struct {
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	TeamCount int     `json:"team_count"`
	Deviation float64 `json:"deviation_from_global"`
}

// Report is the outcome of one bias audit.
type Report struct {
	// NeutralityMetric is B = max over conferences of |mean(R|c) − mean(R)|.
	NeutralityMetric float64                    `json:"neutrality_metric"`
	GlobalMean       float64                    `json:"global_mean"`
	Conferences      map[string]ConferenceStats `json:"conferences"`
	Threshold        float64                    `json:"threshold"`
	Passed           bool                       `json:"passed"`

	// SuggestedLambda is a retune hint populated only when B exceeds the
	// stricter auto-tune threshold. It is surfaced to an operator, never
	// applied automatically.
	SuggestedLambda float64 `json:"suggested_lambda,omitempty"`
}

// Auditor computes neutrality reports.
type Auditor struct {
	threshold         float64
	autoTuneThreshold float64
	lambda            float64
	logger            logger.Logger
}

// Option applies a configuration option to the Auditor.
type Option func(*Auditor)

// WithThreshold sets the pass/fail threshold on B.
func WithThreshold(t float64) Option {
	return func(a *Auditor) {
		if t > 0 {
			a.threshold = t
		}
	}
}

// WithAutoTuneThreshold sets the stricter threshold that triggers a λ
// retune suggestion.
func WithAutoTuneThreshold(t float64) Option {
	return func(a *Auditor) {
		if t > 0 {
			a.autoTuneThreshold = t
		}
	}
}

// WithCurrentLambda tells the auditor the recency λ in effect, so its
// suggestion starts from the real value.
func WithCurrentLambda(lambda float64) Option {
	return func(a *Auditor) {
		if lambda > 0 {
			a.lambda = lambda
		}
	}
}

// WithLogger sets a custom logger for the auditor.
func WithLogger(l logger.Logger) Option {
	return func(a *Auditor) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Auditor with default thresholds, then applies options.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		threshold:         defaultThreshold,
		autoTuneThreshold: defaultAutoTuneThreshold,
		lambda:            0.05,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("audit")
	}
	return a
}

// Audit measures how far any conference's average rating drifts from the
// global average. Teams without a known conference are grouped under
// "Independent" so they still contribute a deviation.
func (a *Auditor) Audit(ctx context.Context, ratings model.Ratings, teamConf map[string]string) Report {
	report := Report{
		Conferences: make(map[string]ConferenceStats),
		Threshold:   a.threshold,
		Passed:      true,
	}
	if len(ratings) == 0 {
		return report
	}

	report.GlobalMean = ratings.Mean()

	byConf := make(map[string][]float64)
	for team, rating := range ratings {
		conf, ok := teamConf[team]
		if !ok || conf == "" {
			conf = "Independent"
		}
		byConf[conf] = append(byConf[conf], rating)
	}

	for conf, vals := range byConf {
		stats := summarize(vals)
		stats.Deviation = math.Abs(stats.Mean - report.GlobalMean)
		report.Conferences[conf] = stats
		if stats.Deviation > report.NeutralityMetric {
			report.NeutralityMetric = stats.Deviation
		}
	}

	report.Passed = report.NeutralityMetric <= a.threshold
	if report.NeutralityMetric > a.autoTuneThreshold {
		report.SuggestedLambda = SuggestLambda(a.lambda)
		a.logger.Warn(ctx, "neutrality metric above auto-tune threshold",
			logger.Float64("neutralityMetric", report.NeutralityMetric),
			logger.Float64("suggestedLambda", report.SuggestedLambda),
		)
	}

	metrics.RecordNeutralityMetric(report.NeutralityMetric)
	a.logger.Debug(ctx, "bias audit complete",
		logger.Float64("neutralityMetric", report.NeutralityMetric),
		logger.Bool("passed", report.Passed),
		logger.Int("conferences", len(report.Conferences)),
	)
	return report
}

// SuggestLambda is the retune heuristic: shrink λ by 10% and clamp to
// [0.01, 0.1].
func SuggestLambda(current float64) float64 {
	next := current * lambdaTuneFactor
	if next < lambdaMin {
		next = lambdaMin
	}
	if next > lambdaMax {
		next = lambdaMax
	}
	return next
}

func summarize(vals []float64) ConferenceStats {
	stats := ConferenceStats{
		TeamCount: len(vals),
		Min:       math.Inf(1),
		Max:       math.Inf(-1),
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Mean = sum / float64(len(vals))

	if len(vals) > 1 {
		ss := 0.0
		for _, v := range vals {
			d := v - stats.Mean
			ss += d * d
		}
		stats.Std = math.Sqrt(ss / float64(len(vals)))
	}
	return stats
}
