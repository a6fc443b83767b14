// Package metrics provides Prometheus metrics for the ranking engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus metrics for the engine.
type Manager struct {
	namespace string
	subsystem string
	enabled   bool
	registry  *prometheus.Registry

	// Pipeline metrics
	runsTotal        *prometheus.CounterVec
	graphBuildTime   prometheus.Histogram
	teamsRanked      prometheus.Gauge
	conferencesRank  prometheus.Gauge
	neutralityMetric prometheus.Gauge

	// Iteration metrics
	pagerankIterations  prometheus.Histogram
	pagerankNonconverge prometheus.Counter
	emIterations        prometheus.Histogram
	emNonconverge       prometheus.Counter

	// Bootstrap metrics
	bootstrapRounds       prometheus.Counter
	bootstrapRoundsFailed prometheus.Counter
	bootstrapRoundTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "leaguerank",
		subsystem: "engine",
		enabled:   true,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initMetrics()
	return m
}

func (m *Manager) initMetrics() {
	factory := promauto.With(m.registry)

	m.runsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Ranking runs by mode (incremental, hindsight).",
	}, []string{"mode"})

	m.graphBuildTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "graph_build_seconds",
		Help:      "Time spent building the conference and team graphs.",
		Buckets:   prometheus.DefBuckets,
	})

	m.teamsRanked = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_ranked",
		Help:      "Teams in the most recent rating output.",
	})

	m.conferencesRank = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conferences_ranked",
		Help:      "Conferences in the most recent rating output.",
	})

	m.neutralityMetric = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "neutrality_metric",
		Help:      "Latest bias-audit neutrality metric B.",
	})

	m.pagerankIterations = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pagerank_iterations",
		Help:      "Power-iteration steps per PageRank run.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
	})

	m.pagerankNonconverge = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pagerank_nonconverged_total",
		Help:      "PageRank runs that hit the iteration cap.",
	})

	m.emIterations = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "em_outer_iterations",
		Help:      "Outer iterations per hindsight (EM) run.",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
	})

	m.emNonconverge = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "em_nonconverged_total",
		Help:      "Hindsight runs that hit the outer-iteration cap.",
	})

	m.bootstrapRounds = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bootstrap_rounds_total",
		Help:      "Bootstrap resampling rounds completed.",
	})

	m.bootstrapRoundsFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bootstrap_rounds_failed_total",
		Help:      "Bootstrap rounds skipped after a failure.",
	})

	m.bootstrapRoundTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bootstrap_round_seconds",
		Help:      "Duration of one bootstrap resampling round.",
		Buckets:   prometheus.DefBuckets,
	})
}

// Handler returns an HTTP handler exposing the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Handler exposes the global manager's registry.
func Handler() http.Handler {
	return globalManager.Handler()
}

// RecordRun counts a ranking run by mode.
func RecordRun(mode string) {
	if globalManager.enabled {
		globalManager.runsTotal.WithLabelValues(mode).Inc()
	}
}

// TimeGraphBuild starts a graph-build timer; call the returned func when done.
func TimeGraphBuild() func() {
	if !globalManager.enabled {
		return func() {}
	}
	start := time.Now()
	return func() {
		globalManager.graphBuildTime.Observe(time.Since(start).Seconds())
	}
}

// RecordRankedCounts records output population sizes.
func RecordRankedCounts(teams, conferences int) {
	if globalManager.enabled {
		globalManager.teamsRanked.Set(float64(teams))
		globalManager.conferencesRank.Set(float64(conferences))
	}
}

// RecordNeutralityMetric records the latest bias-audit metric.
func RecordNeutralityMetric(b float64) {
	if globalManager.enabled {
		globalManager.neutralityMetric.Set(b)
	}
}

// RecordPageRankRun records one PageRank run.
func RecordPageRankRun(iterations int, converged bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.pagerankIterations.Observe(float64(iterations))
	if !converged {
		globalManager.pagerankNonconverge.Inc()
	}
}

// RecordEMRun records one hindsight (EM) run.
func RecordEMRun(outerIterations int, converged bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.emIterations.Observe(float64(outerIterations))
	if !converged {
		globalManager.emNonconverge.Inc()
	}
}

// RecordBootstrapRound records one bootstrap round outcome.
func RecordBootstrapRound(d time.Duration, ok bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.bootstrapRoundTime.Observe(d.Seconds())
	if ok {
		globalManager.bootstrapRounds.Inc()
	} else {
		globalManager.bootstrapRoundsFailed.Inc()
	}
}
