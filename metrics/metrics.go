// Package metrics holds the Prometheus collectors of the tournament server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mktournament"

// TournamentMetrics is the set of collectors the tournament service reports to.
type TournamentMetrics struct {
	ScheduleAttempts   prometheus.Histogram
	LooseSchedules     prometheus.Counter
	ResultsRecorded    *prometheus.CounterVec
	DuplicatePositions prometheus.Counter
	PhaseTransitions   *prometheus.CounterVec
	Players            prometheus.Gauge
	Archives           *prometheus.CounterVec
}

// NewTournamentMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is what tests want.
func NewTournamentMetrics(reg prometheus.Registerer) *TournamentMetrics {
	m := &TournamentMetrics{
		ScheduleAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_attempts",
			Help:      "Attempts needed to build a championship schedule.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 101},
		}),
		LooseSchedules: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_loose_total",
			Help:      "Championship schedules that fell back to loose mode.",
		}),
		ResultsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "race_results_recorded_total",
			Help:      "Race result submissions applied, by phase.",
		}, []string{"phase"}),
		DuplicatePositions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "race_duplicate_positions_total",
			Help:      "Result submissions that gave the same position to several players.",
		}),
		PhaseTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Tournament phase changes, by target phase.",
		}, []string{"phase"}),
		Players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players",
			Help:      "Registered players.",
		}),
		Archives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archives_total",
			Help:      "State archives written, by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ScheduleAttempts,
			m.LooseSchedules,
			m.ResultsRecorded,
			m.DuplicatePositions,
			m.PhaseTransitions,
			m.Players,
			m.Archives,
		)
	}
	return m
}
