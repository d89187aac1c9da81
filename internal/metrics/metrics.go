// Package metrics provides Prometheus collectors for the progression engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kidplay"

// Point credit sources
const (
	SourceGame        = "game"
	SourceAchievement = "achievement"
)

// Metrics holds the engine collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	resultsRecorded      *prometheus.CounterVec
	pointsCredited       *prometheus.CounterVec
	achievementsUnlocked *prometheus.CounterVec
	awardConflicts       *prometheus.CounterVec
	recordErrors         *prometheus.CounterVec
	recordDuration       prometheus.Histogram
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	auto := promauto.With(reg)

	return &Metrics{
		resultsRecorded: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_recorded_total",
			Help:      "Game results recorded, by game and difficulty",
		}, []string{"game", "difficulty"}),

		pointsCredited: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_credited_total",
			Help:      "Points credited to child profiles, by source",
		}, []string{"source"}),

		achievementsUnlocked: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Achievements newly unlocked, by key",
		}, []string{"key"}),

		awardConflicts: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "award_conflicts_total",
			Help:      "Award attempts absorbed because the achievement was already unlocked",
		}, []string{"key"}),

		recordErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_errors_total",
			Help:      "Failed RecordResult calls, by error kind",
		}, []string{"kind"}),

		recordDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_duration_seconds",
			Help:      "RecordResult latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ResultRecorded(game, difficulty string) {
	if m == nil {
		return
	}
	m.resultsRecorded.WithLabelValues(game, difficulty).Inc()
}

func (m *Metrics) PointsCredited(source string, points int) {
	if m == nil || points <= 0 {
		return
	}
	m.pointsCredited.WithLabelValues(source).Add(float64(points))
}

func (m *Metrics) AchievementUnlocked(key string) {
	if m == nil {
		return
	}
	m.achievementsUnlocked.WithLabelValues(key).Inc()
}

func (m *Metrics) AwardConflict(key string) {
	if m == nil {
		return
	}
	m.awardConflicts.WithLabelValues(key).Inc()
}

func (m *Metrics) RecordError(kind string) {
	if m == nil {
		return
	}
	m.recordErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRecord(d time.Duration) {
	if m == nil {
		return
	}
	m.recordDuration.Observe(d.Seconds())
}
