package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astuceplus_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SearchesTotal counts search requests by caller kind (anonymous, member, moderator).
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astuceplus_searches_total",
		Help: "Total number of tip searches by caller kind",
	}, []string{"caller"})

	// RatingsSubmitted records the distribution of submitted rating notes.
	RatingsSubmitted = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "astuceplus_rating_note",
		Help:    "Distribution of submitted rating notes (1-5)",
		Buckets: []float64{1, 2, 3, 4, 5},
	})

	// ModerationTransitions counts proposition status transitions by target status.
	ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astuceplus_moderation_transitions_total",
		Help: "Total number of proposition status transitions by target status",
	}, []string{"status"})

	// FavoriteToggles counts favorite toggles by outcome (added, removed).
	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astuceplus_favorite_toggles_total",
		Help: "Total number of favorite toggles by outcome",
	}, []string{"outcome"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
