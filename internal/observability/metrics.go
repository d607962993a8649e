// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostsCreated counts created posts by type (ORIGINAL, REPOST, QUOTE, REPLY).
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perch_posts_created_total",
		Help: "Total number of posts created by type",
	}, []string{"type"})

	// BirdsAwarded counts achievement awards by condition type.
	BirdsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perch_birds_awarded_total",
		Help: "Total number of bird achievements awarded by condition type",
	}, []string{"condition_type"})

	// BirdCheckLatency records achievement check latency by condition type.
	BirdCheckLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "perch_bird_check_latency_seconds",
		Help:    "Achievement threshold check latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"condition_type"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "perch_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perch_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheRequests counts cache lookups by key class and result (hit/miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perch_cache_requests_total",
		Help: "Total cache lookups by key class and result",
	}, []string{"key", "result"})
)

// TrackBirdCheck returns a function that records achievement check latency when
// called (e.g. defer).
func TrackBirdCheck(conditionType string) func() {
	start := time.Now()
	return func() {
		BirdCheckLatency.WithLabelValues(conditionType).Observe(time.Since(start).Seconds())
	}
}
