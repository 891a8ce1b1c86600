package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialhub_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// AuthAttempts counts signup and login outcomes.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialhub_auth_attempts_total",
		Help: "Signup and login attempts by action and outcome",
	}, []string{"action", "outcome"})

	// PostsCreated counts successfully created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialhub_posts_created_total",
		Help: "Total number of posts created",
	})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialhub_like_toggles_total",
		Help: "Like toggles by resulting state",
	}, []string{"state"})

	// UploadBytes records stored upload sizes per directory.
	UploadBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialhub_upload_bytes",
		Help:    "Size of stored uploads in bytes",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 6),
	}, []string{"kind"})

	// RateLimited counts requests rejected by per-route limits.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialhub_rate_limited_total",
		Help: "Requests rejected by per-route rate limits",
	}, []string{"resource"})
)
