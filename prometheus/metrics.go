package prometheus

import (
	"time"

	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Content metrics
	PostOperationsCounter prometheus.CounterVec
	PostViewsCounter      prometheus.CounterVec

	// Comment metrics
	CommentOperationsCounter prometheus.CounterVec

	// Backup/restore metrics
	RestoreItemsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	PostOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_post_operations_total",
			Help: "Total number of post operations",
		},
		[]string{"operation"},
	)

	PostViewsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_post_views_total",
			Help: "Total number of post views",
		},
		[]string{"slug"},
	)

	CommentOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_comment_operations_total",
			Help: "Total number of comment operations",
		},
		[]string{"operation"},
	)

	RestoreItemsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_restore_items_total",
			Help: "Total number of comment restore items by outcome",
		},
		[]string{"outcome"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordPostOperation increments the counter for post operations
func RecordPostOperation(operation string) {
	PostOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordPostView increments the counter for post views
func RecordPostView(slug string) {
	PostViewsCounter.WithLabelValues(slug).Inc()
}

// RecordCommentOperation increments the counter for comment operations
func RecordCommentOperation(operation string) {
	CommentOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordAuthError increments the counter for a failed authentication
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordRestoreItem increments the restore counter for one item outcome
// ("restored" or "skipped").
func RecordRestoreItem(outcome string) {
	RestoreItemsCounter.WithLabelValues(outcome).Inc()
}
