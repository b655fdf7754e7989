package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code", "service"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "service"},
	)

	// Business metrics for the video service
	VideosCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videos_created_total",
			Help: "Total number of videos created",
		},
	)

	VideosDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videos_deleted_total",
			Help: "Total number of videos deleted",
		},
	)

	VideoViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_views_recorded_total",
			Help: "Total number of video views recorded",
		},
		[]string{"source"},
	)

	OwnershipRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_ownership_rejections_total",
			Help: "Total number of mutations rejected because the caller does not own the video",
		},
		[]string{"operation"},
	)

	FeedChannelsQueried = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_feed_channels",
			Help:    "Number of subscribed channels queried per feed request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// Database metrics
	MongoOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_operations_total",
			Help: "Total number of MongoDB operations",
		},
		[]string{"operation", "collection", "status"},
	)

	MongoOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "MongoDB operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	// NATS metrics
	NatsMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of NATS messages published",
		},
		[]string{"subject", "status"},
	)

	NatsMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_received_total",
			Help: "Total number of NATS messages received",
		},
		[]string{"subject", "status"},
	)

	// Application health metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "application_info",
			Help: "Application information",
		},
		[]string{"service", "version", "environment"},
	)
)

// Initialize metrics with default values
func Init(serviceName, version, environment string) {
	ApplicationInfo.WithLabelValues(serviceName, version, environment).Set(1)
}

// Status maps an operation error to the status label value.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
