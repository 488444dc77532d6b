package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Fetch metrics
	FetchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_fetch_items_total",
			Help: "Total items fetched from reddit past the watermark",
		},
		[]string{"kind"},
	)
	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_fetch_errors_total",
			Help: "Fetch attempts that failed after retries",
		},
		[]string{"kind"},
	)
	FetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "indexer_fetch_latency_seconds",
			Help:    "Time to fetch one listing page",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Write metrics
	InsertCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_insert_documents_total",
			Help: "Documents handed to the bulk insert",
		},
		[]string{"kind"},
	)
	InsertErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indexer_insert_errors_total",
			Help: "Bulk inserts that failed or partially failed",
		},
		[]string{"kind"},
	)
	IndexErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "indexer_index_maintenance_errors_total",
			Help: "Failed search index creations",
		})

	// Worker metrics
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "indexer_sweep_duration_seconds",
			Help:    "Time for one full sweep over a worker group",
			Buckets: prometheus.DefBuckets,
		})
	ActiveWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "indexer_active_workers",
			Help: "Worker loops currently running",
		})

	// API metrics
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	APIRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	APICacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "api_cache_hits_total",
			Help: "Read requests answered from the response cache",
		})

	// Cache metrics
	RedisOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)
	RedisErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_errors_total",
			Help: "Total Redis errors",
		},
		[]string{"operation"},
	)

	// Store metrics
	MongoOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_operation_duration_seconds",
			Help:    "MongoDB operation duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)
	MongoErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_errors_total",
			Help: "Total MongoDB errors",
		},
		[]string{"operation"},
	)
)

func init() {
	// MustRegister panics if registration fails (e.g. duplicate)
	prometheus.MustRegister(
		FetchCounter, FetchErrors, FetchLatency,
		InsertCounter, InsertErrors, IndexErrors,
		SweepDuration, ActiveWorkers,
		APIRequestDuration, APIRequestTotal, APICacheHits,
		RedisOperationDuration, RedisErrors,
		MongoOperationDuration, MongoErrors,
	)
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Status returns "success" or "error" for metric labels.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
