// Package metrics provides Prometheus metrics for the document intelligence service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "docintel"
)

// Ingest metrics track document ingestion.
var (
	// IngestTotal is the total number of documents ingested, by outcome.
	IngestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_total",
		Help:      "Total number of documents ingested",
	}, []string{"outcome"})

	// IngestDuration is a histogram of document ingestion duration in seconds.
	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingest_duration_seconds",
		Help:      "Duration of document ingestion in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s to ~205s
	})

	// IngestChunksTotal is the total number of chunks produced during ingestion.
	IngestChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_chunks_total",
		Help:      "Total number of chunks produced during ingestion",
	})

	// IngestPagesTotal is the total number of PDF pages processed during ingestion.
	IngestPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_pages_total",
		Help:      "Total number of PDF pages processed during ingestion",
	})
)

// Query metrics track semantic search requests.
var (
	// QueryTotal is the total number of semantic search queries.
	QueryTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_total",
		Help:      "Total number of semantic search queries",
	})

	// QueryDuration is a histogram of query duration in seconds.
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Duration of semantic search queries in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
	})

	// QueryResultsReturned is a histogram of result-set sizes.
	QueryResultsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_results_returned",
		Help:      "Number of results returned per query",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})
)

// Index metrics track the in-memory semantic index.
var (
	// IndexChunksTotal is the current number of chunks held in the index.
	IndexChunksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_chunks_total",
		Help:      "Total number of chunks in the semantic index",
	})

	// IndexDocumentsTotal is the current number of ingested documents.
	IndexDocumentsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_documents_total",
		Help:      "Total number of documents in the registry",
	})

	// IndexPersistDuration is a histogram of index persistence write duration.
	IndexPersistDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "index_persist_duration_seconds",
		Help:      "Duration of semantic index persistence writes in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~0.5s
	})
)

// Cache metrics track the embeddings result cache.
var (
	// CacheHitsTotal is the total number of embeddings cache hits.
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits",
	}, []string{"cache"})

	// CacheMissesTotal is the total number of embeddings cache misses.
	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses",
	}, []string{"cache"})
)

// Provider metrics track embeddings/insights provider API usage.
var (
	// ProviderRequestsTotal is the total number of provider API requests.
	ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Total number of provider API requests",
	}, []string{"provider", "operation"})

	// ProviderErrorsTotal is the total number of provider API errors.
	ProviderErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_errors_total",
		Help:      "Total number of provider API errors",
	}, []string{"provider", "operation"})

	// ProviderTokensTotal is the total number of tokens consumed.
	ProviderTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_tokens_total",
		Help:      "Total number of tokens consumed",
	}, []string{"provider", "type"})

	// ProviderDuration is a histogram of provider request duration in seconds.
	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_duration_seconds",
		Help:      "Duration of provider API requests in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~51s
	}, []string{"provider", "operation"})
)

// Watcher metrics track filesystem monitoring for legacy-directory ingestion.
var (
	// WatcherEventsTotal is the total number of filesystem events observed.
	WatcherEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watcher_events_total",
		Help:      "Total number of filesystem events",
	}, []string{"type"})

	// WatcherPathsTotal is the total number of paths being watched.
	WatcherPathsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watcher_paths_total",
		Help:      "Total number of paths being watched",
	})
)

// Graph metrics track outline knowledge graph operations.
var (
	// GraphOperationsTotal is the total number of graph operations.
	GraphOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graph_operations_total",
		Help:      "Total number of graph operations",
	}, []string{"operation"})

	// GraphOperationDuration is a histogram of graph operation duration.
	GraphOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graph_operation_duration_seconds",
		Help:      "Duration of graph operations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~0.5s
	}, []string{"operation"})

	// GraphOperationErrorsTotal is the total number of graph operation errors.
	GraphOperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graph_operation_errors_total",
		Help:      "Total number of graph operation errors",
	}, []string{"operation"})

	// EventBusDroppedEvents is the total number of events dropped due to a
	// full subscriber buffer, by event type.
	EventBusDroppedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_bus_dropped_events_total",
		Help:      "Total number of events dropped due to subscriber backpressure",
	}, []string{"event_type"})
)

// TTL metrics track the retention sweeper.
var (
	// TTLSweepsTotal is the total number of sweep cycles run.
	TTLSweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ttl_sweeps_total",
		Help:      "Total number of TTL sweep cycles run",
	})

	// TTLDocumentsDeletedTotal is the total number of documents removed by the sweeper.
	TTLDocumentsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ttl_documents_deleted_total",
		Help:      "Total number of documents deleted by the TTL sweeper",
	})
)

// Server metrics track service health and uptime.
var (
	// ServerInfo provides service version and build information.
	ServerInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "server_info",
		Help:      "Service version and build information",
	}, []string{"version", "go_version"})

	// ServerStartTime is the unix timestamp when the service started.
	ServerStartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "server_start_time_seconds",
		Help:      "Unix timestamp when the service started",
	})

	// ComponentStatus tracks the health status of service components.
	ComponentStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "component_status",
		Help:      "Health status of service components (1=healthy, 0=unhealthy)",
	}, []string{"component"})
)
