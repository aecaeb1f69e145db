package metrics

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsProvider is an interface for components that provide metrics.
type MetricsProvider interface {
	// CollectMetrics collects current metrics from the component.
	CollectMetrics(ctx context.Context) error
}

// Collector manages metric collection from various components.
type Collector struct {
	mu        sync.RWMutex
	providers map[string]MetricsProvider
	interval  time.Duration
	stopCh    chan struct{}
	running   bool
}

// NewCollector creates a new metrics collector.
func NewCollector(interval time.Duration) *Collector {
	return &Collector{
		providers: make(map[string]MetricsProvider),
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Register adds a metrics provider to the collector.
func (c *Collector) Register(name string, provider MetricsProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[name] = provider
}

// Unregister removes a metrics provider from the collector.
func (c *Collector) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.providers, name)
}

// Start begins periodic metric collection.
func (c *Collector) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.stopCh = make(chan struct{})
	c.mu.Unlock()

	ServerStartTime.Set(float64(time.Now().Unix()))
	ServerInfo.WithLabelValues("1.0.0", runtime.Version()).Set(1)

	// Initial collection
	c.collect(ctx)

	// Start periodic collection
	go c.run(ctx)

	return nil
}

// Stop halts periodic metric collection.
func (c *Collector) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	close(c.stopCh)
	c.running = false
	return nil
}

// run is the main collection loop.
func (c *Collector) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

// collect gathers metrics from all registered providers.
func (c *Collector) collect(ctx context.Context) {
	c.mu.RLock()
	providers := make(map[string]MetricsProvider, len(c.providers))
	for k, v := range c.providers {
		providers[k] = v
	}
	c.mu.RUnlock()

	for name, provider := range providers {
		if err := provider.CollectMetrics(ctx); err != nil {
			ComponentStatus.WithLabelValues(name).Set(0)
		} else {
			ComponentStatus.WithLabelValues(name).Set(1)
		}
	}
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns a handler for a specific registry.
func HandlerFor(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RecordIngest records a document ingestion.
func RecordIngest(duration time.Duration, chunkCount, pageCount int, err error) {
	if err != nil {
		IngestTotal.WithLabelValues("failed").Inc()
		return
	}
	IngestTotal.WithLabelValues("ingested").Inc()
	IngestDuration.Observe(duration.Seconds())
	IngestChunksTotal.Add(float64(chunkCount))
	IngestPagesTotal.Add(float64(pageCount))
}

// RecordQuery records a semantic search query.
func RecordQuery(duration time.Duration, resultCount int) {
	QueryTotal.Inc()
	QueryDuration.Observe(duration.Seconds())
	QueryResultsReturned.Observe(float64(resultCount))
}

// RecordProviderRequest records an embeddings/insights provider API request.
func RecordProviderRequest(provider, operation string, duration time.Duration, inputTokens, outputTokens int, err error) {
	ProviderRequestsTotal.WithLabelValues(provider, operation).Inc()
	ProviderDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())

	if inputTokens > 0 {
		ProviderTokensTotal.WithLabelValues(provider, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		ProviderTokensTotal.WithLabelValues(provider, "output").Add(float64(outputTokens))
	}

	if err != nil {
		ProviderErrorsTotal.WithLabelValues(provider, operation).Inc()
	}
}

// RecordCacheAccess records an embeddings cache access.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(cacheType).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(cacheType).Inc()
	}
}

// RecordGraphOperation records an outline graph operation.
func RecordGraphOperation(operation string, duration time.Duration, err error) {
	GraphOperationsTotal.WithLabelValues(operation).Inc()
	GraphOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		GraphOperationErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// RecordWatcherEvent records a filesystem event.
func RecordWatcherEvent(eventType string) {
	WatcherEventsTotal.WithLabelValues(eventType).Inc()
}

// RecordTTLSweep records a TTL sweep cycle.
func RecordTTLSweep(documentsDeleted int) {
	TTLSweepsTotal.Inc()
	TTLDocumentsDeletedTotal.Add(float64(documentsDeleted))
}

// UpdateIndexMetrics updates the semantic index gauges.
func UpdateIndexMetrics(chunkCount, documentCount int) {
	IndexChunksTotal.Set(float64(chunkCount))
	IndexDocumentsTotal.Set(float64(documentCount))
}

// UpdateWatcherMetrics updates the watcher metrics.
func UpdateWatcherMetrics(pathCount int) {
	WatcherPathsTotal.Set(float64(pathCount))
}
