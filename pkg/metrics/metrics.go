package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// Weather fetch metrics
	FetchRequestsTotal *prometheus.CounterVec
	FetchDuration      prometheus.Histogram

	// Cache metrics
	CacheReadsTotal     *prometheus.CounterVec
	CacheFallbackTotal  *prometheus.CounterVec
	CacheWarmTotal      *prometheus.CounterVec
	CacheEvictionsTotal prometheus.Counter

	// Favorite metrics
	FavoriteTogglesTotal *prometheus.CounterVec

	// Seed metrics
	SeedRecordsTotal   prometheus.Counter
	SeedRecordsSkipped prometheus.Counter

	// Sync metrics
	SyncRunsTotal     prometheus.Counter
	SyncRewarmedTotal prometheus.Counter

	// Database Metrics
	DBQueryDuration  *prometheus.HistogramVec
	DBConnectionPool *prometheus.GaugeVec
	DBErrorsTotal    *prometheus.CounterVec
}

// NewCollector creates a new metrics collector registered on reg.
// Tests pass an isolated prometheus.NewRegistry().
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by type",
			},
			[]string{"error_type", "endpoint"},
		),

		FetchRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_fetch_requests_total",
				Help:      "Total number of upstream weather fetches by outcome",
			},
			[]string{"outcome"},
		),

		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "weather_fetch_duration_seconds",
				Help:      "Upstream weather fetch duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
		),

		CacheReadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "temperature_cache_reads_total",
				Help:      "Total number of temperature cache reads by result (hit, miss)",
			},
			[]string{"result"},
		),

		CacheFallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "temperature_cache_fallback_total",
				Help:      "Offline fallback attempts after a network-unavailable fetch, by outcome",
			},
			[]string{"outcome"},
		),

		CacheWarmTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "temperature_cache_warm_total",
				Help:      "Favorite-triggered cache warm attempts by outcome",
			},
			[]string{"outcome"},
		),

		CacheEvictionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "temperature_cache_evictions_total",
				Help:      "Total number of temperature cache evictions after un-favoriting",
			},
		),

		FavoriteTogglesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "favorite_toggles_total",
				Help:      "Total number of favorite flag toggles by new state",
			},
			[]string{"state"},
		),

		SeedRecordsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_records_total",
				Help:      "Total number of location records imported from the seed source",
			},
		),

		SeedRecordsSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_records_skipped_total",
				Help:      "Seed records rejected by validation",
			},
		),

		SyncRunsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "favorite_sync_runs_total",
				Help:      "Total number of favorite snapshot sync runs",
			},
		),

		SyncRewarmedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "favorite_sync_rewarmed_total",
				Help:      "Favorites whose missing snapshot was re-warmed by the sync job",
			},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds by query type",
				Buckets:   []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"query_type"},
		),

		DBConnectionPool: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"state"}, // "in_use", "idle", "total"
		),

		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_errors_total",
				Help:      "Total number of database errors by type",
			},
			[]string{"error_type"},
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordAPIError increments API error counter
func (c *Collector) RecordAPIError(errorType, endpoint string) {
	c.APIErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordFetch increments the upstream fetch counter
func (c *Collector) RecordFetch(outcome string) {
	c.FetchRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheRead increments the cache read counter
func (c *Collector) RecordCacheRead(result string) {
	c.CacheReadsTotal.WithLabelValues(result).Inc()
}

// RecordFallback increments the offline fallback counter
func (c *Collector) RecordFallback(outcome string) {
	c.CacheFallbackTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheWarm increments the favorite cache warm counter
func (c *Collector) RecordCacheWarm(outcome string) {
	c.CacheWarmTotal.WithLabelValues(outcome).Inc()
}

// RecordFavoriteToggle increments the favorite toggle counter
func (c *Collector) RecordFavoriteToggle(nowFavorite bool) {
	state := "unfavorited"
	if nowFavorite {
		state = "favorited"
	}
	c.FavoriteTogglesTotal.WithLabelValues(state).Inc()
}

// RecordDBError increments database error counter
func (c *Collector) RecordDBError(errorType string) {
	c.DBErrorsTotal.WithLabelValues(errorType).Inc()
}

// UpdateDBConnectionPool updates database connection pool metrics
func (c *Collector) UpdateDBConnectionPool(inUse, idle, total int) {
	c.DBConnectionPool.WithLabelValues("in_use").Set(float64(inUse))
	c.DBConnectionPool.WithLabelValues("idle").Set(float64(idle))
	c.DBConnectionPool.WithLabelValues("total").Set(float64(total))
}
