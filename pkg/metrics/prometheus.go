package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the process-wide container of Prometheus collectors.
type Metrics struct {
	// Job queue metrics (§4.G)
	JobsSubmittedTotal *prometheus.CounterVec
	JobsCompletedTotal *prometheus.CounterVec
	JobDuration        *prometheus.HistogramVec
	QueueDepth         prometheus.Gauge
	WorkerUtilization  prometheus.Gauge
	JobStallsTotal     *prometheus.CounterVec

	// Optimization business metrics (§4.D/§4.E/§4.F)
	OptimizationRunsTotal *prometheus.CounterVec
	MatchedLoadsTotal     *prometheus.HistogramVec
	RelayPlansCreated     *prometheus.CounterVec
	RelayEfficiencyScore  *prometheus.HistogramVec
	HubsDiscoveredTotal   *prometheus.HistogramVec
	PredictionsTotal      *prometheus.CounterVec
	PredictionConfidence  *prometheus.HistogramVec

	// Cache/predictor metrics (§4.B)
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Ingress/dispatch metrics (§4.I/§4.J)
	EventsIngestedTotal *prometheus.CounterVec
	EventsDroppedTotal  *prometheus.CounterVec
	DispatchRetries     *prometheus.CounterVec

	// System metrics
	MemoryUsage *prometheus.GaugeVec
	Goroutines  prometheus.Gauge

	// Service info
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics constructs and registers all engine metrics under the given
// namespace/subsystem.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		JobsSubmittedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "jobs_submitted_total",
				Help:      "Total number of optimization jobs submitted",
			},
			[]string{"trigger"},
		),

		JobsCompletedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "jobs_completed_total",
				Help:      "Total number of optimization jobs completed",
			},
			[]string{"status"},
		),

		JobDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_duration_seconds",
				Help:      "Duration of optimization job execution",
				Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"status"},
		),

		QueueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queue_depth",
				Help:      "Current number of jobs waiting in the queue",
			},
		),

		WorkerUtilization: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "worker_utilization_ratio",
				Help:      "Fraction of worker pool slots currently busy",
			},
		),

		JobStallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_stalls_total",
				Help:      "Total number of jobs detected as stalled and requeued",
			},
			[]string{"reason"},
		),

		OptimizationRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "optimization_runs_total",
				Help:      "Total number of network optimization runs",
			},
			[]string{"status"},
		),

		MatchedLoadsTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "matched_loads_total",
				Help:      "Number of loads matched per optimization run",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"region"},
		),

		RelayPlansCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "relay_plans_created_total",
				Help:      "Total number of multi-driver relay plans created",
			},
			[]string{"segment_count"},
		),

		RelayEfficiencyScore: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "relay_efficiency_score",
				Help:      "Efficiency score of generated relay plans",
				Buckets:   []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1.0},
			},
			[]string{"segment_count"},
		),

		HubsDiscoveredTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "hubs_discovered_total",
				Help:      "Number of smart hubs discovered per clustering run",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
			},
			[]string{"region"},
		),

		PredictionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "predictions_total",
				Help:      "Total number of predictor facade calls",
			},
			[]string{"model_kind", "cache_result"},
		),

		PredictionConfidence: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "prediction_confidence",
				Help:      "Confidence score of predictor outputs",
				Buckets:   []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1.0},
			},
			[]string{"model_kind"},
		),

		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),

		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),

		EventsIngestedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_ingested_total",
				Help:      "Total number of ingress events accepted",
			},
			[]string{"event_type"},
		),

		EventsDroppedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_dropped_total",
				Help:      "Total number of ingress events dropped by backpressure",
			},
			[]string{"event_type", "reason"},
		),

		DispatchRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dispatch_retries_total",
				Help:      "Total number of dispatcher retry attempts",
			},
			[]string{"reason"},
		),

		MemoryUsage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "memory_usage_bytes",
				Help:      "Current memory usage",
			},
			[]string{"type"},
		),

		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "goroutines",
				Help:      "Current number of goroutines",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics container, initializing it with default
// namespace/subsystem if it hasn't been set up yet.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("freight", "engine")
	}
	return defaultMetrics
}

// RecordJobSubmitted records a job entering the queue.
func (m *Metrics) RecordJobSubmitted(trigger string) {
	m.JobsSubmittedTotal.WithLabelValues(trigger).Inc()
}

// RecordJobCompleted records a job leaving the queue, successfully or not.
func (m *Metrics) RecordJobCompleted(status string, duration time.Duration) {
	m.JobsCompletedTotal.WithLabelValues(status).Inc()
	m.JobDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// SetQueueDepth records the current number of queued jobs.
func (m *Metrics) SetQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}

// SetWorkerUtilization records the fraction of busy worker slots.
func (m *Metrics) SetWorkerUtilization(ratio float64) {
	m.WorkerUtilization.Set(ratio)
}

// RecordJobStall records a job detected as stalled and requeued.
func (m *Metrics) RecordJobStall(reason string) {
	m.JobStallsTotal.WithLabelValues(reason).Inc()
}

// RecordOptimizationRun records a completed network optimization run.
func (m *Metrics) RecordOptimizationRun(status, region string, matchedLoads int) {
	m.OptimizationRunsTotal.WithLabelValues(status).Inc()
	m.MatchedLoadsTotal.WithLabelValues(region).Observe(float64(matchedLoads))
}

// RecordRelayPlan records a created multi-driver relay plan.
func (m *Metrics) RecordRelayPlan(segmentCount int, efficiency float64) {
	label := strconv.Itoa(segmentCount)
	m.RelayPlansCreated.WithLabelValues(label).Inc()
	m.RelayEfficiencyScore.WithLabelValues(label).Observe(efficiency)
}

// RecordHubsDiscovered records the number of hubs found by a clustering run.
func (m *Metrics) RecordHubsDiscovered(region string, count int) {
	m.HubsDiscoveredTotal.WithLabelValues(region).Observe(float64(count))
}

// RecordPrediction records a predictor facade call, whether served from
// cache or computed fresh.
func (m *Metrics) RecordPrediction(modelKind string, cacheHit bool, confidence float64) {
	cacheResult := "miss"
	if cacheHit {
		cacheResult = "hit"
	}
	m.PredictionsTotal.WithLabelValues(modelKind, cacheResult).Inc()
	m.PredictionConfidence.WithLabelValues(modelKind).Observe(confidence)
}

// RecordCacheHit records a cache hit for the named cache.
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss for the named cache.
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordEventIngested records an accepted ingress event.
func (m *Metrics) RecordEventIngested(eventType string) {
	m.EventsIngestedTotal.WithLabelValues(eventType).Inc()
}

// RecordEventDropped records an ingress event dropped by backpressure.
func (m *Metrics) RecordEventDropped(eventType, reason string) {
	m.EventsDroppedTotal.WithLabelValues(eventType, reason).Inc()
}

// RecordDispatchRetry records a dispatcher retry attempt.
func (m *Metrics) RecordDispatchRetry(reason string) {
	m.DispatchRetries.WithLabelValues(reason).Inc()
}

// SetServiceInfo sets the service_info gauge to 1 for the given version/environment.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler returns the HTTP handler serving Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer starts an HTTP server exposing /metrics and /health.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
